package compare

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/astrosim/simagent/internal/domain"
	"github.com/astrosim/simagent/internal/retriever"
	"github.com/astrosim/simagent/internal/simconfig"
)

// saveMethodResult writes one retriever's artifacts under
// <runDir>/<method>/. Simulation config files are only emitted when the
// extracted parameters cover every required field.
func saveMethodResult(runDir, method string, result domain.MethodResult) error {
	dir := filepath.Join(runDir, method)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if result.FormattedOutput != "" {
		if err := os.WriteFile(filepath.Join(dir, "output.txt"), []byte(result.FormattedOutput), 0o644); err != nil {
			return err
		}
	}
	if result.Reasoning != "" {
		if err := os.WriteFile(filepath.Join(dir, "reasoning.txt"), []byte(result.Reasoning), 0o644); err != nil {
			return err
		}
	}

	params, err := json.MarshalIndent(result.Parameters, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "parameters.json"), params, 0o644); err != nil {
		return err
	}

	full, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "full_result.json"), full, 0o644); err != nil {
		return err
	}

	if result.Status == domain.StatusSuccess {
		if missing := retriever.ValidateParameters(result.Parameters); len(missing) == 0 {
			if err := simconfig.WriteGenic(filepath.Join(dir, "sim.genic"), result.Parameters.Genic, simconfig.Options{}); err != nil {
				return err
			}
			if err := simconfig.WriteGadget(filepath.Join(dir, "sim.gadget"), result.Parameters.Gadget, simconfig.Options{}); err != nil {
				return err
			}
		}
	}
	return nil
}
