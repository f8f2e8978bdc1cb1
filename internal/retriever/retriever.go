// Package retriever extracts MP-Gadget simulation parameters from cosmology
// papers. The production implementation coordinates two retrieval-augmented
// assistants; the interface stays narrow so the comparison framework can run
// any extraction strategy side by side.
package retriever

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/astrosim/simagent/internal/domain"
	"github.com/astrosim/simagent/internal/simconfig"
)

// ParameterRetriever is one extraction strategy. Implementations may fail;
// callers treat any error as a failed extraction for that paper and never
// let it propagate past the strategy boundary.
type ParameterRetriever interface {
	// Name identifies the strategy in reports and artifact paths.
	Name() string

	// RetrieveParameters extracts a parameter set and a reasoning narrative
	// from paper content. customPrompt optionally steers the extraction,
	// e.g. "Focus on the simulation run named 'L100N512'".
	RetrieveParameters(ctx context.Context, paperContent, customPrompt string) (domain.ParameterSet, string, error)
}

// FormatOutput renders a result in the standard on-disk format: parameters
// as indented JSON, a separator, then the reasoning narrative.
func FormatOutput(methodName string, set domain.ParameterSet, reasoning string) string {
	encoded, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		encoded = []byte("{}")
	}
	return fmt.Sprintf("%s\n---\n**Parameter Extraction Reasoning (%s):**\n%s", encoded, methodName, reasoning)
}

// ValidateParameters reports the required fields a parameter set lacks.
func ValidateParameters(set domain.ParameterSet) []string {
	return simconfig.Validate(set.Genic, set.Gadget)
}
