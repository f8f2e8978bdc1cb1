package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/astrosim/simagent/internal/extract"
	"github.com/astrosim/simagent/internal/oai"
)

const visualizationSystemMessage = `You are a helpful AI assistant.
Solve tasks using your coding and language skills.
You suggest codes to help physicists plot power spectrum based on files in a directory, make sure you use the correct scale for each axis and label the redshift on the plot.
When you need to perform a task with code, suggest python code (in a python coding block) for the user to execute and output the result.
The user cannot modify your code, so do not suggest incomplete code which requires modification. Don't include multiple code blocks in one response.
If the result indicates there is an error, fix the error and output the code again. Suggest the full code instead of partial code or code changes.
Reply 'TERMINATE' in the end when everything is done.`

// VisualizationAgent plots power spectra from simulation output files.
type VisualizationAgent struct {
	client      *oai.Client
	model       string
	temperature float64
}

func NewVisualizationAgent(client *oai.Client, model string, temperature float64) *VisualizationAgent {
	if model == "" {
		model = "gpt-4o"
	}
	return &VisualizationAgent{client: client, model: model, temperature: temperature}
}

// PowerSpectrumMessage builds the plotting instruction for an external chat
// loop. Power spectrum files are named powerspectrum-<scale_factor>.txt and
// the label uses z = 1/a - 1.
func (a *VisualizationAgent) PowerSpectrumMessage(outputDir string, redshift float64, outputFilename string) string {
	return fmt.Sprintf(`I would like to plot power spectrum at redshifts %g, using power spectrum file in this folder:
%s
The name of power spectrum file is powerspectrum-<scale_factor>.txt, you can find the scale factor in the file name and convert it to redshift using the following formula:
redshift = 1 / scale_factor - 1
if you can't find the specific redshift in the file name, you can use the nearest redshift in the file name.
the output file name should be %q, make sure you use the correct file name and label the redshift on the plot.`,
		redshift, filepath.Join(outputDir, "sim_output")+string(filepath.Separator), outputFilename)
}

// GeneratePlot asks the model for a plotting script, extracts the first
// python code block and hands it to the executor. No retries: the executor's
// reported success flag is the only validation.
func (a *VisualizationAgent) GeneratePlot(ctx context.Context, executor CodeExecutor, outputDir string, redshift float64, outputFilename string) (ExecResult, error) {
	return generateAndExecute(ctx, a.client, a.model, a.temperature, executor,
		visualizationSystemMessage, a.PowerSpectrumMessage(outputDir, redshift, outputFilename))
}

// generateAndExecute is the shared generate-then-execute cycle.
func generateAndExecute(ctx context.Context, client *oai.Client, model string, temperature float64, executor CodeExecutor, systemMessage, userMessage string) (ExecResult, error) {
	reply, err := client.ChatComplete(ctx, model, temperature, []oai.ChatMessage{
		{Role: "system", Content: systemMessage},
		{Role: "user", Content: userMessage},
	})
	if err != nil {
		return ExecResult{}, fmt.Errorf("agent: code generation: %w", err)
	}
	return executeReply(ctx, executor, reply)
}

// executeReply extracts the script from a model reply and runs it.
func executeReply(ctx context.Context, executor CodeExecutor, reply string) (ExecResult, error) {
	source, err := extract.CodeBlock(reply, "python")
	if err != nil {
		return ExecResult{}, fmt.Errorf("agent: %w", err)
	}

	result, err := executor.Execute(ctx, source)
	if err != nil {
		return ExecResult{}, fmt.Errorf("agent: execute generated code: %w", err)
	}
	if !result.Success {
		return result, fmt.Errorf("agent: generated code failed: %s", strings.TrimSpace(result.Error))
	}
	return result, nil
}

var scaleFactorPattern = regexp.MustCompile(`powerspectrum-([0-9.]+)\.txt$`)

// RedshiftFromFilename derives the redshift labeled on a plot from a power
// spectrum file name via z = 1/a - 1.
func RedshiftFromFilename(filename string) (float64, error) {
	m := scaleFactorPattern.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return 0, fmt.Errorf("agent: %q is not a power spectrum file", filename)
	}
	a, err := strconv.ParseFloat(strings.TrimSuffix(m[1], "."), 64)
	if err != nil || a <= 0 {
		return 0, fmt.Errorf("agent: invalid scale factor in %q", filename)
	}
	return 1/a - 1, nil
}
