package agent

import (
	"context"
	"fmt"

	"github.com/astrosim/simagent/internal/oai"
)

const densityFieldInstructions = `# === role_prompt: RAG-Code-Snippet-Agent ===
Role
- You search local gaepsi2 source files and propose runnable Python code
  that sets up and plots a 3D density field (SPH-style) with gaepsi2.

Mission
1. Retrieve: locate the most relevant functions/classes in gaepsi2
   (e.g. painter.paint, camera.data_to_device, color.Colormap).
2. Extract: copy their docstrings verbatim and highlight units,
   array shapes, and return types.
3. Summarise each item in 40 words (purpose + key params).
4. Compose a minimal, self-contained Python snippet
   that demonstrates a working density-plot pipeline.
   Use only numpy + matplotlib beyond gaepsi2.
   The code must import without NameErrors.
5. Return the output must be a self-contained Python script`

// DensityFieldAgent renders 3-D density fields from simulation snapshots,
// grounded in a persistent gaepsi2 reference index.
type DensityFieldAgent struct {
	client        *oai.Client
	model         string
	temperature   float64
	vectorStoreID string
	poll          oai.AwaitConfig
}

func NewDensityFieldAgent(client *oai.Client, model string, temperature float64, vectorStoreID string, poll oai.AwaitConfig) *DensityFieldAgent {
	if model == "" {
		model = "gpt-4o"
	}
	return &DensityFieldAgent{client: client, model: model, temperature: temperature, vectorStoreID: vectorStoreID, poll: poll}
}

// DensityFieldMessage builds the rendering instruction. With a
// super-resolution snapshot present the message asks for either an overlay or
// a side-by-side comparison.
func (a *DensityFieldAgent) DensityFieldMessage(lrSnapshotPath, srSnapshotPath, outputFilename string, sideBySide bool) string {
	switch {
	case srSnapshotPath != "" && sideBySide:
		return fmt.Sprintf(`Write Python code (using the bigfile and gaepsi2 libraries) that loads the snapshots located at
%s and %s, computes a 3-D density field for each snapshot with the full simulation volume and constant smoothing length, put the center at the center of the box, and saves the plot as %s. You have 2 subplots, one for the lr snapshot and one for the sr snapshot. Put them side by side. Make sure the background is black and label the redshift on the plot.`,
			lrSnapshotPath, srSnapshotPath, outputFilename)
	case srSnapshotPath != "":
		return fmt.Sprintf(`Write Python code (using the bigfile and gaepsi2 libraries) that loads the snapshot located at
%s and %s, computes a 3-D density field for the full simulation volume with constant smoothing length, put the center at the center of the box, and saves the plot as %s. Make sure the background is black and label the redshift on the plot.`,
			lrSnapshotPath, srSnapshotPath, outputFilename)
	default:
		return fmt.Sprintf(`Write Python code (using the bigfile and gaepsi2 libraries) that loads the snapshot located at
%s (redshift = 0), computes a 3-D density field for the full simulation volume, and saves the plot as %s.`,
			lrSnapshotPath, outputFilename)
	}
}

// GenerateDensityField asks the reference-grounded assistant for a rendering
// script and runs it through the executor. The assistant surface is used
// instead of plain chat so the gaepsi2 index can ground the generated code.
func (a *DensityFieldAgent) GenerateDensityField(ctx context.Context, executor CodeExecutor, lrSnapshotPath, srSnapshotPath, outputFilename string, sideBySide bool) (ExecResult, error) {
	message := a.DensityFieldMessage(lrSnapshotPath, srSnapshotPath, outputFilename, sideBySide)

	if a.vectorStoreID == "" {
		return generateAndExecute(ctx, a.client, a.model, a.temperature, executor, densityFieldInstructions, message)
	}
	return a.generateWithAssistant(ctx, executor, message)
}

func (a *DensityFieldAgent) generateWithAssistant(ctx context.Context, executor CodeExecutor, message string) (ExecResult, error) {
	assistant, err := a.client.PostAssistant(ctx, oai.AssistantProto{
		Name:         "gaepsi2 density field assistant",
		Instructions: densityFieldInstructions,
		Model:        a.model,
		Tools:        []oai.Tool{{Type: "file_search"}},
		ToolResources: &oai.ToolResources{
			FileSearch: &oai.FileSearchResources{VectorStoreIDs: []string{a.vectorStoreID}},
		},
		Temperature: a.temperature,
	})
	if err != nil {
		return ExecResult{}, fmt.Errorf("agent: density assistant: %w", err)
	}

	threadID, err := a.client.PostThread(ctx)
	if err != nil {
		return ExecResult{}, err
	}
	defer a.client.DeleteThread(ctx, threadID)

	reply, err := a.client.RunAssistant(ctx, a.poll, threadID, assistant.ID, message)
	if err != nil {
		return ExecResult{}, err
	}
	return executeReply(ctx, executor, reply)
}
