package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrosim/simagent/internal/oai"
)

type recordingExecutor struct {
	source string
	result ExecResult
	err    error
}

func (e *recordingExecutor) Execute(_ context.Context, source string) (ExecResult, error) {
	e.source = source
	return e.result, e.err
}

func chatClient(t *testing.T, reply string) *oai.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)

	client := oai.NewClient("test-key")
	client.BaseURL = server.URL
	client.Limiter = nil
	return client
}

func TestRedshiftFromFilename(t *testing.T) {
	z, err := RedshiftFromFilename("powerspectrum-0.5.txt")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, z, 1e-9)

	z, err = RedshiftFromFilename("/sim_output/powerspectrum-1.0.txt")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, z, 1e-9)

	_, err = RedshiftFromFilename("snapshot_000")
	assert.Error(t, err)

	_, err = RedshiftFromFilename("powerspectrum-0.txt")
	assert.Error(t, err)
}

func TestPowerSpectrumMessage(t *testing.T) {
	a := NewVisualizationAgent(nil, "", 0)
	msg := a.PowerSpectrumMessage("/run", 0.5, "pspec.png")
	assert.Contains(t, msg, "redshift = 1 / scale_factor - 1")
	assert.Contains(t, msg, "/run/sim_output/")
	assert.Contains(t, msg, `"pspec.png"`)
}

func TestGeneratePlotExecutesExtractedCode(t *testing.T) {
	reply := "Here you go:\n```python\nimport matplotlib.pyplot as plt\nplt.savefig('pspec.png')\n```\nTERMINATE"
	a := NewVisualizationAgent(chatClient(t, reply), "gpt-4o", 0.01)
	executor := &recordingExecutor{result: ExecResult{Success: true, Output: "done"}}

	result, err := a.GeneratePlot(context.Background(), executor, "/run", 0.0, "pspec.png")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, executor.source, "plt.savefig")
	assert.NotContains(t, executor.source, "```")
}

func TestGeneratePlotReportsExecutionFailure(t *testing.T) {
	reply := "```python\nimport broken\n```"
	a := NewVisualizationAgent(chatClient(t, reply), "gpt-4o", 0.01)
	executor := &recordingExecutor{result: ExecResult{Success: false, Error: "ModuleNotFoundError: broken"}}

	result, err := a.GeneratePlot(context.Background(), executor, "/run", 0.0, "pspec.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ModuleNotFoundError")
	assert.False(t, result.Success)
}

func TestGeneratePlotNoCodeBlock(t *testing.T) {
	a := NewVisualizationAgent(chatClient(t, "I cannot write code today."), "gpt-4o", 0.01)
	executor := &recordingExecutor{}

	_, err := a.GeneratePlot(context.Background(), executor, "/run", 0.0, "pspec.png")
	require.Error(t, err)
	assert.Empty(t, executor.source, "nothing should reach the executor")
}

func TestDensityFieldMessageVariants(t *testing.T) {
	a := NewDensityFieldAgent(nil, "", 0, "", oai.AwaitConfig{})

	single := a.DensityFieldMessage("/snap/PART_005", "", "density.png", false)
	assert.Contains(t, single, "redshift = 0")
	assert.NotContains(t, single, "side by side")

	dual := a.DensityFieldMessage("/snap/lr", "/snap/sr", "density.png", true)
	assert.Contains(t, dual, "2 subplots")
	assert.Contains(t, dual, "side by side")
}
