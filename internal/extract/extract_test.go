package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	Genic  map[string]string `json:"genic"`
	Status string            `json:"status"`
}

func TestJSONObjectDirect(t *testing.T) {
	var r reply
	err := JSONObject(`{"genic": {"BoxSize": "100"}, "status": "complete"}`, &r)
	require.NoError(t, err)
	assert.Equal(t, "100", r.Genic["BoxSize"])
	assert.Equal(t, "complete", r.Status)
}

func TestJSONObjectBraceSpanInsideProse(t *testing.T) {
	text := `Here is the configuration you asked for:

{"genic": {"Nmesh": "512"}, "status": "incomplete"}

Let me know if anything is missing.`

	var r reply
	require.NoError(t, JSONObject(text, &r))
	assert.Equal(t, "512", r.Genic["Nmesh"])
}

func TestJSONObjectFencedBlock(t *testing.T) {
	text := "The parameters are:\n```json\n{\"status\": \"complete\", \"genic\": {}}\n```\nDone."

	var r reply
	require.NoError(t, JSONObject(text, &r))
	assert.Equal(t, "complete", r.Status)
}

// A fenced block whose surrounding prose also contains braces: the widest
// brace span is invalid JSON, so the fenced strategy must recover the object.
func TestJSONObjectFencedFallbackAfterBraceSpanFails(t *testing.T) {
	text := "Note {this aside} first.\n```json\n{\"status\": \"complete\"}\n```\ntrailing } brace"

	var r reply
	require.NoError(t, JSONObject(text, &r))
	assert.Equal(t, "complete", r.Status)
}

func TestJSONObjectInvalidTextFails(t *testing.T) {
	var r reply
	err := JSONObject("no structured content here at all", &r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestJSONObjectInvalidBracesReportError(t *testing.T) {
	var r reply
	err := JSONObject("broken { not json } everywhere", &r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoJSON)
	// The failure must carry what was tried, not silently yield zero values.
	assert.Contains(t, err.Error(), "brace-span")
}

func TestCodeBlockPrefersTaggedFence(t *testing.T) {
	text := "```\nsome output\nimport nothing\n```\n```python\nimport matplotlib.pyplot as plt\nplt.plot(x, y)\n```"

	code, err := CodeBlock(text, "python")
	require.NoError(t, err)
	assert.Contains(t, code, "plt.plot")
	assert.NotContains(t, code, "some output")
}

func TestCodeBlockUntaggedFallbackNeedsMarkers(t *testing.T) {
	text := "```\nimport numpy as np\nprint(np.sum(a))\n```"
	code, err := CodeBlock(text, "python")
	require.NoError(t, err)
	assert.Contains(t, code, "import numpy")

	_, err = CodeBlock("```\njust a table of numbers\n```", "python")
	assert.ErrorIs(t, err, ErrNoCodeBlock)
}

func TestCodeBlockMissing(t *testing.T) {
	_, err := CodeBlock("no fences anywhere", "python")
	assert.ErrorIs(t, err, ErrNoCodeBlock)
}
