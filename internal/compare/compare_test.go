package compare

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrosim/simagent/internal/domain"
)

type stubRetriever struct {
	name      string
	set       domain.ParameterSet
	reasoning string
	err       error
	panics    bool
}

func (s *stubRetriever) Name() string { return s.name }

func (s *stubRetriever) RetrieveParameters(ctx context.Context, paperContent, customPrompt string) (domain.ParameterSet, string, error) {
	if s.panics {
		panic("stub exploded")
	}
	if s.err != nil {
		return domain.ParameterSet{}, "", s.err
	}
	return s.set, s.reasoning, nil
}

func completeSet() domain.ParameterSet {
	return domain.ParameterSet{
		Genic: map[string]string{
			"OutputDir":             "output",
			"FileWithInputSpectrum": "spectrum.txt",
			"FileBase":              "ICs",
			"Nmesh":                 "512",
			"BoxSize":               "100",
		},
		Gadget: map[string]string{
			"InitCondFile": "output/ICs",
			"OutputDir":    "output",
			"TimeMax":      "1",
			"OutputList":   "0.1,0.5,1",
		},
	}
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
}

func TestRunPersistsArtifacts(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	c.Now = fixedClock()
	c.Add(&stubRetriever{name: "MethodA", set: completeSet(), reasoning: "found everything"}, "")

	report, err := c.Run(context.Background(), "paper text", "test_paper", false, "prefer box units")
	require.NoError(t, err)
	require.NotEmpty(t, report.ID)
	assert.Equal(t, "test_paper", report.PaperName)

	runDir := filepath.Join(dir, "test_paper_20240301_120000")
	content, err := os.ReadFile(filepath.Join(runDir, "paper_content.txt"))
	require.NoError(t, err)
	assert.Equal(t, "paper text", string(content))

	prompt, err := os.ReadFile(filepath.Join(runDir, "custom_prompt.txt"))
	require.NoError(t, err)
	assert.Equal(t, "prefer box units", string(prompt))

	methodDir := filepath.Join(runDir, "MethodA")
	for _, name := range []string{"output.txt", "parameters.json", "reasoning.txt", "full_result.json", "sim.genic", "sim.gadget"} {
		_, err := os.Stat(filepath.Join(methodDir, name))
		assert.NoError(t, err, name)
	}

	var set domain.ParameterSet
	raw, err := os.ReadFile(filepath.Join(methodDir, "parameters.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &set))
	assert.Equal(t, "100", set.Genic["BoxSize"])
}

func TestRunElidesFormattedOutputFromFullResult(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	c.Now = fixedClock()
	c.Add(&stubRetriever{name: "MethodA", set: completeSet(), reasoning: "r"}, "")

	_, err := c.Run(context.Background(), "paper", "p", false, "")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "p_20240301_120000", "MethodA", "full_result.json"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "FormattedOutput")
	assert.Contains(t, decoded, "execution_time")
}

func TestRunSkipsSimFilesWhenIncomplete(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	c.Now = fixedClock()
	c.Add(&stubRetriever{
		name: "Partial",
		set:  domain.ParameterSet{Genic: map[string]string{"BoxSize": "100"}, Gadget: map[string]string{}},
	}, "")

	_, err := c.Run(context.Background(), "paper", "p", false, "")
	require.NoError(t, err)

	methodDir := filepath.Join(dir, "p_20240301_120000", "Partial")
	_, err = os.Stat(filepath.Join(methodDir, "parameters.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(methodDir, "sim.genic"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	c.Now = fixedClock()
	c.Add(&stubRetriever{name: "Good", set: completeSet()}, "")
	c.Add(&stubRetriever{name: "Broken", err: errors.New("assistant unavailable")}, "")
	c.Add(&stubRetriever{name: "Panicky", panics: true}, "")

	report, err := c.Run(context.Background(), "paper", "p", false, "")
	require.NoError(t, err)
	require.Len(t, report.Methods, 3)

	assert.Equal(t, domain.StatusSuccess, report.Methods["Good"].Status)
	assert.Equal(t, domain.StatusFailed, report.Methods["Broken"].Status)
	assert.Contains(t, report.Methods["Broken"].Error, "assistant unavailable")
	assert.Equal(t, domain.StatusFailed, report.Methods["Panicky"].Status)
	assert.Contains(t, report.Methods["Panicky"].Error, "stub exploded")
}

func TestRunParallelMatchesSequential(t *testing.T) {
	build := func(dir string) *Comparison {
		c := New(dir)
		c.Now = fixedClock()
		c.Add(&stubRetriever{name: "A", set: completeSet(), reasoning: "ra"}, "")
		c.Add(&stubRetriever{name: "B", err: errors.New("nope")}, "")
		return c
	}

	seq, err := build(t.TempDir()).Run(context.Background(), "paper", "p", false, "")
	require.NoError(t, err)
	par, err := build(t.TempDir()).Run(context.Background(), "paper", "p", true, "")
	require.NoError(t, err)

	require.Equal(t, seq.MethodNames(), par.MethodNames())
	for _, name := range seq.MethodNames() {
		assert.Equal(t, seq.Methods[name].Status, par.Methods[name].Status, name)
		assert.Equal(t, seq.Methods[name].Parameters, par.Methods[name].Parameters, name)
	}
}

func TestRunIsIdempotentModuloTimestamps(t *testing.T) {
	run := func() string {
		dir := t.TempDir()
		c := New(dir)
		c.Now = fixedClock()
		c.Add(&stubRetriever{name: "MethodA", set: completeSet(), reasoning: "stable reasoning"}, "")
		_, err := c.Run(context.Background(), "same paper", "p", false, "same prompt")
		require.NoError(t, err)
		return filepath.Join(dir, "p_20240301_120000")
	}

	first, second := run(), run()
	// full_result.json carries wall-clock timing and is excluded.
	for _, name := range []string{"paper_content.txt", "custom_prompt.txt", "MethodA/output.txt", "MethodA/parameters.json", "MethodA/reasoning.txt", "MethodA/sim.genic", "MethodA/sim.gadget"} {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err, name)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err, name)
		assert.Equal(t, string(a), string(b), name)
	}
}

func TestAddUsesRetrieverNameByDefault(t *testing.T) {
	c := New(t.TempDir())
	c.Add(&stubRetriever{name: "SelfNamed"}, "")
	c.Add(&stubRetriever{name: "ignored"}, "Override")
	assert.Equal(t, "SelfNamed", c.retrievers[0].name)
	assert.Equal(t, "Override", c.retrievers[1].name)
}
