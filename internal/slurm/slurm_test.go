package slurm

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrosim/simagent/internal/config"
)

func testSettings() config.SlurmSettings {
	s := config.Default().Slurm
	s.MPGadgetRoot = "/opt/MP-Gadget"
	return s
}

func TestWriteScriptRendersDirectives(t *testing.T) {
	sub := NewSubmitter(testSettings())
	path, err := sub.WriteScript(t.TempDir(), "lcdm_box", "sim.genic", "sim.gadget")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	script := string(raw)

	assert.Contains(t, script, "#SBATCH --partition=RM")
	assert.Contains(t, script, "#SBATCH --time=16:00:00")
	assert.Contains(t, script, "#SBATCH --job-name=lcdm_box")
	assert.Contains(t, script, "/opt/MP-Gadget/genic/MP-GenIC sim.genic")
	assert.Contains(t, script, "/opt/MP-Gadget/gadget/MP-Gadget sim.gadget")
	assert.NotContains(t, script, "--mail-user")
}

func TestWriteScriptIncludesEmailWhenSet(t *testing.T) {
	settings := testSettings()
	settings.Email = "astro@example.edu"
	sub := NewSubmitter(settings)

	path, err := sub.WriteScript(t.TempDir(), "job", "a.genic", "a.gadget")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "#SBATCH --mail-user=astro@example.edu")
}

func TestWriteScriptRequiresGadgetRoot(t *testing.T) {
	settings := testSettings()
	settings.MPGadgetRoot = ""
	sub := NewSubmitter(settings)

	_, err := sub.WriteScript(t.TempDir(), "job", "a.genic", "a.gadget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mp_gadget_root")
}

func TestSubmitReturnsJobID(t *testing.T) {
	sub := NewSubmitter(testSettings())
	var submitted string
	sub.run = func(ctx context.Context, scriptPath string) (string, error) {
		submitted = scriptPath
		return "98765", nil
	}

	id, err := sub.Submit(context.Background(), t.TempDir(), "job", "a.genic", "a.gadget")
	require.NoError(t, err)
	assert.Equal(t, "98765", id)
	assert.FileExists(t, submitted)
}

func TestParseJobID(t *testing.T) {
	id, err := parseJobID("Submitted batch job 12345\n")
	require.NoError(t, err)
	assert.Equal(t, "12345", id)

	_, err = parseJobID("sbatch: error: invalid partition")
	require.Error(t, err)

	_, err = parseJobID("")
	require.Error(t, err)
}
