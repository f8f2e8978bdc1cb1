package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Default()
	assert.Equal(t, "gpt-4o", s.LLM.Model)
	assert.Equal(t, 2, s.Agents.MaxIterations)
	assert.Equal(t, 5*time.Minute, s.Agents.RunTimeout.Std())
	assert.Equal(t, "RM", s.Slurm.Partition)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
llm:
  model: gpt-4o-mini
agents:
  max_iterations: 4
  run_timeout: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", s.LLM.Model)
	assert.Equal(t, 4, s.Agents.MaxIterations)
	assert.Equal(t, 90*time.Second, s.Agents.RunTimeout.Std())
	// Untouched sections keep defaults.
	assert.Equal(t, "16:00:00", s.Slurm.Time)
}

func TestApplyEnvFillsOnlyMissing(t *testing.T) {
	s := Default()
	s.ApplyEnv(func(key string) string {
		if key == "OPENAI_API_KEY" {
			return "sk-env"
		}
		return ""
	})
	assert.Equal(t, "sk-env", s.LLM.APIKey)

	s.LLM.APIKey = "sk-explicit"
	s.ApplyEnv(func(string) string { return "sk-env" })
	assert.Equal(t, "sk-explicit", s.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	s := Default()
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	s.LLM.APIKey = "sk-test"
	assert.NoError(t, s.Validate())
}
