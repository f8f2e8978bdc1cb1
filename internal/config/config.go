// Package config is the settings surface for the agent toolkit. Components
// never read the environment themselves; the entry point resolves env vars
// into a Settings value and everything downstream receives explicit fields.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings groups every tunable. All fields are overridable, none computed.
type Settings struct {
	LLM    LLMSettings   `yaml:"llm"`
	Slurm  SlurmSettings `yaml:"slurm"`
	Paths  PathSettings  `yaml:"paths"`
	Agents AgentSettings `yaml:"agents"`
}

// LLMSettings identifies the remote model service and credentials.
type LLMSettings struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
}

// SlurmSettings are the job submission defaults for MP-Gadget runs.
type SlurmSettings struct {
	Partition    string `yaml:"partition"`
	Email        string `yaml:"email"`
	Nodes        int    `yaml:"nodes"`
	NTasks       int    `yaml:"ntasks"`
	CPUsPerTask  int    `yaml:"cpus_per_task"`
	Time         string `yaml:"time"`
	MemPerCPU    string `yaml:"mem_per_cpu"`
	MPGadgetRoot string `yaml:"mp_gadget_root"`
}

// PathSettings are filesystem conventions for inputs and artifacts.
type PathSettings struct {
	OutputBase       string `yaml:"output_base"`
	DocsPath         string `yaml:"docs_path"`
	TransferFunction string `yaml:"transfer_function"`
}

// Duration decodes "90s"-style YAML strings into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// AgentSettings tune the extraction and visualization agents.
type AgentSettings struct {
	MaxIterations       int      `yaml:"max_iterations"`
	PollInterval        Duration `yaml:"poll_interval"`
	MaxPollInterval     Duration `yaml:"max_poll_interval"`
	RunTimeout          Duration `yaml:"run_timeout"`
	ExecutorTimeout     Duration `yaml:"executor_timeout"`
	HumanInputMode      string   `yaml:"human_input_mode"`
	PhysicsAssistantID  string   `yaml:"physics_assistant_id"`
	FormatterID         string   `yaml:"formatter_id"`
	DensityStoreID      string   `yaml:"density_store_id"`
	PhysicsPromptPath   string   `yaml:"physics_prompt_path"`
	FormatterPromptPath string   `yaml:"formatter_prompt_path"`
}

// Default returns the documented baseline configuration.
func Default() Settings {
	return Settings{
		LLM: LLMSettings{
			Model:       "gpt-4o",
			Temperature: 0.01,
			TopP:        0.9,
		},
		Slurm: SlurmSettings{
			Partition:   "RM",
			Nodes:       1,
			NTasks:      2,
			CPUsPerTask: 14,
			Time:        "16:00:00",
			MemPerCPU:   "8G",
		},
		Paths: PathSettings{
			OutputBase: "output",
		},
		Agents: AgentSettings{
			MaxIterations:   2,
			PollInterval:    Duration(2 * time.Second),
			MaxPollInterval: Duration(10 * time.Second),
			RunTimeout:      Duration(5 * time.Minute),
			ExecutorTimeout: Duration(2 * time.Minute),
			HumanInputMode:  "NEVER",
		},
	}
}

// Load reads a YAML settings file over the defaults.
func Load(path string) (Settings, error) {
	settings := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return settings, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return settings, nil
}

// ApplyEnv fills credential fields from the process environment. Only the
// entry point calls this; library code receives settings fully resolved.
func (s *Settings) ApplyEnv(lookup func(string) string) {
	if lookup == nil {
		lookup = os.Getenv
	}
	if key := lookup("OPENAI_API_KEY"); key != "" && s.LLM.APIKey == "" {
		s.LLM.APIKey = key
	}
	if base := lookup("OPENAI_BASE_URL"); base != "" && s.LLM.BaseURL == "" {
		s.LLM.BaseURL = base
	}
}

// Validate reports missing preconditions early, before any remote call.
func (s Settings) Validate() error {
	if s.LLM.APIKey == "" {
		return fmt.Errorf("config: missing OpenAI API key (set OPENAI_API_KEY or llm.api_key)")
	}
	if s.LLM.Model == "" {
		return fmt.Errorf("config: missing model name")
	}
	return nil
}
