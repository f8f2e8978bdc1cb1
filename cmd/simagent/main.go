// simagent extracts MP-Gadget simulation parameters from cosmology papers
// with cooperating LLM agents, compares retrieval strategies, generates
// analysis plots and submits the resulting runs to SLURM.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/astrosim/simagent/internal/config"
)

var (
	configPath string
	outputDir  string
	verbose    bool

	settings config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "simagent",
	Short: "LLM-driven parameter extraction for MP-Gadget simulations",
	Long: `simagent reads a cosmology paper and drives a pair of LLM assistants to
extract the simulation parameters it describes, emitting MP-Gadget .genic
and .gadget configuration files. It can also compare retrieval strategies
side by side, plot power spectra and density fields from finished runs, and
submit configured runs to SLURM.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		// .env is a local convenience; absence is not an error.
		_ = godotenv.Load()

		var err error
		if configPath != "" {
			settings, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
		} else {
			settings = config.Default()
		}
		settings.ApplyEnv(nil)

		if outputDir != "" {
			settings.Paths.OutputBase = outputDir
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML settings file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "artifact output directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(extractCmd, compareCmd, vizCmd, densityCmd, submitCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
