package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrosim/simagent/internal/agent"
	"github.com/astrosim/simagent/internal/oai"
)

var (
	vizRedshift float64
	vizSpectrum string
	vizOut      string
	vizWorkDir  string

	densityLR         string
	densitySR         string
	densityOut        string
	densitySideBySide bool
)

var vizCmd = &cobra.Command{
	Use:   "viz <sim-output-dir>",
	Short: "Generate a power-spectrum plot from simulation output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("%w\nHint: export OPENAI_API_KEY or add llm.api_key to your config file", err)
		}

		redshift := vizRedshift
		if vizSpectrum != "" {
			z, err := agent.RedshiftFromFilename(vizSpectrum)
			if err != nil {
				return err
			}
			redshift = z
		}

		viz := agent.NewVisualizationAgent(newChatClient(), settings.LLM.Model, settings.LLM.Temperature)
		executor := agent.NewLocalExecutor(workDirOr(args[0]), settings.Agents.ExecutorTimeout.Std())

		result, err := viz.GeneratePlot(cmd.Context(), executor, args[0], redshift, vizOut)
		if err != nil {
			return err
		}
		fmt.Println(result.Output)
		fmt.Fprintf(cmd.OutOrStdout(), "Plot written to %s\n", vizOut)
		return nil
	},
}

var densityCmd = &cobra.Command{
	Use:   "density",
	Short: "Generate a 3-D density field rendering from snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("%w\nHint: export OPENAI_API_KEY or add llm.api_key to your config file", err)
		}
		if densityLR == "" {
			return fmt.Errorf("density: --lr snapshot path is required")
		}

		poll := oai.AwaitConfig{
			Interval:    settings.Agents.PollInterval.Std(),
			MaxInterval: settings.Agents.MaxPollInterval.Std(),
			Budget:      settings.Agents.RunTimeout.Std(),
		}
		den := agent.NewDensityFieldAgent(newChatClient(), settings.LLM.Model, settings.LLM.Temperature,
			settings.Agents.DensityStoreID, poll)
		executor := agent.NewLocalExecutor(workDirOr("."), settings.Agents.ExecutorTimeout.Std())

		result, err := den.GenerateDensityField(cmd.Context(), executor, densityLR, densitySR, densityOut, densitySideBySide)
		if err != nil {
			return err
		}
		fmt.Println(result.Output)
		return nil
	},
}

func init() {
	vizCmd.Flags().Float64VarP(&vizRedshift, "redshift", "z", 0, "redshift label for the plot")
	vizCmd.Flags().StringVar(&vizSpectrum, "spectrum", "", "powerspectrum-<a>.txt filename to infer the redshift from")
	vizCmd.Flags().StringVar(&vizOut, "out", "power_spectrum.png", "output image filename")
	vizCmd.Flags().StringVar(&vizWorkDir, "workdir", "", "directory the generated script runs in")

	densityCmd.Flags().StringVar(&densityLR, "lr", "", "low-resolution snapshot path")
	densityCmd.Flags().StringVar(&densitySR, "sr", "", "super-resolution snapshot path")
	densityCmd.Flags().StringVar(&densityOut, "out", "density_field.png", "output image filename")
	densityCmd.Flags().BoolVar(&densitySideBySide, "side-by-side", false, "render both snapshots in one figure")
	densityCmd.Flags().StringVar(&vizWorkDir, "workdir", "", "directory the generated script runs in")
}

func newChatClient() *oai.Client {
	client := oai.NewClient(settings.LLM.APIKey)
	if settings.LLM.BaseURL != "" {
		client.BaseURL = settings.LLM.BaseURL
	}
	return client
}

func workDirOr(fallback string) string {
	if vizWorkDir != "" {
		return vizWorkDir
	}
	return fallback
}
