package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrosim/simagent/internal/slurm"
)

var (
	submitJobName string
	submitDryRun  bool
)

var submitCmd = &cobra.Command{
	Use:   "submit <sim.genic> <sim.gadget>",
	Short: "Submit an MP-Gadget run to SLURM",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("submit: %w", err)
			}
		}

		sub := slurm.NewSubmitter(settings.Slurm)
		dir := settings.Paths.OutputBase
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		if submitDryRun {
			path, err := sub.WriteScript(dir, submitJobName, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		}

		jobID, err := sub.Submit(cmd.Context(), dir, submitJobName, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Submitted batch job %s\n", jobID)
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitJobName, "job-name", "mpgadget", "SLURM job name")
	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "write the sbatch script without submitting")
}
