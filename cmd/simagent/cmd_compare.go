package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astrosim/simagent/internal/compare"
	"github.com/astrosim/simagent/internal/paper"
)

var (
	comparePrompt   string
	compareParallel bool
	compareGated    bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <paper.txt>",
	Short: "Run parameter retrieval strategies side by side",
	Long: `compare runs every registered retrieval strategy over the same paper and
persists each strategy's parameters, reasoning and generated configuration
files under a per-run directory, so strategies can be judged against each
other on identical input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("%w\nHint: export OPENAI_API_KEY or add llm.api_key to your config file", err)
		}

		content, err := paper.Load(args[0])
		if err != nil {
			return err
		}
		paperName := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))

		ctx := cmd.Context()
		c := compare.New(settings.Paths.OutputBase)

		base, err := newPhysicsRetriever(ctx, args[0], false)
		if err != nil {
			return err
		}
		defer base.Close(context.WithoutCancel(ctx))
		c.Add(base, "")

		if compareGated {
			gated, err := newPhysicsRetriever(ctx, args[0], true)
			if err != nil {
				return err
			}
			defer gated.Close(context.WithoutCancel(ctx))
			c.Add(gated, "PhysicsPaperRetriever_gated")
		}

		report, err := c.Run(ctx, content, paperName, compareParallel, comparePrompt)
		if err != nil {
			return err
		}

		summary, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(summary))
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVarP(&comparePrompt, "prompt", "p", "", "extra instruction appended to every retriever's query")
	compareCmd.Flags().BoolVar(&compareParallel, "parallel", true, "run retrievers concurrently")
	compareCmd.Flags().BoolVar(&compareGated, "gated", false, "also run a variant that re-validates self-reported complete replies")
}
