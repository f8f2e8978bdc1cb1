package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/astrosim/simagent/internal/oai"
	"github.com/astrosim/simagent/internal/paper"
	"github.com/astrosim/simagent/internal/retriever"
	"github.com/astrosim/simagent/internal/simconfig"
)

var (
	extractPrompt   string
	extractDocs     string
	extractValidate bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <paper.txt>",
	Short: "Extract MP-Gadget parameters from a paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("%w\nHint: export OPENAI_API_KEY or add llm.api_key to your config file", err)
		}

		content, err := paper.Load(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		r, err := newPhysicsRetriever(ctx, args[0], extractValidate)
		if err != nil {
			return err
		}
		defer r.Close(context.WithoutCancel(ctx))

		set, reasoning, err := r.RetrieveParameters(ctx, content, extractPrompt)
		if err != nil {
			return err
		}

		fmt.Println(retriever.FormatOutput(r.Name(), set, reasoning))

		if missing := retriever.ValidateParameters(set); len(missing) > 0 {
			fmt.Fprintf(os.Stderr, "Incomplete extraction; missing: %v\n", missing)
			return nil
		}

		dir := settings.Paths.OutputBase
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		opts := simconfig.Options{
			OutputDir:        dir,
			TransferFunction: settings.Paths.TransferFunction,
		}
		if err := simconfig.WriteGenic(filepath.Join(dir, "sim.genic"), set.Genic, opts); err != nil {
			return err
		}
		if err := simconfig.WriteGadget(filepath.Join(dir, "sim.gadget"), set.Gadget, opts); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", filepath.Join(dir, "sim.genic"), filepath.Join(dir, "sim.gadget"))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractPrompt, "prompt", "p", "", "extra instruction appended to the physics query")
	extractCmd.Flags().StringVar(&extractDocs, "docs", "", "MP-Gadget documentation file or directory for the reference index")
	extractCmd.Flags().BoolVar(&extractValidate, "validate", false, "re-check required fields before accepting a complete reply")
}

// newPhysicsRetriever builds the dual-assistant retriever from the resolved
// settings. paperPath lets the original document be uploaded verbatim.
func newPhysicsRetriever(ctx context.Context, paperPath string, validate bool) (*retriever.PhysicsPaperRetriever, error) {
	client := oai.NewClient(settings.LLM.APIKey)
	if settings.LLM.BaseURL != "" {
		client.BaseURL = settings.LLM.BaseURL
	}

	docs := extractDocs
	if docs == "" {
		docs = settings.Paths.DocsPath
	}

	return retriever.NewPhysicsPaperRetriever(ctx, client, retriever.PhysicsConfig{
		PhysicsAssistantID:  settings.Agents.PhysicsAssistantID,
		FormatterID:         settings.Agents.FormatterID,
		DocsPath:            docs,
		PaperPath:           paperPath,
		PhysicsPromptPath:   settings.Agents.PhysicsPromptPath,
		FormatterPromptPath: settings.Agents.FormatterPromptPath,
		Model:               settings.LLM.Model,
		Temperature:         settings.LLM.Temperature,
		TopP:                settings.LLM.TopP,
		MaxIterations:       settings.Agents.MaxIterations,
		ValidateOnComplete:  validate,
		Poll: oai.AwaitConfig{
			Interval:    settings.Agents.PollInterval.Std(),
			MaxInterval: settings.Agents.MaxPollInterval.Std(),
			Budget:      settings.Agents.RunTimeout.Std(),
		},
	})
}
