// Package compare runs several parameter-retrieval strategies over the same
// paper and persists each strategy's artifacts independently. One strategy
// failing, timing out or panicking never affects its siblings.
package compare

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/astrosim/simagent/internal/domain"
	"github.com/astrosim/simagent/internal/retriever"
)

// Comparison collects retrievers and runs them over one paper input.
type Comparison struct {
	OutputDir string

	// Now is injectable for deterministic artifact paths in tests.
	Now func() time.Time

	retrievers []namedRetriever
}

type namedRetriever struct {
	name string
	r    retriever.ParameterRetriever
}

func New(outputDir string) *Comparison {
	return &Comparison{OutputDir: outputDir, Now: time.Now}
}

// Add registers a retriever under an explicit name; an empty name falls back
// to the retriever's own.
func (c *Comparison) Add(r retriever.ParameterRetriever, name string) {
	if name == "" {
		name = r.Name()
	}
	c.retrievers = append(c.retrievers, namedRetriever{name: name, r: r})
}

// Run executes every registered retriever over paperContent, in parallel
// (one worker per retriever) or sequentially, and persists all artifacts
// under a per-run directory. The returned report keys results by method name
// so completion order is irrelevant.
func (c *Comparison) Run(ctx context.Context, paperContent, paperName string, parallel bool, customPrompt string) (domain.ComparisonReport, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	timestamp := now().Format("20060102_150405")
	runDir := filepath.Join(c.OutputDir, fmt.Sprintf("%s_%s", paperName, timestamp))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return domain.ComparisonReport{}, err
	}

	if err := os.WriteFile(filepath.Join(runDir, "paper_content.txt"), []byte(paperContent), 0o644); err != nil {
		return domain.ComparisonReport{}, err
	}
	if customPrompt != "" {
		if err := os.WriteFile(filepath.Join(runDir, "custom_prompt.txt"), []byte(customPrompt), 0o644); err != nil {
			return domain.ComparisonReport{}, err
		}
	}

	report := domain.ComparisonReport{
		ID:           uuid.New().String(),
		PaperName:    paperName,
		Timestamp:    timestamp,
		CustomPrompt: customPrompt,
		Methods:      make(map[string]domain.MethodResult, len(c.retrievers)),
	}

	results := make([]domain.MethodResult, len(c.retrievers))
	if parallel {
		// One worker per retriever; retrievers share no mutable state, so
		// the only synchronization needed is the group wait itself.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(len(c.retrievers))
		for i, nr := range c.retrievers {
			i, nr := i, nr
			g.Go(func() error {
				results[i] = c.runSingle(gctx, nr, paperContent, customPrompt)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return report, err
		}
	} else {
		for i, nr := range c.retrievers {
			results[i] = c.runSingle(ctx, nr, paperContent, customPrompt)
		}
	}

	for i, nr := range c.retrievers {
		report.Methods[nr.name] = results[i]
		if err := saveMethodResult(runDir, nr.name, results[i]); err != nil {
			slog.Error("failed to persist method result", "method", nr.name, "error", err)
		}
	}
	return report, nil
}

// runSingle executes one retriever and converts any failure, panic included,
// into a structured result.
func (c *Comparison) runSingle(ctx context.Context, nr namedRetriever, paperContent, customPrompt string) (result domain.MethodResult) {
	start := time.Now()
	defer func() {
		result.ExecutionTime = time.Since(start).Seconds()
		if r := recover(); r != nil {
			slog.Error("retriever panicked", "method", nr.name, "panic", r)
			result = domain.MethodResult{
				Status:        domain.StatusFailed,
				Error:         fmt.Sprintf("panic: %v", r),
				ExecutionTime: time.Since(start).Seconds(),
			}
		}
	}()

	set, reasoning, err := nr.r.RetrieveParameters(ctx, paperContent, customPrompt)
	if err != nil {
		slog.Warn("retriever failed", "method", nr.name, "error", err)
		return domain.MethodResult{Status: domain.StatusFailed, Error: err.Error()}
	}

	return domain.MethodResult{
		Status:          domain.StatusSuccess,
		Parameters:      set,
		Reasoning:       reasoning,
		FormattedOutput: retriever.FormatOutput(nr.name, set, reasoning),
	}
}
