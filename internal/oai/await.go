package oai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrRunTimeout reports that a run exceeded its wall-clock budget and was
// cancelled.
var ErrRunTimeout = errors.New("oai: assistant run timed out")

// Clock abstracts time for the polling loops so tests run without real
// delays.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// AwaitConfig sizes one await-completion loop: fixed start interval, gentle
// growth up to MaxInterval, hard wall-clock Budget.
type AwaitConfig struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Budget      time.Duration
}

func (cfg AwaitConfig) withDefaults() AwaitConfig {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.MaxInterval < cfg.Interval {
		cfg.MaxInterval = cfg.Interval
	}
	if cfg.Budget <= 0 {
		cfg.Budget = 5 * time.Minute
	}
	return cfg
}

// await polls fetch until done(status) or the budget expires. It returns the
// last observed status; budget expiry surfaces as context.DeadlineExceeded
// for the caller to translate.
func (c *Client) await(ctx context.Context, cfg AwaitConfig, fetch func(context.Context) (string, error), done func(string) bool) (string, error) {
	cfg = cfg.withDefaults()
	clock := c.Clock
	if clock == nil {
		clock = RealClock{}
	}

	deadline := clock.Now().Add(cfg.Budget)
	interval := cfg.Interval
	for {
		status, err := fetch(ctx)
		if err != nil {
			return "", err
		}
		if done(status) {
			return status, nil
		}
		if !clock.Now().Add(interval).Before(deadline) {
			return status, context.DeadlineExceeded
		}
		if err := clock.Sleep(ctx, interval); err != nil {
			return status, err
		}
		if interval < cfg.MaxInterval {
			interval += interval / 2
			if interval > cfg.MaxInterval {
				interval = cfg.MaxInterval
			}
		}
	}
}

// AwaitRun blocks until the run reaches a terminal status. On budget expiry
// the in-flight run is cancelled (best effort) and ErrRunTimeout is
// returned; a terminal status other than completed is an error too.
func (c *Client) AwaitRun(ctx context.Context, cfg AwaitConfig, threadID, runID string) (*Run, error) {
	status, err := c.await(ctx, cfg, func(ctx context.Context) (string, error) {
		run, err := c.GetRun(ctx, threadID, runID)
		if err != nil {
			return "", err
		}
		return run.Status, nil
	}, TerminalRunStatus)

	if errors.Is(err, context.DeadlineExceeded) {
		if cancelErr := c.CancelRun(ctx, threadID, runID); cancelErr != nil {
			slog.Warn("failed to cancel timed-out run", "thread", threadID, "run", runID, "error", cancelErr)
		}
		return nil, fmt.Errorf("%w after %s", ErrRunTimeout, cfg.withDefaults().Budget)
	}
	if err != nil {
		return nil, err
	}
	if status != RunCompleted {
		return nil, fmt.Errorf("oai: run %s finished with status %s", runID, status)
	}
	return &Run{ID: runID, Status: status}, nil
}
