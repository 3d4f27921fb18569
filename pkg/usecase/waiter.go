package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

// Waiter re-runs the scanner on a fixed interval until nothing blocks.
type Waiter struct {
	scanner  *Scanner
	display  interfaces.Display
	interval time.Duration
}

type WaiterOptions struct {
	Scanner  *Scanner
	Display  interfaces.Display
	Interval time.Duration
}

func NewWaiter(opts WaiterOptions) *Waiter {
	return &Waiter{
		scanner:  opts.Scanner,
		display:  opts.Display,
		interval: opts.Interval,
	}
}

// Wait blocks until a scan finds no blocking pipeline. There is no iteration
// limit and no backoff. A scan error ends the wait immediately and is not
// retried; cancelling ctx stops the loop between scans.
func (w *Waiter) Wait(ctx context.Context, project model.Project, branch string) error {
	err := w.wait(ctx, project, branch)
	if err != nil && w.display != nil {
		w.display.ShowWaitAborted(err)
	}
	return err
}

func (w *Waiter) wait(ctx context.Context, project model.Project, branch string) error {
	logger := ctxlog.From(ctx)

	logger.Debug("waiting for blocking pipelines",
		slog.String("project", project.Path),
		slog.String("branch", branch),
		slog.Duration("interval", w.interval),
	)

	for iteration := 1; ; iteration++ {
		blocking, err := w.scanner.Scan(ctx, project, branch)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return goerr.Wrap(err, "pipeline check failed while waiting",
				goerr.V("iteration", iteration),
				goerr.V("branch", branch),
			)
		}

		if len(blocking) == 0 {
			logger.Info("blocking conditions cleared", slog.Int("iterations", iteration))
			if w.display != nil {
				w.display.ShowCleared()
			}
			return nil
		}

		if w.display != nil {
			w.display.ShowWaiting(blocking[0], w.interval)
		}

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
