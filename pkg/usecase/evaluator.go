package usecase

import (
	"time"

	"github.com/m-mizutani/safepush/pkg/domain/model"
)

// Evaluator decides whether a single pipeline blocks a push.
type Evaluator struct {
	settings *model.Settings
	now      func() time.Time
}

type EvaluatorOption func(*Evaluator)

// WithClock replaces the wall clock used for elapsed time computation.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

func NewEvaluator(settings *model.Settings, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the first matching reason for the pipeline to block, or nil.
// Checks run in a fixed order: simple mode, named jobs, then the blocking
// stage and its direct neighbours.
func (e *Evaluator) Evaluate(pipeline *model.Pipeline, jobs []*model.Job, stages model.StageOrder) model.BlockingReason {
	if e.settings.IsSimple() {
		return model.SimpleMode{}
	}

	for _, job := range jobs {
		if job.Status.IsActiveJob() && e.settings.IsBlockingJob(job.Name) {
			return model.BlockingJobRunning{Job: job.Name}
		}
	}

	if e.settings.BlockingStage == "" {
		return nil
	}
	blockingIdx, ok := stages.Index(e.settings.BlockingStage)
	if !ok {
		return nil
	}

	for _, job := range jobs {
		if !job.Status.IsActiveJob() {
			continue
		}

		if job.Stage == e.settings.BlockingStage {
			return model.BlockingStageRunning{Stage: job.Stage}
		}

		idx, ok := stages.Index(job.Stage)
		if !ok {
			continue
		}

		switch idx {
		case blockingIdx - 1:
			if elapsed, ok := e.elapsed(job); ok && elapsed >= seconds(e.settings.PreBlockDuration) {
				return model.PreBlockingStage{Stage: job.Stage, Seconds: elapsed}
			}
		case blockingIdx + 1:
			if elapsed, ok := e.elapsed(job); ok && elapsed < seconds(e.settings.PostBlockDuration) {
				return model.BlockingStageRunning{Stage: model.PostBlockStage(job.Stage)}
			}
		}
	}

	return nil
}

// elapsed returns whole seconds the job has been active. The start time is
// preferred, the creation time is the fallback. false means neither parses.
func (e *Evaluator) elapsed(job *model.Job) (int64, bool) {
	now := e.now()

	if start, ok := parseTimestamp(job.StartedAt); ok {
		return elapsedSeconds(now, start), true
	}
	if created, ok := parseTimestamp(job.CreatedAt); ok {
		return elapsedSeconds(now, created), true
	}
	return 0, false
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// elapsedSeconds clamps to zero when the timestamp lies in the future (clock skew).
func elapsedSeconds(now, since time.Time) int64 {
	d := now.Sub(since)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
