package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

// Scanner finds the active pipelines of a branch that currently block a push.
type Scanner struct {
	gitlab    interfaces.PipelineFetcher
	evaluator *Evaluator
	settings  *model.Settings
}

func NewScanner(gitlab interfaces.PipelineFetcher, settings *model.Settings, opts ...EvaluatorOption) *Scanner {
	return &Scanner{
		gitlab:    gitlab,
		evaluator: NewEvaluator(settings, opts...),
		settings:  settings,
	}
}

// Scan evaluates every active pipeline of branch in the order GitLab returns
// them and collects those that block. An empty result authorizes the push.
// Pipelines are evaluated one after another; the first fetch error aborts.
func (s *Scanner) Scan(ctx context.Context, project model.Project, branch string) ([]*model.Blocking, error) {
	logger := ctxlog.From(ctx)

	pipelines, err := s.listPipelines(ctx, project, branch)
	if err != nil {
		return nil, err
	}

	var blocking []*model.Blocking
	for _, pipeline := range pipelines {
		if !pipeline.Status.IsActivePipeline() {
			continue
		}

		reason, err := s.evaluate(ctx, project, pipeline)
		if err != nil {
			return nil, err
		}
		if reason == nil {
			logger.Debug("pipeline does not block",
				slog.Uint64("pipeline", pipeline.ID),
				slog.String("status", string(pipeline.Status)),
			)
			continue
		}

		logger.Debug("pipeline blocks push",
			slog.Uint64("pipeline", pipeline.ID),
			slog.String("reason", reason.String()),
		)
		blocking = append(blocking, &model.Blocking{
			Pipeline: pipeline,
			Reason:   reason,
		})
	}

	return blocking, nil
}

func (s *Scanner) evaluate(ctx context.Context, project model.Project, pipeline *model.Pipeline) (model.BlockingReason, error) {
	// Simple mode never looks at jobs, so skip the request entirely.
	if s.settings.IsSimple() {
		return s.evaluator.Evaluate(pipeline, nil, nil), nil
	}

	jobs, err := s.listJobs(ctx, project, pipeline.ID)
	if err != nil {
		return nil, err
	}

	return s.evaluator.Evaluate(pipeline, jobs, model.DeriveStageOrder(jobs)), nil
}

func (s *Scanner) listPipelines(ctx context.Context, project model.Project, branch string) ([]*model.Pipeline, error) {
	ctx, cancel := s.fetchContext(ctx)
	defer cancel()
	return s.gitlab.ListPipelines(ctx, project, branch)
}

func (s *Scanner) listJobs(ctx context.Context, project model.Project, pipelineID uint64) ([]*model.Job, error) {
	ctx, cancel := s.fetchContext(ctx)
	defer cancel()
	return s.gitlab.ListJobs(ctx, project, pipelineID)
}

// fetchContext bounds a single request independently of the poll interval.
func (s *Scanner) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.settings.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.settings.FetchTimeout)
}
