package interfaces

import (
	"context"

	"github.com/m-mizutani/safepush/pkg/domain/model"
)

// PipelineFetcher reads pipelines and jobs of a GitLab project.
type PipelineFetcher interface {
	// ListPipelines returns the most recently updated pipelines of branch, newest first.
	ListPipelines(ctx context.Context, project model.Project, branch string) ([]*model.Pipeline, error)
	// ListJobs returns the jobs of one pipeline in the order the API reports them.
	ListJobs(ctx context.Context, project model.Project, pipelineID uint64) ([]*model.Job, error)
}
