package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/domain"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/oauth2"
)

const jobsPerPage = 100

// GitLabService reads pipelines and jobs through the GitLab REST API v4.
type GitLabService struct {
	client  *gitlab.Client
	perPage int
}

// NewGitLabService creates a fetcher authenticated with the personal access
// token of settings. GitLab accepts personal access tokens as OAuth2 bearer
// tokens. Retries are disabled because the poll loop owns the retry policy.
func NewGitLabService(settings *model.Settings) (interfaces.PipelineFetcher, error) {
	perPage := settings.PerPage
	if perPage <= 0 {
		perPage = model.DefaultPerPage
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: settings.Token})
	tc := oauth2.NewClient(context.Background(), ts)

	client, err := gitlab.NewOAuthClient(settings.Token,
		gitlab.WithBaseURL(settings.GitLabURL),
		gitlab.WithHTTPClient(tc),
		gitlab.WithoutRetries(),
	)
	if err != nil {
		return nil, domain.ErrConfiguration.Wrap(err, goerr.V("gitlab_url", settings.GitLabURL))
	}

	return &GitLabService{
		client:  client,
		perPage: perPage,
	}, nil
}

func (s *GitLabService) ListPipelines(ctx context.Context, project model.Project, branch string) ([]*model.Pipeline, error) {
	opts := &gitlab.ListProjectPipelinesOptions{
		ListOptions: gitlab.ListOptions{
			PerPage: s.perPage,
		},
		Ref:     gitlab.Ptr(branch),
		OrderBy: gitlab.Ptr("updated_at"),
		Sort:    gitlab.Ptr("desc"),
	}

	infos, _, err := s.client.Pipelines.ListProjectPipelines(project.Path, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapFetchError(err, goerr.V("project", project.Path), goerr.V("branch", branch))
	}

	pipelines := make([]*model.Pipeline, 0, len(infos))
	for _, info := range infos {
		pipelines = append(pipelines, &model.Pipeline{
			ID:        uint64(info.ID),
			Status:    model.Status(info.Status),
			Ref:       info.Ref,
			CreatedAt: formatTime(info.CreatedAt),
			WebURL:    info.WebURL,
		})
	}

	ctxlog.From(ctx).Debug("fetched pipelines",
		slog.String("project", project.Path),
		slog.String("branch", branch),
		slog.Int("count", len(pipelines)),
	)

	return pipelines, nil
}

// ListJobs follows every page the API reports. A large pipeline is bounded by
// the fetch timeout of the caller's context, not by a page count.
func (s *GitLabService) ListJobs(ctx context.Context, project model.Project, pipelineID uint64) ([]*model.Job, error) {
	opts := &gitlab.ListJobsOptions{
		ListOptions: gitlab.ListOptions{
			PerPage: jobsPerPage,
			Page:    1,
		},
	}

	var jobs []*model.Job
	for {
		pageJobs, resp, err := s.client.Jobs.ListPipelineJobs(project.Path, int(pipelineID), opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, wrapFetchError(err,
				goerr.V("project", project.Path),
				goerr.V("pipeline", pipelineID),
				goerr.V("page", opts.Page),
			)
		}

		for _, job := range pageJobs {
			jobs = append(jobs, &model.Job{
				ID:        uint64(job.ID),
				Name:      job.Name,
				Stage:     job.Stage,
				Status:    model.Status(job.Status),
				StartedAt: formatTime(job.StartedAt),
				CreatedAt: formatTime(job.CreatedAt),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	ctxlog.From(ctx).Debug("fetched jobs",
		slog.String("project", project.Path),
		slog.Uint64("pipeline", pipelineID),
		slog.Int("count", len(jobs)),
	)

	return jobs, nil
}

// wrapFetchError classifies err as ErrFetch and keeps the HTTP status and
// body of an API error response.
func wrapFetchError(err error, options ...goerr.Option) error {
	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		options = append(options,
			goerr.V("status", errResp.Response.StatusCode),
			goerr.V("body", string(errResp.Body)),
		)
	}
	return domain.ErrFetch.Wrap(err, options...)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
