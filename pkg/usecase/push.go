package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/domain"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

const defaultRemote = "origin"

// PushUseCase checks the pipelines of the current branch and runs git push
// once nothing blocks it.
type PushUseCase struct {
	git      interfaces.GitService
	scanner  *Scanner
	display  interfaces.Display
	hooks    interfaces.HookExecutor
	settings *model.Settings
	remote   string
}

type PushUseCaseOptions struct {
	Git      interfaces.GitService
	GitLab   interfaces.PipelineFetcher
	Display  interfaces.Display
	Hooks    interfaces.HookExecutor
	Settings *model.Settings
	// Remote defaults to "origin".
	Remote    string
	Evaluator []EvaluatorOption
}

type PushOptions struct {
	// Args are passed to git push as is.
	Args []string
	// Wait polls until blocking pipelines clear instead of cancelling the push.
	Wait bool
}

func NewPushUseCase(opts PushUseCaseOptions) *PushUseCase {
	remote := opts.Remote
	if remote == "" {
		remote = defaultRemote
	}
	return &PushUseCase{
		git:      opts.Git,
		scanner:  NewScanner(opts.GitLab, opts.Settings, opts.Evaluator...),
		display:  opts.Display,
		hooks:    opts.Hooks,
		settings: opts.Settings,
		remote:   remote,
	}
}

// Execute returns true when git push ran and succeeded. false with a nil
// error means the push was cancelled or git push itself failed.
func (u *PushUseCase) Execute(ctx context.Context, opts PushOptions) (bool, error) {
	logger := ctxlog.From(ctx)
	if u.hooks != nil {
		defer u.hooks.WaitForCompletion()
	}

	branch, err := u.git.CurrentBranch(ctx)
	if err != nil {
		return false, err
	}
	remoteURL, err := u.git.RemoteURL(ctx, u.remote)
	if err != nil {
		return false, err
	}
	project, err := ProjectFromRemote(remoteURL)
	if err != nil {
		return false, err
	}

	if u.display != nil {
		u.display.ShowTarget(project, branch)
		u.display.ShowSettings(u.settings)
	}

	blocking, err := u.scanner.Scan(ctx, project, branch)
	switch {
	case err != nil:
		// The initial check fails open: an unreachable GitLab must not stop a push.
		logger.Warn("initial pipeline check failed, pushing anyway",
			slog.String("project", project.Path),
			slog.String("branch", branch),
			slog.String("error", err.Error()),
		)
		if u.display != nil {
			u.display.ShowCheckFailed(err)
		}

	case len(blocking) == 0:
		if u.display != nil {
			u.display.ShowAuthorized()
		}

	case !opts.Wait:
		u.fire(ctx, model.HookBlocked, project, branch, blocking[0])
		if u.display != nil {
			u.display.ShowCancelled(blocking)
		}
		return false, nil

	default:
		u.fire(ctx, model.HookBlocked, project, branch, blocking[0])
		if u.display != nil {
			u.display.ShowWaitStarted()
		}

		waiter := NewWaiter(WaiterOptions{
			Scanner:  u.scanner,
			Display:  u.display,
			Interval: u.settings.CheckInterval,
		})
		if err := waiter.Wait(ctx, project, branch); err != nil {
			return false, goerr.Wrap(err, "push aborted", goerr.V("project", project.Path), goerr.V("branch", branch))
		}
		u.fire(ctx, model.HookCleared, project, branch, nil)
	}

	return u.push(ctx, project, branch, opts.Args), nil
}

func (u *PushUseCase) push(ctx context.Context, project model.Project, branch string, args []string) bool {
	if u.display != nil {
		u.display.ShowPushing(args)
	}

	err := u.git.Push(ctx, args)
	if u.display != nil {
		u.display.ShowPushResult(err == nil)
	}

	if err != nil {
		ctxlog.From(ctx).Warn("git push failed",
			slog.String("error", err.Error()),
			slog.Bool("command_error", errors.Is(err, domain.ErrCommand)),
		)
		u.fire(ctx, model.HookPushFailed, project, branch, nil)
		return false
	}

	u.fire(ctx, model.HookPushed, project, branch, nil)
	return true
}

func (u *PushUseCase) fire(ctx context.Context, eventType model.HookEvent, project model.Project, branch string, blocking *model.Blocking) {
	if u.hooks == nil {
		return
	}

	event := model.PushEvent{
		Type:    eventType,
		Project: project.Path,
		Branch:  branch,
	}
	if blocking != nil {
		event.PipelineID = blocking.Pipeline.ID
		event.URL = blocking.Pipeline.WebURL
		event.Reason = blocking.Reason.String()
	}

	if err := u.hooks.Execute(ctx, event); err != nil {
		ctxlog.From(ctx).Warn("failed to run hooks",
			slog.String("event", string(eventType)),
			slog.String("error", err.Error()),
		)
	}
}
