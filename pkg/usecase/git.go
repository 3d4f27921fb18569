package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/domain"
	"github.com/m-mizutani/safepush/pkg/domain/interfaces"
)

type GitService struct {
	repoPath string
}

// NewGitService runs git in repoPath. An empty path means the working directory.
func NewGitService(repoPath string) interfaces.GitService {
	return &GitService{
		repoPath: repoPath,
	}
}

func (s *GitService) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := s.output(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", domain.ErrRepository.Wrap(err)
	}
	if branch == "HEAD" {
		return "", domain.ErrRepository.Wrap(goerr.New("HEAD is detached, no branch to check"))
	}
	return branch, nil
}

func (s *GitService) RemoteURL(ctx context.Context, remote string) (string, error) {
	remoteURL, err := s.output(ctx, "config", "--get", "remote."+remote+".url")
	if err != nil {
		return "", domain.ErrRepository.Wrap(err, goerr.V("remote", remote))
	}
	return remoteURL, nil
}

// Push runs `git push` with args, attached to the terminal so that prompts
// and progress reach the user.
func (s *GitService) Push(ctx context.Context, args []string) error {
	cmdArgs := append([]string{"push"}, args...)
	cmd := exec.CommandContext(ctx, "git", cmdArgs...) // #nosec G204 - args are the user's own git push arguments
	cmd.Dir = s.repoPath
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	ctxlog.From(ctx).Debug("running git", slog.Any("args", cmdArgs))

	if err := cmd.Run(); err != nil {
		return domain.ErrCommand.Wrap(err, goerr.V("args", cmdArgs))
	}
	return nil
}

func (s *GitService) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.repoPath

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", goerr.Wrap(err, "git command failed",
			goerr.V("args", args),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
		)
	}
	return strings.TrimSpace(string(out)), nil
}
