package usecase

import (
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/safepush/pkg/domain"
	"github.com/m-mizutani/safepush/pkg/domain/model"
)

// parseProjectPath extracts the namespaced project path from a git remote URL.
// Nested groups are kept: git@host:group/sub/app.git -> group/sub/app.
func parseProjectPath(remoteURL string) (string, bool) {
	remoteURL = strings.TrimSpace(remoteURL)

	// scp-like syntax: [user@]host:path
	if !strings.Contains(remoteURL, "://") {
		_, path, ok := strings.Cut(remoteURL, ":")
		if !ok {
			return "", false
		}
		return cleanProjectPath(path)
	}

	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", false
	}
	return cleanProjectPath(u.Path)
}

func cleanProjectPath(path string) (string, bool) {
	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if path == "" || !strings.Contains(path, "/") {
		return "", false
	}
	return path, true
}

// ProjectFromRemote parses remoteURL into a GitLab project.
func ProjectFromRemote(remoteURL string) (model.Project, error) {
	path, ok := parseProjectPath(remoteURL)
	if !ok {
		return model.Project{}, domain.ErrRepository.Wrap(
			goerr.New("unable to parse GitLab project from git remote"),
			goerr.V("remote_url", remoteURL),
		)
	}
	return model.Project{Path: path}, nil
}
