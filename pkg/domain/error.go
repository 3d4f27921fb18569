package domain

import "github.com/m-mizutani/goerr/v2"

// Sentinels carry an ID so that errors.Is matches the copies made by Wrap.
var (
	ErrConfiguration = goerr.New("configuration error", goerr.ID("ErrConfiguration"))
	ErrFetch         = goerr.New("GitLab API request failed", goerr.ID("ErrFetch"))
	ErrRepository    = goerr.New("repository error", goerr.ID("ErrRepository"))
	ErrCommand       = goerr.New("git command failed", goerr.ID("ErrCommand"))
)
