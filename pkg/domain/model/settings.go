package model

import (
	"slices"
	"strings"
	"time"
)

type Mode string

const (
	ModeSimple   Mode = "simple"
	ModeAdvanced Mode = "advanced"
)

const (
	DefaultCheckInterval     = 30 * time.Second
	DefaultPreBlockDuration  = 15 * time.Second
	DefaultPostBlockDuration = 5 * time.Second
	DefaultFetchTimeout      = 30 * time.Second
	DefaultPerPage           = 5
)

// Settings is the resolved configuration of one invocation. It is built once
// before any GitLab access and never modified afterwards.
type Settings struct {
	GitLabURL string
	Token     string

	Mode              Mode
	BlockingStage     string
	BlockingJobs      []string
	PreBlockDuration  time.Duration
	PostBlockDuration time.Duration
	CheckInterval     time.Duration

	FetchTimeout time.Duration
	PerPage      int
	Hooks        HooksConfig
}

func (s *Settings) IsSimple() bool {
	return s.Mode == ModeSimple
}

func (s *Settings) IsBlockingJob(name string) bool {
	return slices.Contains(s.BlockingJobs, name)
}

// Overrides holds values given explicitly on the command line. A nil field
// means the flag was not supplied, regardless of its default value.
type Overrides struct {
	Token             *string
	GitLabURL         *string
	BlockingStage     *string
	BlockingJobs      *string
	PreBlockDuration  *time.Duration
	PostBlockDuration *time.Duration
	CheckInterval     *time.Duration
	FetchTimeout      *time.Duration
	SimpleMode        *bool
}

// ParseJobList splits a comma separated job list, dropping blank entries.
func ParseJobList(s string) []string {
	var jobs []string
	for _, job := range strings.Split(s, ",") {
		if job = strings.TrimSpace(job); job != "" {
			jobs = append(jobs, job)
		}
	}
	return jobs
}
