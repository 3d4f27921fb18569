package model

// Status is the state string GitLab reports for a pipeline or a job.
type Status string

const (
	StatusCreated  Status = "created"
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
	StatusSkipped  Status = "skipped"
	StatusManual   Status = "manual"
)

// IsActiveJob reports whether a job with this status can block a push.
func (s Status) IsActiveJob() bool {
	return s == StatusRunning || s == StatusPending
}

// IsActivePipeline reports whether a pipeline with this status is still in flight.
func (s Status) IsActivePipeline() bool {
	return s == StatusRunning || s == StatusPending || s == StatusCreated
}

type Pipeline struct {
	ID        uint64 `json:"id"`
	Status    Status `json:"status"`
	Ref       string `json:"ref"`
	CreatedAt string `json:"created_at"`
	WebURL    string `json:"web_url"`
}

// Job is a single job of a pipeline. Timestamps are kept as received so that
// a malformed value degrades the time based checks instead of failing the fetch.
type Job struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Stage     string `json:"stage"`
	Status    Status `json:"status"`
	StartedAt string `json:"started_at"`
	CreatedAt string `json:"created_at"`
}

// Blocking pairs a pipeline with the reason it holds the push back.
type Blocking struct {
	Pipeline *Pipeline
	Reason   BlockingReason
}
