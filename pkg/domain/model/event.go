package model

// HookEvent represents a point of the push lifecycle hooks can attach to
type HookEvent string

const (
	HookBlocked    HookEvent = "blocked"
	HookCleared    HookEvent = "cleared"
	HookPushed     HookEvent = "pushed"
	HookPushFailed HookEvent = "push_failed"
)

// PushEvent contains information about a push lifecycle event
type PushEvent struct {
	Type       HookEvent
	Project    string
	Branch     string
	PipelineID uint64
	Reason     string
	URL        string
}
