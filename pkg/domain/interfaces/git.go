package interfaces

import "context"

type GitService interface {
	CurrentBranch(ctx context.Context) (string, error)
	RemoteURL(ctx context.Context, remote string) (string, error)
	Push(ctx context.Context, args []string) error
}
