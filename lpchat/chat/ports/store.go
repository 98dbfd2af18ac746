package chatports

import (
	"context"
	"time"
)

// MessageStore is the durable, append-only log of chat turns.
//
// Insert is best-effort: it reports failure as false and never panics or
// returns an error, so a broken database degrades logging without aborting an
// exchange. Every operation is independently atomic; no cross-operation
// locking is required of callers.
type MessageStore interface {
	Insert(ctx context.Context, role Role, sequence int64, content string) bool
	CountAll(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]LoggedMessage, error)
	CountByRole(ctx context.Context) (map[Role]int64, error)
	PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error)
}
