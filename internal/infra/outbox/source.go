package outbox

import (
	"context"
	"time"

	appoutbox "bookingengine/internal/app/outbox"
)

// Delivery states shared by every Source implementation.
const (
	StateNew     = "NEW"
	StateClaimed = "CLAIMED"
	StateSent    = "SENT"
	StateFailed  = "FAILED"
)

// Pending is a claimed record together with its delivery bookkeeping.
type Pending struct {
	appoutbox.EventRecord
	Attempts int
}

// Source is the storage side of the outbox the worker drains. Claim returns
// nil when nothing is due.
type Source interface {
	Claim(ctx context.Context, workerID string) (*Pending, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}
