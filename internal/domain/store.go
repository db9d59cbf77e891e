package domain

import "context"

// Store is the queue-table contract: claim unprocessed concepts and mark
// them processed. Implementations must make Poll/Ack safe to call from a
// single caller at a time; the worker loop never runs two polls
// concurrently.
type Store interface {
	Poll(ctx context.Context) ([]Concept, error)
	Ack(ctx context.Context, id string) error
}
