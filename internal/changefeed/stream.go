// Package changefeed turns writes on a collection into an ordered sequence of
// domain.ChangeEvent values.
//
// Writes are captured by database triggers into the change_events table and
// announced with NOTIFY. A subscription LISTENs on the collection channel and
// reads new rows in sequence order, starting from the moment it subscribed.
package changefeed

import (
	"context"
	"errors"
	"fmt"

	"comment-censor/internal/domain"
)

var ErrFeedClosed = errors.New("change feed closed")

// Stream is an unbounded, ordered sequence of change events for one
// collection. Next blocks until an event is available, the context is done or
// the feed fails.
type Stream interface {
	Next(ctx context.Context) (domain.ChangeEvent, error)
	Close() error
}

// StreamError reports a feed failure. Streams are not retried in process.
type StreamError struct {
	Collection string
	Err        error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("change feed %s: %v", e.Collection, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
