package changefeed

import (
	"context"
	"fmt"
	"time"

	"comment-censor/internal/domain"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const defaultPingInterval = 90 * time.Second

type rowSource interface {
	changesAfter(ctx context.Context, collection string, after int64, limit int) ([]changeRow, error)
}

type subscription struct {
	collection string
	ops        map[domain.OperationType]bool
	rows       rowSource
	batchSize  int
	last       int64
	pending    []domain.ChangeEvent

	notify       <-chan *pq.Notification
	failures     <-chan error
	pingInterval time.Duration
	ping         func() error
	close        func() error
}

func newSubscription(collection string, ops []domain.OperationType, rows rowSource, batchSize int, start int64,
	notify <-chan *pq.Notification, failures <-chan error, pingInterval time.Duration,
	ping func() error, closeFn func() error) *subscription {
	wanted := make(map[domain.OperationType]bool, len(ops))
	for _, op := range ops {
		wanted[op] = true
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	return &subscription{
		collection:   collection,
		ops:          wanted,
		rows:         rows,
		batchSize:    batchSize,
		last:         start,
		notify:       notify,
		failures:     failures,
		pingInterval: pingInterval,
		ping:         ping,
		close:        closeFn,
	}
}

func (s *subscription) Next(ctx context.Context) (domain.ChangeEvent, error) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			return ev, nil
		}

		select {
		case <-ctx.Done():
			return domain.ChangeEvent{}, ctx.Err()
		case err := <-s.failures:
			return domain.ChangeEvent{}, s.fail(err)
		case _, ok := <-s.notify:
			// A nil notification follows a reconnect; reading the table
			// catches up either way.
			if !ok {
				return domain.ChangeEvent{}, s.fail(ErrFeedClosed)
			}
		case <-ticker.C:
			if err := s.ping(); err != nil {
				return domain.ChangeEvent{}, s.fail(fmt.Errorf("ping: %w", err))
			}
		}

		if err := s.fill(ctx); err != nil {
			if ctx.Err() != nil {
				return domain.ChangeEvent{}, ctx.Err()
			}
			return domain.ChangeEvent{}, s.fail(err)
		}
	}
}

func (s *subscription) Close() error {
	return s.close()
}

func (s *subscription) fill(ctx context.Context) error {
	for {
		rows, err := s.rows.changesAfter(ctx, s.collection, s.last, s.batchSize)
		if err != nil {
			return err
		}

		for _, r := range rows {
			s.last = r.Seq
			ev, err := decodeRow(r)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"collection": s.collection,
					"seq":        r.Seq,
				}).Warn("Skipping malformed change event")
				continue
			}
			if !s.ops[ev.Operation] {
				continue
			}
			s.pending = append(s.pending, ev)
		}

		if len(rows) < s.batchSize {
			return nil
		}
	}
}

func (s *subscription) fail(err error) error {
	return &StreamError{Collection: s.collection, Err: err}
}
