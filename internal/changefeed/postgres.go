package changefeed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"comment-censor/internal/domain"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	MinReconnectInterval time.Duration
	MaxReconnectInterval time.Duration
	PingInterval         time.Duration
	BatchSize            int
}

type Feed struct {
	db   *sql.DB
	dsn  string
	opts Options
}

func NewFeed(db *sql.DB, dsn string, opts Options) *Feed {
	return &Feed{db: db, dsn: dsn, opts: opts}
}

// ChannelName is the NOTIFY channel the triggers announce a collection's
// changes on.
func ChannelName(collection string) string {
	return "change_events_" + collection
}

// Subscribe starts a stream of the given operation types on collection. Only
// writes committed after Subscribe returns are delivered.
func (f *Feed) Subscribe(ctx context.Context, collection string, ops ...domain.OperationType) (Stream, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("subscribe %s: no operation types", collection)
	}

	failures := make(chan error, 1)
	logger := log.WithField("collection", collection)

	listener := pq.NewListener(f.dsn, f.opts.MinReconnectInterval, f.opts.MaxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			switch ev {
			case pq.ListenerEventConnected:
				logger.Debug("Change feed connected")
			case pq.ListenerEventReconnected:
				logger.Warn("Change feed reconnected")
			case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
				if err == nil {
					err = errors.New("listener disconnected")
				}
				select {
				case failures <- err:
				default:
				}
			}
		})

	// LISTEN before reading the start position so no commit falls between them.
	if err := listener.Listen(ChannelName(collection)); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", ChannelName(collection), err)
	}

	start, err := f.latestSeq(ctx, collection)
	if err != nil {
		listener.Close()
		return nil, err
	}

	logger.WithField("seq", start).Info("Subscribed to change feed")

	return newSubscription(collection, ops, f, f.opts.BatchSize, start,
		listener.Notify, failures, f.opts.PingInterval, listener.Ping, listener.Close), nil
}

func (f *Feed) latestSeq(ctx context.Context, collection string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var seq int64
	query := `SELECT COALESCE(MAX(seq), 0) FROM change_events WHERE collection = $1`
	if err := f.db.QueryRowContext(ctx, query, collection).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to read change feed position for %s: %w", collection, err)
	}
	return seq, nil
}

func (f *Feed) changesAfter(ctx context.Context, collection string, after int64, limit int) ([]changeRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT seq, collection, operation, document_id, full_document, updated_fields
		FROM change_events
		WHERE collection = $1 AND seq > $2
		ORDER BY seq
		LIMIT $3
	`

	rows, err := f.db.QueryContext(ctx, query, collection, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read changes: %w", err)
	}
	defer rows.Close()

	var changes []changeRow
	for rows.Next() {
		var r changeRow
		if err := rows.Scan(&r.Seq, &r.Collection, &r.Operation, &r.DocumentID, &r.FullDocument, &r.UpdatedFields); err != nil {
			return nil, fmt.Errorf("failed to scan change row: %w", err)
		}
		changes = append(changes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over change rows: %w", err)
	}

	return changes, nil
}
