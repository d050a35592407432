package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"comment-censor/internal/changefeed"
	"comment-censor/internal/domain"
	"comment-censor/internal/phrases"
	"comment-censor/internal/redaction"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type State int32

const (
	StateInit State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateRunning:
		return "RUNNING"
	case StateTerminated:
		return "TERMINATED"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

type ChangeFeed interface {
	Subscribe(ctx context.Context, collection string, ops ...domain.OperationType) (changefeed.Stream, error)
}

type CommentWriter interface {
	UpdateText(ctx context.Context, id, text string) error
}

type PhraseSource interface {
	ListPhrases(ctx context.Context) ([]string, error)
}

type Stats struct {
	CommentsRedacted int64 `json:"comments_redacted"`
	WriteFailures    int64 `json:"write_failures"`
	ReloadsAccepted  int64 `json:"reloads_accepted"`
	ReloadsRejected  int64 `json:"reloads_rejected"`
	ReloadsFailed    int64 `json:"reloads_failed"`
}

// Censor keeps stored comment text free of forbidden phrases. It runs one
// listener on the comments feed and one on the forbidden phrases feed; the
// two share nothing but the published phrase set.
type Censor struct {
	feed        ChangeFeed
	writer      CommentWriter
	source      PhraseSource
	audit       *AuditService
	replacement string

	phrases *phrases.Holder
	state   atomic.Int32

	redacted      atomic.Int64
	writeFailures atomic.Int64
	reloads       atomic.Int64
	rejected      atomic.Int64
	reloadFailed  atomic.Int64
}

func NewCensor(feed ChangeFeed, writer CommentWriter, source PhraseSource, audit *AuditService, replacement string) *Censor {
	return &Censor{
		feed:        feed,
		writer:      writer,
		source:      source,
		audit:       audit,
		replacement: replacement,
		phrases:     phrases.NewHolder(nil),
	}
}

// Run loads the initial phrase set and then listens to both feeds until ctx is
// cancelled or a feed fails. An unsafe initial phrase set is fatal. Run
// returns nil after cancellation.
func (c *Censor) Run(ctx context.Context) error {
	defer c.state.Store(int32(StateTerminated))

	// Subscribe to phrase changes before reading the collection so a change
	// made during startup is not lost.
	phraseStream, err := c.feed.Subscribe(ctx, domain.CollectionForbiddenPhrases,
		domain.OperationInsert, domain.OperationUpdate, domain.OperationDelete)
	if err != nil {
		return fmt.Errorf("failed to subscribe to forbidden phrases: %w", err)
	}
	defer closeStream(phraseStream, domain.CollectionForbiddenPhrases)

	initial, err := c.buildPhraseSet(ctx)
	if err != nil {
		return fmt.Errorf("failed to load initial phrase set: %w", err)
	}
	c.phrases.Publish(initial)
	log.WithField("count", initial.Len()).Info("Loaded forbidden phrases")

	commentStream, err := c.feed.Subscribe(ctx, domain.CollectionComments,
		domain.OperationInsert, domain.OperationUpdate)
	if err != nil {
		return fmt.Errorf("failed to subscribe to comments: %w", err)
	}
	defer closeStream(commentStream, domain.CollectionComments)

	c.state.Store(int32(StateRunning))
	log.Info("Listening for changes in comments and forbidden phrases...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.listenComments(gctx, commentStream)
	})
	g.Go(func() error {
		return c.listenPhrases(gctx, phraseStream)
	})

	err = g.Wait()
	if ctx.Err() != nil {
		log.Info("Censor has been shut down")
		return nil
	}
	return err
}

func (c *Censor) State() State {
	return State(c.state.Load())
}

// Snapshot returns the currently published phrase set, or nil before the
// initial load.
func (c *Censor) Snapshot() *phrases.Set {
	return c.phrases.Load()
}

func (c *Censor) Replacement() string {
	return c.replacement
}

func (c *Censor) Stats() Stats {
	return Stats{
		CommentsRedacted: c.redacted.Load(),
		WriteFailures:    c.writeFailures.Load(),
		ReloadsAccepted:  c.reloads.Load(),
		ReloadsRejected:  c.rejected.Load(),
		ReloadsFailed:    c.reloadFailed.Load(),
	}
}

func (c *Censor) listenComments(ctx context.Context, stream changefeed.Stream) error {
	for {
		ev, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		c.handleComment(ctx, ev)
	}
}

func (c *Censor) listenPhrases(ctx context.Context, stream changefeed.Stream) error {
	for {
		ev, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		c.reload(ctx, ev)
	}
}

// handleComment redacts the text carried by an insert or an update that
// touched the text field. Anything else is ignored.
func (c *Censor) handleComment(ctx context.Context, ev domain.ChangeEvent) {
	text, ok := ev.StringField(domain.CommentTextField)
	if !ok {
		return
	}

	res := redaction.Redact(text, c.phrases.Load())
	if !res.Changed {
		return
	}

	logger := log.WithFields(log.Fields{
		"comment_id": ev.DocumentID,
		"matched":    res.Matched,
	})

	if err := c.writer.UpdateText(ctx, ev.DocumentID, res.Text); err != nil {
		c.writeFailures.Add(1)
		logger.WithError(err).Error("Failed to write redacted comment, dropping event")
		return
	}

	c.redacted.Add(1)
	logger.Info("Redacted forbidden phrases in comment")

	if err := c.audit.RecordCommentRedacted(ctx, ev.DocumentID, res.Matched); err != nil {
		logger.WithError(err).Warn("Failed to publish redaction audit event")
	}
}

// reload rebuilds the phrase set from the whole collection. On any failure the
// previously published set stays in force.
func (c *Censor) reload(ctx context.Context, ev domain.ChangeEvent) {
	logger := log.WithFields(log.Fields{
		"operation":   ev.Operation,
		"document_id": ev.DocumentID,
	})

	set, err := c.buildPhraseSet(ctx)
	if err != nil {
		var verr *phrases.ValidationError
		if errors.As(err, &verr) {
			c.rejected.Add(1)
			logger.WithError(err).WithField("phrase", verr.Phrase).
				Error("Rejected forbidden phrase list, keeping the previous one")
			if aerr := c.audit.RecordPhraseSetRejected(ctx, verr.Phrase, err); aerr != nil {
				logger.WithError(aerr).Warn("Failed to publish phrase rejection audit event")
			}
			return
		}

		c.reloadFailed.Add(1)
		logger.WithError(err).Error("Failed to reload forbidden phrases, keeping the previous list")
		return
	}

	c.phrases.Publish(set)
	c.reloads.Add(1)
	logger.WithField("count", set.Len()).Info("Reloaded forbidden phrases")

	if err := c.audit.RecordPhraseSetReloaded(ctx, set.Len()); err != nil {
		logger.WithError(err).Warn("Failed to publish phrase reload audit event")
	}
}

func (c *Censor) buildPhraseSet(ctx context.Context) (*phrases.Set, error) {
	list, err := c.source.ListPhrases(ctx)
	if err != nil {
		return nil, err
	}
	return phrases.TryBuild(list, c.replacement)
}

func closeStream(s changefeed.Stream, collection string) {
	if err := s.Close(); err != nil {
		log.WithError(err).WithField("collection", collection).Warn("Failed to close change stream")
	}
}
