package service

import (
	"context"
	"time"

	"comment-censor/internal/domain"
)

const serviceName = "comment-censor"

type AuditPublisher interface {
	Publish(ctx context.Context, event domain.AuditEvent) error
}

// AuditService is safe to use with a nil publisher; every call is then a no-op.
type AuditService struct {
	publisher AuditPublisher
}

func NewAuditService(publisher AuditPublisher) *AuditService {
	return &AuditService{publisher: publisher}
}

func (s *AuditService) RecordCommentRedacted(ctx context.Context, commentID string, matched []string) error {
	if s == nil || s.publisher == nil {
		return nil
	}

	event := domain.AuditEvent{
		Service:    serviceName,
		EventType:  domain.AuditCommentRedacted,
		EntityID:   commentID,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"matched": matched,
		},
	}

	return s.publisher.Publish(ctx, event)
}

func (s *AuditService) RecordPhraseSetReloaded(ctx context.Context, count int) error {
	if s == nil || s.publisher == nil {
		return nil
	}

	event := domain.AuditEvent{
		Service:    serviceName,
		EventType:  domain.AuditPhraseSetReloaded,
		EntityID:   domain.CollectionForbiddenPhrases,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"count": count,
		},
	}

	return s.publisher.Publish(ctx, event)
}

func (s *AuditService) RecordPhraseSetRejected(ctx context.Context, phrase string, cause error) error {
	if s == nil || s.publisher == nil {
		return nil
	}

	event := domain.AuditEvent{
		Service:    serviceName,
		EventType:  domain.AuditPhraseSetRejected,
		EntityID:   domain.CollectionForbiddenPhrases,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"phrase": phrase,
			"error":  cause.Error(),
		},
	}

	return s.publisher.Publish(ctx, event)
}
