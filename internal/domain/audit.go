package domain

import "time"

const (
	AuditCommentRedacted   = "comment_redacted"
	AuditPhraseSetReloaded = "phrase_set_reloaded"
	AuditPhraseSetRejected = "phrase_set_rejected"
)

type AuditEvent struct {
	Service    string                 `json:"service"`
	EventType  string                 `json:"event_type"`
	EntityID   string                 `json:"entity_id"`
	Actor      string                 `json:"actor,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}
