// Package redaction applies a phrase set snapshot to comment text.
package redaction

import "comment-censor/internal/phrases"

type Result struct {
	Changed bool
	Text    string
	Matched []string
}

// Redact has no side effects. It is used the same way for the full text of an
// inserted comment and for a text field carried by an update.
func Redact(text string, set *phrases.Set) Result {
	if set == nil {
		return Result{Text: text}
	}

	redacted, matched := set.Redact(text)
	return Result{
		Changed: redacted != text,
		Text:    redacted,
		Matched: matched,
	}
}
