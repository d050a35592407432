package domain

import (
	"errors"
	"time"
)

var (
	ErrPhraseNotFound  = errors.New("forbidden phrase not found")
	ErrPhraseExists    = errors.New("forbidden phrase already exists")
	ErrInvalidPhrase   = errors.New("invalid forbidden phrase")
	ErrInvalidPhraseID = errors.New("invalid forbidden phrase id")
)

type ForbiddenPhrase struct {
	ID        string    `json:"id"`
	Phrase    string    `json:"phrase"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePhraseRequest struct {
	Phrase string `json:"phrase"`
}

// ValidatePhrase only rejects the empty phrase. Phrases are matched literally,
// so surrounding whitespace is kept as given.
func ValidatePhrase(phrase string) error {
	if phrase == "" {
		return ErrInvalidPhrase
	}
	return nil
}
