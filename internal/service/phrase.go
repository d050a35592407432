package service

import (
	"context"
	"fmt"

	"comment-censor/internal/domain"
	"comment-censor/internal/phrases"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type PhraseRepository interface {
	List(ctx context.Context) ([]domain.ForbiddenPhrase, error)
	Create(ctx context.Context, phrase string) (*domain.ForbiddenPhrase, error)
	Delete(ctx context.Context, id string) error
}

type phraseService struct {
	phraseRepo  PhraseRepository
	replacement string
}

func NewPhraseService(phraseRepo PhraseRepository, replacement string) *phraseService {
	return &phraseService{
		phraseRepo:  phraseRepo,
		replacement: replacement,
	}
}

func (s *phraseService) ListPhrases(ctx context.Context) ([]domain.ForbiddenPhrase, error) {
	list, err := s.phraseRepo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list forbidden phrases")
		return nil, err
	}
	return list, nil
}

// CreatePhrase refuses a phrase the censor would reject on reload. The censor
// still validates the whole collection itself.
func (s *phraseService) CreatePhrase(ctx context.Context, req domain.CreatePhraseRequest) (*domain.ForbiddenPhrase, error) {
	if err := domain.ValidatePhrase(req.Phrase); err != nil {
		return nil, err
	}
	if _, err := phrases.TryBuild([]string{req.Phrase}, s.replacement); err != nil {
		return nil, err
	}

	created, err := s.phraseRepo.Create(ctx, req.Phrase)
	if err != nil {
		return nil, fmt.Errorf("failed to create forbidden phrase: %w", err)
	}
	return created, nil
}

func (s *phraseService) DeletePhrase(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidPhraseID
	}
	if err := s.phraseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete forbidden phrase: %w", err)
	}
	return nil
}

type PhraseServiceInterface interface {
	ListPhrases(ctx context.Context) ([]domain.ForbiddenPhrase, error)
	CreatePhrase(ctx context.Context, req domain.CreatePhraseRequest) (*domain.ForbiddenPhrase, error)
	DeletePhrase(ctx context.Context, id string) error
}
