package repository

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

const uniqueViolation = "23505"

type postgresPhraseRepository struct {
	db *sql.DB
}

func NewPostgresPhraseRepository(db *sql.DB) *postgresPhraseRepository {
	return &postgresPhraseRepository{db: db}
}

// ListPhrases reads the whole forbidden_phrases collection.
func (r *postgresPhraseRepository) ListPhrases(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT phrase FROM forbidden_phrases`)
	if err != nil {
		log.WithError(err).Error("Failed to load forbidden phrases")
		return nil, fmt.Errorf("failed to load forbidden phrases: %w", err)
	}
	defer rows.Close()

	var phrases []string
	for rows.Next() {
		var phrase string
		if err := rows.Scan(&phrase); err != nil {
			return nil, fmt.Errorf("failed to scan forbidden phrase: %w", err)
		}
		phrases = append(phrases, phrase)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over forbidden phrases: %w", err)
	}

	return phrases, nil
}

func (r *postgresPhraseRepository) List(ctx context.Context) ([]domain.ForbiddenPhrase, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT id, phrase, created_at FROM forbidden_phrases ORDER BY created_at, phrase`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to list forbidden phrases")
		return nil, fmt.Errorf("failed to list forbidden phrases: %w", err)
	}
	defer rows.Close()

	phrases := []domain.ForbiddenPhrase{}
	for rows.Next() {
		var p domain.ForbiddenPhrase
		if err := rows.Scan(&p.ID, &p.Phrase, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan forbidden phrase row: %w", err)
		}
		phrases = append(phrases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over forbidden phrase rows: %w", err)
	}

	return phrases, nil
}

func (r *postgresPhraseRepository) Create(ctx context.Context, phrase string) (*domain.ForbiddenPhrase, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `INSERT INTO forbidden_phrases (phrase) VALUES ($1) RETURNING id, phrase, created_at`

	var p domain.ForbiddenPhrase
	err := r.db.QueryRowContext(ctx, query, phrase).Scan(&p.ID, &p.Phrase, &p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrPhraseExists
		}
		log.WithError(err).WithField("phrase", phrase).Error("Failed to create forbidden phrase")
		return nil, fmt.Errorf("failed to create forbidden phrase: %w", err)
	}

	log.WithField("phrase_id", p.ID).Info("Forbidden phrase created")
	return &p, nil
}

func (r *postgresPhraseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM forbidden_phrases WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).WithField("phrase_id", id).Error("Failed to delete forbidden phrase")
		return fmt.Errorf("failed to delete forbidden phrase: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not determine rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrPhraseNotFound
	}

	log.WithField("phrase_id", id).Info("Forbidden phrase deleted")
	return nil
}
