package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"comment-censor/internal/domain"

	log "github.com/sirupsen/logrus"
)

type postgresCommentRepository struct {
	db *sql.DB
}

func NewPostgresCommentRepository(db *sql.DB) *postgresCommentRepository {
	return &postgresCommentRepository{db: db}
}

// UpdateText overwrites the comment text unconditionally; the last writer wins.
func (r *postgresCommentRepository) UpdateText(ctx context.Context, id, text string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `UPDATE comments SET text = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, text, id)
	if err != nil {
		log.WithError(err).WithField("comment_id", id).Error("Failed to update comment text")
		return fmt.Errorf("failed to update comment text: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not determine rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrCommentNotFound
	}

	log.WithField("comment_id", id).Debug("Comment text updated")
	return nil
}
