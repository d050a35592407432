package repository

import (
	"context"
	"testing"

	"comment-censor/internal/domain"
	"comment-censor/internal/pgtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseRepository_Postgres(t *testing.T) {
	db, _ := pgtest.Open(t)
	repo := NewPostgresPhraseRepository(db)
	ctx := context.Background()

	phrase := "forbidden " + uuid.NewString()

	created, err := repo.Create(ctx, phrase)
	require.NoError(t, err)
	assert.Equal(t, phrase, created.Phrase)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, phrase)
	assert.ErrorIs(t, err, domain.ErrPhraseExists)

	listed, err := repo.ListPhrases(ctx)
	require.NoError(t, err)
	assert.Contains(t, listed, phrase)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	var found bool
	for _, p := range all {
		if p.ID == created.ID {
			found = true
			assert.Equal(t, phrase, p.Phrase)
		}
	}
	assert.True(t, found)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrPhraseNotFound)

	listed, err = repo.ListPhrases(ctx)
	require.NoError(t, err)
	assert.NotContains(t, listed, phrase)
}

func TestCommentRepository_Postgres(t *testing.T) {
	db, _ := pgtest.Open(t)
	repo := NewPostgresCommentRepository(db)
	ctx := context.Background()

	var id string
	err := db.QueryRow(`INSERT INTO comments (article_id, text) VALUES ($1, $2) RETURNING id`,
		uuid.NewString(), "original").Scan(&id)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateText(ctx, id, "rewritten"))

	var text string
	require.NoError(t, db.QueryRow(`SELECT text FROM comments WHERE id = $1`, id).Scan(&text))
	assert.Equal(t, "rewritten", text)

	assert.ErrorIs(t, repo.UpdateText(ctx, uuid.NewString(), "x"), domain.ErrCommentNotFound)
}
