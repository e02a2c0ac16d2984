package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/adapter/repo/postgres"
	"github.com/jobdeck/jobdeck/internal/domain"
)

func TestProfileRepoGetResume(t *testing.T) {
	t.Parallel()
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		*dest[0].(*string) = "Jane Doe, backend engineer"
		return nil
	}}}
	repo := postgres.NewProfileRepo(pool)

	text, err := repo.GetResume(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe, backend engineer", text)
}

func TestProfileRepoGetResumeNotFound(t *testing.T) {
	t.Parallel()
	pool := &poolStub{row: rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}}
	repo := postgres.NewProfileRepo(pool)

	_, err := repo.GetResume(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileRepoUpsertResume(t *testing.T) {
	t.Parallel()
	pool := &poolStub{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	repo := postgres.NewProfileRepo(pool)

	require.NoError(t, repo.UpsertResume(context.Background(), "u1", "text"))
	assert.Contains(t, pool.execSQL, "ON CONFLICT (user_id)")
}

func TestProfileRepoUpsertResumeError(t *testing.T) {
	t.Parallel()
	pool := &poolStub{execErr: assert.AnError}
	repo := postgres.NewProfileRepo(pool)

	require.ErrorIs(t, repo.UpsertResume(context.Background(), "u1", "text"), assert.AnError)
}
