package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorturl-go/internal/model"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/testutil"
)

func newRepo(t *testing.T) *repository.ShortenedURLRepository {
	t.Helper()
	return repository.NewShortenedURLRepository(testutil.NewTestDB(t))
}

func TestShortenedURLRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	u := &model.ShortenedURL{Original: "https://google.com/", Shortened: "8zndKjGR"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byCode, err := repo.FindByShortened(ctx, "8zndKjGR")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byCode.ID)
	assert.Equal(t, "https://google.com/", byCode.Original)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "8zndKjGR", byID.Shortened)
}

func TestShortenedURLRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.FindByShortened(ctx, "abcdefgh")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestShortenedURLRepository_UniqueViolations(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.Create(ctx, &model.ShortenedURL{Original: "https://a.com/", Shortened: "aaaaaaaa"}))

	err := repo.Create(ctx, &model.ShortenedURL{Original: "https://b.com/", Shortened: "aaaaaaaa"})
	assert.ErrorIs(t, err, repository.ErrShortenedTaken)

	err = repo.Create(ctx, &model.ShortenedURL{Original: "https://a.com/", Shortened: "bbbbbbbb"})
	assert.ErrorIs(t, err, repository.ErrOriginalTaken)
}

func TestShortenedURLRepository_FindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	urls, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)

	require.NoError(t, repo.Create(ctx, &model.ShortenedURL{Original: "https://a.com/", Shortened: "aaaaaaaa"}))
	require.NoError(t, repo.Create(ctx, &model.ShortenedURL{Original: "https://b.com/", Shortened: "bbbbbbbb"}))

	urls, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "bbbbbbbb", urls[0].Shortened)
	assert.Equal(t, "aaaaaaaa", urls[1].Shortened)
}

func TestShortenedURLRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	u := &model.ShortenedURL{Original: "https://a.com/", Shortened: "aaaaaaaa"}
	require.NoError(t, repo.Create(ctx, u))

	removed, err := repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.FindByShortened(ctx, "aaaaaaaa")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// the freed original can be shortened again
	require.NoError(t, repo.Create(ctx, &model.ShortenedURL{Original: "https://a.com/", Shortened: "cccccccc"}))
}

func TestShortenedURLRepository_Ping(t *testing.T) {
	assert.NoError(t, newRepo(t).Ping(context.Background()))
}
