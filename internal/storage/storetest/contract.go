// Package storetest holds the behaviour every storage.Store implementation must share.
package storetest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/knol"
	"github.com/conorfennell/flashdrill/internal/storage"
)

// Factory returns a fresh, empty store. The factory owns cleanup.
type Factory func(t *testing.T) storage.Store

// Run executes the store contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("empty store", func(t *testing.T) { testEmptyStore(t, newStore(t)) })
	t.Run("create and get", func(t *testing.T) { testCreateAndGet(t, newStore(t)) })
	t.Run("create validates", func(t *testing.T) { testCreateValidates(t, newStore(t)) })
	t.Run("list keeps insertion order", func(t *testing.T) { testListOrder(t, newStore(t)) })
	t.Run("find by hash", func(t *testing.T) { testFindByHash(t, newStore(t)) })
	t.Run("upsert keeps one record", func(t *testing.T) { testUpsertIdempotent(t, newStore(t)) })
	t.Run("usernames are case insensitive", func(t *testing.T) { testUsernameCase(t, newStore(t)) })
	t.Run("upsert unknown flashcard", func(t *testing.T) { testUpsertUnknownCard(t, newStore(t)) })
	t.Run("delete cascades", func(t *testing.T) { testDeleteCascades(t, newStore(t)) })
	t.Run("delete unknown flashcard", func(t *testing.T) { testDeleteUnknown(t, newStore(t)) })
	t.Run("reset is scoped to one user", func(t *testing.T) { testResetScoped(t, newStore(t)) })
	t.Run("count for user", func(t *testing.T) { testCountForUser(t, newStore(t)) })
}

func testEmptyStore(t *testing.T, s storage.Store) {
	ctx := context.Background()

	cards, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)

	exists, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.Get(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testCreateAndGet(t *testing.T, s storage.Store) {
	ctx := context.Background()

	created, err := s.Create(ctx, "What is the capital of Iran?", "Tehran")
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, knol.Hash("What is the capital of Iran?", "Tehran"), created.Hash)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "What is the capital of Iran?", got.Question)
	assert.Equal(t, "Tehran", got.Answer)
	assert.Equal(t, created.Hash, got.Hash)

	exists, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func testCreateValidates(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.Create(ctx, "", "answer")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Create(ctx, "question", strings.Repeat("a", domain.MaxFieldLength+1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected flashcards must not be stored")
}

func testListOrder(t *testing.T, s storage.Store) {
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		_, err := s.Create(ctx, q, "answer")
		require.NoError(t, err)
	}

	cards, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "first", cards[0].Question)
	assert.Equal(t, "second", cards[1].Question)
	assert.Equal(t, "third", cards[2].Question)
	assert.Less(t, cards[0].ID, cards[1].ID)
	assert.Less(t, cards[1].ID, cards[2].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func testFindByHash(t *testing.T, s storage.Store) {
	ctx := context.Background()

	created, err := s.Create(ctx, "2+2?", "4")
	require.NoError(t, err)

	found, err := s.FindByHash(ctx, knol.Hash(" 2+2? ", "4"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := s.FindByHash(ctx, knol.Hash("2+2?", "5"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testUpsertIdempotent(t *testing.T, s storage.Store) {
	ctx := context.Background()

	card, err := s.Create(ctx, "2+2?", "4")
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, card.ID, "payam", domain.Incorrect))
	require.NoError(t, s.Upsert(ctx, card.ID, "payam", domain.Correct))

	records, err := s.ListForUser(ctx, "payam")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Correct, records[0].Status)

	rec, err := s.Find(ctx, card.ID, "payam")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.Correct, rec.Status)
	assert.Equal(t, card.ID, rec.FlashcardID)
}

func testUsernameCase(t *testing.T, s storage.Store) {
	ctx := context.Background()

	card, err := s.Create(ctx, "2+2?", "4")
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, card.ID, "Payam", domain.Correct))

	rec, err := s.Find(ctx, card.ID, "payam")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "payam", rec.Username)
	assert.Equal(t, domain.Correct, rec.Status)

	require.NoError(t, s.Upsert(ctx, card.ID, "PAYAM", domain.Incorrect))
	records, err := s.ListForUser(ctx, "pAyAm")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Incorrect, records[0].Status)
}

func testUpsertUnknownCard(t *testing.T, s storage.Store) {
	ctx := context.Background()

	err := s.Upsert(ctx, 42, "payam", domain.Correct)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	records, err := s.ListForUser(ctx, "payam")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func testDeleteCascades(t *testing.T, s storage.Store) {
	ctx := context.Background()

	card, err := s.Create(ctx, "2+2?", "4")
	require.NoError(t, err)
	other, err := s.Create(ctx, "3+3?", "6")
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, card.ID, "payam", domain.Correct))
	require.NoError(t, s.Upsert(ctx, card.ID, "thomas", domain.Incorrect))
	require.NoError(t, s.Upsert(ctx, other.ID, "payam", domain.Incorrect))

	require.NoError(t, s.Delete(ctx, card.ID))

	_, err = s.Get(ctx, card.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rec, err := s.Find(ctx, card.ID, "payam")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.Find(ctx, card.ID, "thomas")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.Find(ctx, other.ID, "payam")
	require.NoError(t, err)
	require.NotNil(t, rec, "progress of other flashcards must survive")
}

func testDeleteUnknown(t *testing.T, s storage.Store) {
	err := s.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, storage.IsStoreError(err))
}

func testResetScoped(t *testing.T, s storage.Store) {
	ctx := context.Background()

	c1, err := s.Create(ctx, "q1", "a1")
	require.NoError(t, err)
	c2, err := s.Create(ctx, "q2", "a2")
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, c1.ID, "payam", domain.Correct))
	require.NoError(t, s.Upsert(ctx, c2.ID, "payam", domain.Incorrect))
	require.NoError(t, s.Upsert(ctx, c1.ID, "thomas", domain.Correct))

	deleted, err := s.DeleteAllForUser(ctx, "Payam")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	records, err := s.ListForUser(ctx, "payam")
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = s.ListForUser(ctx, "thomas")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func testCountForUser(t *testing.T, s storage.Store) {
	ctx := context.Background()

	var ids []int64
	for _, q := range []string{"q1", "q2", "q3", "q4"} {
		c, err := s.Create(ctx, q, "a")
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	require.NoError(t, s.Upsert(ctx, ids[0], "payam", domain.Correct))
	require.NoError(t, s.Upsert(ctx, ids[1], "payam", domain.Incorrect))
	require.NoError(t, s.Upsert(ctx, ids[2], "thomas", domain.Correct))

	correct, err := s.CountForUser(ctx, "payam", domain.Correct)
	require.NoError(t, err)
	assert.Equal(t, 1, correct)

	incorrect, err := s.CountForUser(ctx, "payam", domain.Incorrect)
	require.NoError(t, err)
	assert.Equal(t, 1, incorrect)

	none, err := s.CountForUser(ctx, "nobody", domain.Correct)
	require.NoError(t, err)
	assert.Zero(t, none)
}
