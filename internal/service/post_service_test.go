package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

func TestArchivePermissions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.account(t, "owner", 10)
	stranger := f.account(t, "stranger", 0)
	mod := f.account(t, "mod", 0)
	require.NoError(t, f.accounts.SetRole(ctx, mod, model.RoleModerator))

	first := f.boostFor(t, owner, nil)
	second := f.boostFor(t, owner, nil)

	assert.ErrorIs(t, f.posts.Archive(ctx, stranger, first), ErrForbidden)
	assert.Equal(t, model.PostStatusActive, f.post(t, first).Status)

	require.NoError(t, f.posts.Archive(ctx, owner, first))
	assert.Equal(t, model.PostStatusArchived, f.post(t, first).Status)
	assert.ErrorIs(t, f.posts.Archive(ctx, owner, first), ErrPostNotActive)

	require.NoError(t, f.posts.Archive(ctx, mod, second))
	assert.ErrorIs(t, f.posts.Archive(ctx, owner, "missing"), ErrPostNotFound)
}

func TestAdminArchiveIsOneWay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.account(t, "owner", 5)
	claimer := f.account(t, "claimer", 0)
	postID := f.boostFor(t, owner, nil)

	require.NoError(t, f.posts.AdminArchive(ctx, postID))
	assert.ErrorIs(t, f.posts.AdminArchive(ctx, postID), ErrPostNotActive)

	_, err := f.claims.Claim(ctx, claimer, postID)
	assert.ErrorIs(t, err, ErrPostNotActive)
	assert.Equal(t, model.PostStatusArchived, f.post(t, postID).Status)
}

func TestFeedAndListByAccount(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.account(t, "alice", 15)
	b := f.account(t, "bob", 5)

	a1 := f.boostFor(t, a, nil)
	a2 := f.boostFor(t, a, nil)
	a3 := f.boostFor(t, a, nil)
	b1 := f.boostFor(t, b, nil)
	require.NoError(t, f.posts.AdminArchive(ctx, a2))

	feed, err := f.posts.Feed(ctx, b, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, a3, feed[0].ID)
	assert.Equal(t, a1, feed[1].ID)

	feed, err = f.posts.Feed(ctx, a, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, b1, feed[0].ID)

	mine, err := f.posts.ListByAccount(ctx, a, 1, 2)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a3, mine[0].ID)
	assert.Equal(t, a2, mine[1].ID)

	mine, err = f.posts.ListByAccount(ctx, a, 2, 2)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a1, mine[0].ID)
}
