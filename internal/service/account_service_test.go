package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

func TestEnsureAccountIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.accounts.EnsureAccount(ctx, "acct-1", "alice")
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.Equal(t, model.RoleUser, first.Role)

	again, err := f.accounts.EnsureAccount(ctx, "acct-1", "renamed")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)

	_, err = f.accounts.EnsureAccount(ctx, " ", "x")
	assert.Error(t, err)
}

func TestDeactivate(t *testing.T) {
	inv := &recordingInvalidator{}
	f := newFixture(t, inv)
	ctx := context.Background()
	a := f.account(t, "alice", 10)

	require.NoError(t, f.accounts.Deactivate(ctx, a))
	assert.ErrorIs(t, f.accounts.Deactivate(ctx, a), ErrAccountInactive)
	assert.ErrorIs(t, f.accounts.Deactivate(ctx, "missing"), ErrAccountNotFound)
	assert.Equal(t, []string{a}, inv.seen())

	_, err := f.boosts.Boost(ctx, BoostRequest{AccountID: a, ExternalRef: "1"})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestSetRole(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.account(t, "alice", 0)

	require.NoError(t, f.accounts.SetRole(ctx, a, model.RoleAdmin))
	acct, err := f.accounts.Get(ctx, a)
	require.NoError(t, err)
	assert.True(t, acct.IsPrivileged())

	err = f.accounts.SetRole(ctx, a, "root")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.ErrorIs(t, f.accounts.SetRole(ctx, "missing", model.RoleUser), ErrAccountNotFound)
}

func TestSearch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.account(t, "alice", 0)
	b := f.account(t, "bobby", 0)
	require.NoError(t, f.bonuses.LinkHandle(ctx, a, "@alice_x"))

	got, err := f.accounts.Search(ctx, "@alice_x")
	require.NoError(t, err)
	assert.Equal(t, a, got.ID)

	got, err = f.accounts.Search(ctx, "alice_x")
	require.NoError(t, err)
	assert.Equal(t, a, got.ID)

	got, err = f.accounts.Search(ctx, "bobby")
	require.NoError(t, err)
	assert.Equal(t, b, got.ID)

	_, err = f.accounts.Search(ctx, "nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = f.accounts.Search(ctx, "@")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLedgerNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.account(t, "alice", 5)
	b := f.account(t, "bob", 0)
	postID := f.boostFor(t, a, nil)
	_, err := f.claims.Claim(ctx, b, postID)
	require.NoError(t, err)
	require.NoError(t, f.bonuses.LinkHandle(ctx, b, "@bob"))
	_, err = f.bonuses.ClaimBonus(ctx, b)
	require.NoError(t, err)

	entries, err := f.accounts.Ledger(ctx, b, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.KindBonus, entries[0].Kind)
	assert.Equal(t, model.KindEarn, entries[1].Kind)

	entries, err = f.accounts.Ledger(ctx, a, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.KindBoost, entries[0].Kind)
	assert.Equal(t, int64(-testCost), entries[0].Amount)

	claims, err := f.accounts.Claims(ctx, b, 1, 10)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, postID, claims[0].PostID)
}
