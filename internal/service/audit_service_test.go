package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

func TestBalanceMatchesLedgerAfterMixedOperations(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.account(t, "alice", 12)
	b := f.account(t, "bob", 0)
	c := f.account(t, "carol", 5)

	p1 := f.boostFor(t, a, intPtr(2))
	p2 := f.boostFor(t, a, nil)
	p3 := f.boostFor(t, c, nil)

	for _, claim := range []struct{ acct, post string }{{b, p1}, {c, p1}, {b, p2}, {b, p3}, {a, p3}, {b, p1}, {a, p1}} {
		_, _ = f.claims.Claim(ctx, claim.acct, claim.post)
	}
	require.NoError(t, f.bonuses.LinkHandle(ctx, b, "@bob"))
	_, err := f.bonuses.ClaimBonus(ctx, b)
	require.NoError(t, err)
	_, err = f.boosts.Boost(ctx, BoostRequest{AccountID: b, ExternalRef: "777"})
	require.NoError(t, err)

	summary, err := f.audit.AuditAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Checked)
	assert.Empty(t, summary.Drifted)

	rep, err := f.audit.AuditAccount(ctx, b)
	require.NoError(t, err)
	// 3 次 earn + 10 bonus - 5 boost
	assert.Equal(t, int64(8), rep.LedgerBalance)
	assert.Equal(t, int64(13), rep.LedgerEarned)
	assert.False(t, rep.Drift)
}

func TestAuditDetectsDrift(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.account(t, "alice", 5)
	f.account(t, "bob", 3)

	require.NoError(t, f.db.Model(&model.Account{}).Where("id = ?", a).
		Update("credits_balance", gorm.Expr("credits_balance + 1")).Error)

	rep, err := f.audit.AuditAccount(ctx, a)
	require.NoError(t, err)
	assert.True(t, rep.Drift)
	assert.Equal(t, int64(6), rep.StoredBalance)
	assert.Equal(t, int64(5), rep.LedgerBalance)

	summary, err := f.audit.AuditAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Checked)
	require.Len(t, summary.Drifted, 1)
	assert.Equal(t, a, summary.Drifted[0].AccountID)

	_, err = f.audit.AuditAccount(ctx, "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAuditSchedule(t *testing.T) {
	f := newFixture(t, nil)

	c, err := f.audit.Schedule("@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = f.audit.Schedule("not a cron")
	assert.Error(t, err)
}

func TestAuditPostComparesCounterWithClaims(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.account(t, "alice", 10)
	b := f.account(t, "bob", 0)
	c := f.account(t, "carol", 0)
	p := f.boostFor(t, a, nil)

	_, err := f.claims.Claim(ctx, b, p)
	require.NoError(t, err)
	_, err = f.claims.Claim(ctx, c, p)
	require.NoError(t, err)

	rep, err := f.audit.AuditPost(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.CurrentEngagements)
	assert.Equal(t, int64(2), rep.Claims)
	assert.False(t, rep.Drift)

	require.NoError(t, f.db.Model(&model.Post{}).Where("id = ?", p).
		Update("current_engagements", gorm.Expr("current_engagements + 1")).Error)
	rep, err = f.audit.AuditPost(ctx, p)
	require.NoError(t, err)
	assert.True(t, rep.Drift)

	_, err = f.audit.AuditPost(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
