package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

func TestBoostInsufficientCreditsWritesNothing(t *testing.T) {
	f := newFixture(t, nil)
	a := f.account(t, "alice", 4)

	_, err := f.boosts.Boost(context.Background(), BoostRequest{AccountID: a, ExternalRef: "1234567890"})
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, KindResource, KindOf(err))

	assert.Equal(t, int64(0), f.count(t, &model.Post{}, "account_id = ?", a))
	assert.Equal(t, int64(0), f.count(t, &model.LedgerEntry{}, "account_id = ? AND transaction_type = ?", a, model.KindBoost))
	bal, _ := f.balance(t, a)
	assert.Equal(t, int64(4), bal)
}

func TestBoostValidation(t *testing.T) {
	f := newFixture(t, nil)
	a := f.account(t, "alice", 50)
	ctx := context.Background()

	cases := []struct {
		name string
		req  BoostRequest
		want error
	}{
		{"empty ref", BoostRequest{AccountID: a}, ErrInvalidReference},
		{"foreign host", BoostRequest{AccountID: a, ExternalRef: "https://example.com/a/status/1"}, ErrInvalidReference},
		{"zero override", BoostRequest{AccountID: a, ExternalRef: "1", CostOverride: int64Ptr(0)}, ErrInvalidCost},
		{"negative target", BoostRequest{AccountID: a, ExternalRef: "1", TargetEngagements: intPtr(-1)}, ErrInvalidTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.boosts.Boost(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
	assert.Equal(t, int64(0), f.count(t, &model.Post{}, "account_id = ?", a))
}

func TestBoostCostOverrideAndTarget(t *testing.T) {
	f := newFixture(t, nil)
	a := f.account(t, "alice", 20)

	res, err := f.boosts.Boost(context.Background(), BoostRequest{
		AccountID:         a,
		ExternalRef:       "https://twitter.com/alice/statuses/42?s=20",
		CostOverride:      int64Ptr(12),
		TargetEngagements: intPtr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.Cost)
	assert.Equal(t, int64(8), res.NewBalance)

	post := f.post(t, res.PostID)
	require.NotNil(t, post.TargetEngagements)
	assert.Equal(t, 7, *post.TargetEngagements)
	assert.Equal(t, "42", post.TweetID)

	var entry model.LedgerEntry
	require.NoError(t, f.db.Where("account_id = ? AND transaction_type = ?", a, model.KindBoost).First(&entry).Error)
	assert.Equal(t, int64(-12), entry.Amount)
}

func TestBoostDefaultTarget(t *testing.T) {
	f := newFixture(t, nil)
	f.boosts = NewBoostService(f.db, testCost, 10, nil)
	a := f.account(t, "alice", 10)

	res, err := f.boosts.Boost(context.Background(), BoostRequest{AccountID: a, ExternalRef: "99"})
	require.NoError(t, err)
	require.NotNil(t, f.post(t, res.PostID).TargetEngagements)
	assert.Equal(t, 10, *f.post(t, res.PostID).TargetEngagements)

	// 显式 0 表示不设上限
	res, err = f.boosts.Boost(context.Background(), BoostRequest{AccountID: a, ExternalRef: "100", TargetEngagements: intPtr(0)})
	require.NoError(t, err)
	assert.Nil(t, f.post(t, res.PostID).TargetEngagements)
}

func TestBoostUnknownAccount(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.boosts.Boost(context.Background(), BoostRequest{AccountID: "nobody", ExternalRef: "1"})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestBoostRollsBackOnDebitFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "active", "credits_balance"}).
			AddRow("acct-1", "alice", model.RoleUser, true, 10))
	mock.ExpectExec(`UPDATE "accounts" SET`).WillReturnError(boom)
	mock.ExpectRollback()

	svc := NewBoostService(db, testCost, 0, nil)
	_, err = svc.Boost(context.Background(), BoostRequest{AccountID: "acct-1", ExternalRef: "123"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoostRollsBackWhenPostInsertFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "active", "credits_balance"}).
			AddRow("acct-1", "alice", model.RoleUser, true, 10))
	mock.ExpectExec(`UPDATE "accounts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "ledger_entries"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "posts"`).WillReturnError(boom)
	mock.ExpectRollback()

	svc := NewBoostService(db, testCost, 0, nil)
	_, err = svc.Boost(context.Background(), BoostRequest{AccountID: "acct-1", ExternalRef: "123"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
