package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

// 领取写路径：claim 插入 + earn 流水 + 余额更新
func BenchmarkClaimWritePath(b *testing.B) {
	db := setupDB(b)
	accounts := NewAccountRepository(db)
	claims := NewClaimRepository(db)
	ledger := NewLedgerRepository(db)
	ctx := context.Background()

	users := make([]string, 1000)
	for i := range users {
		users[i] = fmt.Sprintf("u%04d", i)
		if _, err := accounts.FirstOrCreate(ctx, users[i], users[i]); err != nil {
			b.Fatalf("seed accounts: %v", err)
		}
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		uid := users[rng.Intn(len(users))]
		ok, _ := claims.Insert(ctx, &model.EngagementClaim{
			ID: uuid.NewString(), AccountID: uid, PostID: fmt.Sprintf("p%d", i), ClaimedAt: time.Now(), Valid: true,
		})
		if !ok {
			continue
		}
		_ = ledger.Append(ctx, &model.LedgerEntry{ID: uuid.NewString(), AccountID: uid, Amount: 1, Kind: model.KindEarn, CreatedAt: time.Now()})
		_, _ = accounts.Credit(ctx, uid, 1, true)
	}
}

func BenchmarkLedgerQueries(b *testing.B) {
	db := setupDB(b)
	ledger := NewLedgerRepository(db)
	accounts := NewAccountRepository(db)
	ctx := context.Background()

	// 一个账户 N 条流水，另有 N 个账户参与排行榜
	const N = 5000
	base := time.Now()
	rows := make([]*model.LedgerEntry, N)
	for i := range rows {
		kind, amount := model.KindEarn, int64(1)
		if i%10 == 0 {
			kind, amount = model.KindBoost, -5
		}
		rows[i] = &model.LedgerEntry{ID: uuid.NewString(), AccountID: "u0", Amount: amount, Kind: kind, CreatedAt: base.Add(time.Duration(i) * time.Millisecond)}
	}
	if err := db.CreateInBatches(rows, 500).Error; err != nil {
		b.Fatalf("seed ledger: %v", err)
	}
	for i := 1; i <= N; i++ {
		uid := fmt.Sprintf("u%d", i)
		_, _ = accounts.FirstOrCreate(ctx, uid, uid)
		_, _ = accounts.Credit(ctx, uid, int64(i%97), true)
	}

	b.ResetTimer()
	b.Run("Sums", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _, _ = ledger.Sums(ctx, "u0")
		}
	})

	b.Run("ListByAccount", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = ledger.ListByAccount(ctx, "u0", 0, 50)
		}
	})

	b.Run("Leaderboard", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = accounts.Leaderboard(ctx, 20)
		}
	})
}
