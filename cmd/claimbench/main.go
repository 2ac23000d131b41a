// Command claimbench 压测同一帖子上的并发领取：每个领取者经过客户端领取门，
// 并在结束后重放一轮重复领取并做一次账本审计。
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/boost-ledger/config"
	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/internal/verifier"
	"github.com/d60-Lab/boost-ledger/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	cfg.Database.AutoMigrate = true
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	// N 个领取者，CONC 个并发，TARGET 为帖子目标（0 不设上限），DELAY_MS 为领取门最大延迟
	N := envInt("N", 1000)
	CONC := envInt("CONC", 16)
	TARGET := envInt("TARGET", 0)
	DELAY := time.Duration(envInt("DELAY_MS", 20)) * time.Millisecond
	if CONC < 1 {
		CONC = 1
	}

	accounts := service.NewAccountService(db, nil)
	bonuses := service.NewBonusService(db, cfg.Credits.SignupBonus, nil)
	boosts := service.NewBoostService(db, cfg.Credits.BoostCost, cfg.Credits.DefaultTargetEngagements, nil)
	claims := service.NewClaimService(db, cfg.Credits.EngagementReward, nil)
	audit := service.NewAuditService(db)

	// 发布者靠注册奖励获得积分后推广一个帖子
	owner := uuid.New().String()
	must(accounts.EnsureAccount(ctx, owner, "bench-owner"))
	must(bonuses.LinkHandleAndClaim(ctx, owner, "@b"+owner[:8]))
	req := service.BoostRequest{
		AccountID:   owner,
		ExternalRef: fmt.Sprintf("https://x.com/bench/status/%d", time.Now().UnixNano()),
	}
	if TARGET > 0 {
		req.TargetEngagements = &TARGET
	}
	boost := must(boosts.Boost(ctx, req))

	users := make([]string, N)
	for i := range users {
		users[i] = uuid.New().String()
		must(accounts.EnsureAccount(ctx, users[i], "bench-"+users[i][:8]))
	}

	var granted, rejected, failed atomic.Int64
	lat := make(chan time.Duration, N)
	feed := make(chan string, N)
	for _, u := range users {
		feed <- u
	}
	close(feed)

	t0 := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range feed {
				done := make(chan struct{})
				opts := verifier.Options{Mode: verifier.Retryable, MinDelay: DELAY / 2, MaxDelay: DELAY, RequireVisibilityChange: DELAY > 0}
				opts.OnChange = func(s verifier.State) {
					if s == verifier.Idle || s == verifier.Failed {
						close(done)
					}
				}
				gate := verifier.NewGate(opts)
				uid := u
				err := gate.Open(ctx, func(ctx context.Context) error {
					st := time.Now()
					_, err := claims.Claim(ctx, uid, boost.PostID)
					lat <- time.Since(st)
					return err
				})
				if err != nil {
					failed.Add(1)
					continue
				}
				// 模拟用户切到外部页面再回来
				gate.Hidden()
				gate.Visible()
				<-done
				switch err := gate.Err(); {
				case err == nil:
					granted.Add(1)
				case service.KindOf(err) == service.KindStateConflict:
					rejected.Add(1)
				default:
					failed.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	close(lat)
	claimDur := time.Since(t0)
	recs := make([]time.Duration, 0, N)
	for d := range lat {
		recs = append(recs, d)
	}

	// 重放：所有领取都应被幂等拒绝
	var replayDup, replayOther int
	t1 := time.Now()
	for _, u := range users {
		_, err := claims.Claim(ctx, u, boost.PostID)
		switch {
		case errors.Is(err, service.ErrAlreadyClaimed):
			replayDup++
		case err != nil:
			replayOther++
		}
	}
	replayDur := time.Since(t1)

	summary := must(audit.AuditAll(ctx))

	fmt.Printf("driver=%s N=%d CONC=%d TARGET=%d DELAY=%v\n", cfg.Database.Driver, N, CONC, TARGET, DELAY)
	fmt.Printf("Claims total: %v, granted=%d, rejected=%d, failed=%d\n", claimDur, granted.Load(), rejected.Load(), failed.Load())
	fmt.Printf("Claim tx latency: p50=%v, p95=%v, p99=%v\n", pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
	fmt.Printf("Replay: %v, already_claimed=%d, other=%d\n", replayDur, replayDup, replayOther)
	fmt.Printf("Audit: checked=%d, drifted=%d, took=%v\n", summary.Checked, len(summary.Drifted), summary.Duration)
}
