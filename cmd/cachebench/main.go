package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/boost-ledger/config"
	"github.com/d60-Lab/boost-ledger/internal/cache"
	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/pkg/database"
)

func main() {
	ctx := context.Background()

	cfg := must(config.Load())
	db, cleanup := must2(openBenchDB())
	defer cleanup()

	const (
		accountCount = 5000
		requestCount = 20000
		// 每隔 writeEvery 次读取发生一次余额变化
		writeEvery = 20
	)

	fmt.Println("Setting up test data...")
	ids := must(seedAccounts(db, accountCount))
	fmt.Printf("Test data ready: %d accounts\n", accountCount)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = cfg.Redis.Addr
	}
	// 每个场景都会 FLUSHDB，默认使用独立的库号避免清掉服务数据
	client := redis.NewClient(&redis.Options{Addr: redisAddr, Password: cfg.Redis.Password, DB: envInt("CACHEBENCH_REDIS_DB", 15)})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	reqs := makeRequests(ids, requestCount)

	noCache := runScenario(ctx, client, service.NewProfileService(db, cache.NopProfileCache{}, nil), nil, reqs, 0)

	rc := cache.NewRedisProfileCache(client, 10*time.Minute)
	readThrough := runScenario(ctx, client, service.NewProfileService(db, rc, nil), rc, reqs, 0)

	rc2 := cache.NewRedisProfileCache(client, 10*time.Minute)
	withWrites := runScenario(ctx, client, service.NewProfileService(db, rc2, nil), rc2, reqs, writeEvery)

	fmt.Printf("\nProfile read latency (%d req, %d accounts, zipf access, %s)\n", requestCount, accountCount, db.Dialector.Name())
	for _, r := range []struct {
		name string
		res  scenarioResult
	}{{"No cache", noCache}, {"Read-through", readThrough}, {"Read-through+inv", withWrites}} {
		fmt.Printf("%-18s avg=%v p95=%v p99=%v hits=%d misses=%d cache_keys=%d mem=%s\n",
			r.name, avg(r.res.durations), pct(r.res.durations, 0.95), pct(r.res.durations, 0.99),
			r.res.hits, r.res.misses, r.res.cacheKeys, formatBytes(r.res.memoryBytes))
	}
}

// openBenchDB 压测使用独立数据库：CACHEBENCH_DATABASE_URL 指向 postgres，
// 未设置时在临时目录建 sqlite 文件，结束后删除
func openBenchDB() (*gorm.DB, func(), error) {
	if dsn := os.Getenv("CACHEBENCH_DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent), TranslateError: true})
		if err != nil {
			return nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, err
		}
		return db, func() {}, nil
	}
	dir, err := os.MkdirTemp("", "cachebench")
	if err != nil {
		return nil, nil, err
	}
	db, err := database.OpenSQLite(filepath.Join(dir, "bench.db"), nil)
	if err == nil {
		err = database.AutoMigrate(db)
	}
	if err != nil {
		os.RemoveAll(dir)
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		os.RemoveAll(dir)
	}, nil
}

// seedAccounts 写入 n 个账户；非零余额同时写一条 bonus 流水，余额与账本一致
func seedAccounts(db *gorm.DB, n int) ([]string, error) {
	base := time.Now()
	accounts := make([]model.Account, n)
	entries := make([]model.LedgerEntry, 0, n)
	ids := make([]string, n)
	for i := range accounts {
		id := uuid.NewString()
		amount := int64(i % 50)
		accounts[i] = model.Account{
			ID:                 id,
			Username:           fmt.Sprintf("bench_%d", i),
			Role:               model.RoleUser,
			Active:             true,
			CreditsBalance:     amount,
			TotalCreditsEarned: amount,
			CreatedAt:          base.Add(-time.Duration(i) * time.Second),
		}
		ids[i] = id
		if amount == 0 {
			continue
		}
		key := id
		entries = append(entries, model.LedgerEntry{
			ID:          uuid.NewString(),
			AccountID:   id,
			Amount:      amount,
			Kind:        model.KindBonus,
			Description: "cachebench seed",
			BonusKey:    &key,
			CreatedAt:   accounts[i].CreatedAt,
		})
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&accounts, 500).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(&entries, 500).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

type scenarioResult struct {
	durations   []time.Duration
	hits        int64
	misses      int64
	cacheKeys   int
	memoryBytes int64
}

func runScenario(ctx context.Context, client *redis.Client, profiles service.ProfileService, rc *cache.RedisProfileCache, reqs []string, writeEvery int) scenarioResult {
	client.FlushDB(ctx)

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(reqs))
	for i, id := range reqs {
		if writeEvery > 0 && i%writeEvery == 0 {
			// 模拟领取成功后的提交后失效
			profiles.Invalidate(ctx, id)
		}
		start := time.Now()
		if _, err := profiles.Get(ctx, id); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	res := scenarioResult{durations: out}
	if rc != nil {
		res.hits, res.misses = rc.Counters()
	}
	keys, _ := client.Keys(ctx, "profile:*").Result()
	res.cacheKeys = len(keys)
	if info, err := client.Info(ctx, "memory").Result(); err == nil {
		res.memoryBytes = parseRedisMemory(info)
	}
	return res
}

// parseRedisMemory extracts used_memory from Redis INFO
func parseRedisMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "used_memory:"); ok {
			var n int64
			fmt.Sscan(v, &n)
			return n
		}
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// makeRequests 热点账户（排行榜头部、活跃用户）占大多数读取
func makeRequests(ids []string, n int) []string {
	rnd := rand.New(rand.NewSource(42))
	zipf := rand.NewZipf(rnd, 1.2, 1, uint64(len(ids)-1))
	out := make([]string, n)
	for i := range out {
		out[i] = ids[zipf.Uint64()]
	}
	return out
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func must2[A, B any](a A, b B, err error) (A, B) {
	if err != nil {
		panic(err)
	}
	return a, b
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
