// Package verifier 客户端本地的领取节流门：打开外部帖子后等待一段随机时间，
// 并观察页面可见性是否发生变化，再放行领取请求。
//
// 这只是尽力而为的节流，不是安全边界：绕过它并不会破坏账本，
// 领取的正确性完全由服务端事务与唯一约束保证。
package verifier

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/boost-ledger/pkg/logger"
)

// Mode 两种交互变体
type Mode int

const (
	// Legacy idle -> counting -> ready|idle，ready 后由用户显式领取
	Legacy Mode = iota
	// Retryable idle -> verifying -> idle，校验通过后自动领取，失败停在 failed 可重试
	Retryable
)

// State 门的状态
type State int

const (
	Idle State = iota
	Counting
	Ready
	Verifying
	Failed
)

func (s State) String() string {
	switch s {
	case Counting:
		return "counting"
	case Ready:
		return "ready"
	case Verifying:
		return "verifying"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

var (
	ErrBusy         = errors.New("verification already in progress")
	ErrNotReady     = errors.New("claim not ready yet")
	ErrNoClaimFunc  = errors.New("claim function required")
	ErrNotConfirmed = errors.New("could not confirm engagement, please try again")
)

// ClaimFunc 实际发起领取请求
type ClaimFunc func(ctx context.Context) error

// Timer 可停止的定时器
type Timer interface {
	Stop() bool
}

// AfterFunc 定时器工厂，测试可替换为手动触发的实现
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Options 门的参数
type Options struct {
	Mode     Mode
	MinDelay time.Duration
	MaxDelay time.Duration
	// RequireVisibilityChange 为 true 时延迟期间必须观察到页面被切走过
	RequireVisibilityChange bool
	Rand                    *rand.Rand
	AfterFunc               AfterFunc
	// OnChange 每次状态变化后在锁外回调
	OnChange func(State)
}

// DefaultOptions 5–15 秒随机延迟，要求可见性变化
func DefaultOptions(mode Mode) Options {
	return Options{
		Mode:                    mode,
		MinDelay:                5 * time.Second,
		MaxDelay:                15 * time.Second,
		RequireVisibilityChange: true,
	}
}

// Gate 单个帖子的领取门；定时器在独立 goroutine 触发，因此用互斥锁保护
type Gate struct {
	mu      sync.Mutex
	opts    Options
	state   State
	left    bool
	gen     uint64
	timer   Timer
	ctx     context.Context
	claim   ClaimFunc
	lastErr error
}

func NewGate(opts Options) *Gate {
	if opts.MinDelay < 0 {
		opts.MinDelay = 0
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	return &Gate{opts: opts}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err 最近一次失败原因（校验未通过或领取调用出错）
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

func (g *Gate) delay() time.Duration {
	span := int64(g.opts.MaxDelay - g.opts.MinDelay)
	if span <= 0 {
		return g.opts.MinDelay
	}
	return g.opts.MinDelay + time.Duration(g.opts.Rand.Int63n(span+1))
}

// Open 用户打开外部帖子时调用，开始随机延迟
func (g *Gate) Open(ctx context.Context, fn ClaimFunc) error {
	if fn == nil {
		return ErrNoClaimFunc
	}
	g.mu.Lock()
	if g.state != Idle && g.state != Failed {
		g.mu.Unlock()
		return ErrBusy
	}
	next := Counting
	if g.opts.Mode == Retryable {
		next = Verifying
	}
	g.gen++
	gen := g.gen
	g.state = next
	g.left = false
	g.lastErr = nil
	g.ctx = ctx
	g.claim = fn
	d := g.delay()
	g.timer = g.opts.AfterFunc(d, func() { g.elapse(gen) })
	g.mu.Unlock()

	logger.Debug("claim gate opened", zap.Stringer("state", next), zap.Duration("delay", d))
	g.notify(next)
	return nil
}

// Hidden 页面转入后台
func (g *Gate) Hidden() {
	g.mu.Lock()
	if g.state == Counting || g.state == Verifying {
		g.left = true
	}
	g.mu.Unlock()
}

// Visible 页面回到前台；可见性变化已由 Hidden 记录
func (g *Gate) Visible() {}

// Cancel 放弃等待中的延迟，不会产生任何服务端状态
func (g *Gate) Cancel() {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.gen++
	changed := g.state != Idle
	g.state = Idle
	g.claim = nil
	g.ctx = nil
	g.mu.Unlock()
	if changed {
		g.notify(Idle)
	}
}

func (g *Gate) confirmed() bool {
	return !g.opts.RequireVisibilityChange || g.left
}

func (g *Gate) elapse(gen uint64) {
	g.mu.Lock()
	if gen != g.gen {
		// 已取消或重新打开
		g.mu.Unlock()
		return
	}
	g.timer = nil
	ok := g.confirmed()

	if g.opts.Mode == Legacy {
		next := Idle
		if ok {
			next = Ready
		} else {
			g.lastErr = ErrNotConfirmed
		}
		g.state = next
		g.mu.Unlock()
		g.notify(next)
		return
	}

	if !ok {
		g.state = Failed
		g.lastErr = ErrNotConfirmed
		g.mu.Unlock()
		g.notify(Failed)
		return
	}
	ctx, fn := g.ctx, g.claim
	g.mu.Unlock()

	err := fn(ctx)
	g.settle(gen, err)
}

// Claim 仅 Legacy 模式：ready 状态下发起领取，之后回到 idle
func (g *Gate) Claim() error {
	g.mu.Lock()
	if g.opts.Mode != Legacy || g.state != Ready || g.claim == nil {
		g.mu.Unlock()
		return ErrNotReady
	}
	// 取走回调，重复点击不会发出第二次请求
	ctx, fn := g.ctx, g.claim
	g.claim = nil
	g.gen++
	gen := g.gen
	g.mu.Unlock()

	err := fn(ctx)
	g.settle(gen, err)
	return err
}

func (g *Gate) settle(gen uint64, err error) {
	g.mu.Lock()
	if gen != g.gen {
		g.mu.Unlock()
		return
	}
	next := Idle
	if err != nil && g.opts.Mode == Retryable {
		next = Failed
	}
	g.state = next
	g.lastErr = err
	g.claim = nil
	g.ctx = nil
	g.mu.Unlock()
	g.notify(next)
}

func (g *Gate) notify(s State) {
	if g.opts.OnChange != nil {
		g.opts.OnChange(s)
	}
}
