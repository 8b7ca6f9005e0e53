// Package circuitbreaker 熔断器
//
// 用于保护可降级的外部依赖(目前是Redis详情缓存):连续失败达到阈值后熔断,
// 熔断期间调用直接返回ErrOpenState,调用方走降级路径(直接读库);
// Timeout之后进入半开状态,放行少量探测请求,成功则恢复。
//
//	CLOSED --失败达到阈值--> OPEN --Timeout--> HALF_OPEN --成功--> CLOSED
//	                                               |
//	                                               +--失败--> OPEN
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String 状态名(日志与指标标签)
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpenState 熔断中,请求未执行
var ErrOpenState = errors.New("circuit breaker is open")

// DefaultFailureThreshold 未指定ReadyToTrip时的连续失败阈值
const DefaultFailureThreshold = 5

// Config 熔断器配置
type Config struct {
	MaxRequests uint32        // 半开状态允许的探测请求数,0按1处理
	Interval    time.Duration // 关闭状态下统计窗口,<=0表示不按时间重置
	Timeout     time.Duration // 熔断持续时间

	// ReadyToTrip 关闭状态下每次失败后调用,返回true则熔断
	ReadyToTrip func(counts Counts) bool

	// OnStateChange 状态变化回调(在锁内调用,不要在回调里使用熔断器)
	OnStateChange func(name string, from, to State)
}

// Counts 当前统计窗口内的计数
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率,没有请求时为0
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// CircuitBreaker 熔断器,可并发使用
type CircuitBreaker struct {
	name   string
	cfg    Config
	now    func() time.Time
	mu     sync.Mutex
	state  State
	gen    uint64 // 每次状态切换递增,丢弃跨状态返回的结果
	counts Counts
	expiry time.Time
}

// New 创建熔断器
func New(name string, cfg Config) *CircuitBreaker {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = func(c Counts) bool {
			return c.ConsecutiveFailures >= DefaultFailureThreshold
		}
	}
	cb := &CircuitBreaker{name: name, cfg: cfg, now: time.Now}
	cb.resetWindow(cb.now())
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute 在熔断器保护下执行fn;熔断中返回ErrOpenState且不调用fn
func (cb *CircuitBreaker) Execute(fn func() error) error {
	gen, err := cb.before()
	if err != nil {
		return err
	}
	err = fn()
	cb.after(gen, err == nil)
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	state, _ := cb.current(cb.now())
	return state
}

// Counts 当前统计窗口的计数
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, gen := cb.current(cb.now())
	switch {
	case state == StateOpen:
		return gen, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.cfg.MaxRequests:
		return gen, ErrOpenState
	}
	cb.counts.Requests++
	return gen, nil
}

func (cb *CircuitBreaker) after(before uint64, ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, gen := cb.current(now)
	if gen != before {
		return
	}

	if ok {
		cb.counts.success()
		if state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.cfg.MaxRequests {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.failure()
	switch state {
	case StateClosed:
		if cb.cfg.ReadyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

// current 处理到期:关闭状态重置统计窗口,熔断状态超时转为半开
func (cb *CircuitBreaker) current(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.resetWindow(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.gen
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}
	prev := cb.state
	cb.state = state
	cb.gen++

	switch state {
	case StateClosed:
		cb.resetWindow(now)
	case StateOpen:
		cb.counts = Counts{}
		cb.expiry = now.Add(cb.cfg.Timeout)
	case StateHalfOpen:
		cb.counts = Counts{}
		cb.expiry = time.Time{}
	}

	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) resetWindow(now time.Time) {
	cb.counts = Counts{}
	if cb.cfg.Interval > 0 {
		cb.expiry = now.Add(cb.cfg.Interval)
	} else {
		cb.expiry = time.Time{}
	}
}
