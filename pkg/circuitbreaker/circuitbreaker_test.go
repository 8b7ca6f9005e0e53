package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("redis: connection refused")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(cfg Config) (*CircuitBreaker, *clock) {
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("book-cache", cfg)
	cb.now = clk.now
	cb.resetWindow(clk.now())
	return cb, clk
}

func fail() error { return errDown }
func ok() error   { return nil }

func TestCircuitBreaker_Closed(t *testing.T) {
	cb, _ := newTestBreaker(Config{Timeout: time.Minute})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(ok))
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)

	// 失败未达到默认阈值,且中间的成功会清零连续失败
	for i := 0; i < DefaultFailureThreshold-1; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errDown)
	}
	require.NoError(t, cb.Execute(ok))
	assert.ErrorIs(t, cb.Execute(fail), errDown)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_TripAndRecover(t *testing.T) {
	var transitions []string
	cb, clk := newTestBreaker(Config{
		Timeout: 30 * time.Second,
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	for i := 0; i < DefaultFailureThreshold; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断中不执行请求")

	clk.advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailure(t *testing.T) {
	cb, clk := newTestBreaker(Config{
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 2 },
	})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	require.Equal(t, StateOpen, cb.State())

	clk.advance(11 * time.Second)
	assert.ErrorIs(t, cb.Execute(fail), errDown)
	assert.Equal(t, StateOpen, cb.State(), "半开状态下失败立即重新熔断")
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	cb, clk := newTestBreaker(Config{
		Timeout:     time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})
	_ = cb.Execute(fail)
	clk.advance(2 * time.Second)

	// 第一个探测请求执行中时,第二个请求被拒绝
	err := cb.Execute(func() error {
		assert.ErrorIs(t, cb.Execute(ok), ErrOpenState)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_IntervalResetsCounts(t *testing.T) {
	cb, clk := newTestBreaker(Config{
		Interval: 10 * time.Second,
		Timeout:  time.Minute,
	})

	for i := 0; i < DefaultFailureThreshold-1; i++ {
		_ = cb.Execute(fail)
	}
	clk.advance(11 * time.Second)
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State(), "窗口过期后重新计数")
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCounts_FailureRate(t *testing.T) {
	assert.Zero(t, Counts{}.FailureRate())
	assert.InDelta(t, 0.25, Counts{Requests: 4, TotalFailures: 1}.FailureRate(), 1e-9)
}
