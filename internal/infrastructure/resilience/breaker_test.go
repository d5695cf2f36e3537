package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(settings Settings) (*Breaker, *clock) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	b := New("test", settings)
	b.now = c.now
	b.expiry = c.now().Add(b.settings.Window)
	return b, c
}

func call(b *Breaker, ok bool) error {
	_, err := Do(b, func() (string, error) {
		if ok {
			return "ok", nil
		}
		return "", errBoom
	})
	return err
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name     string
		requests []bool
		expected State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"stays closed below threshold", []bool{false, false, true, false}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(Settings{})
			for _, ok := range tt.requests {
				_ = call(b, ok)
			}
			assert.Equal(t, tt.expected, b.State())
		})
	}
}

func TestDoReturnsValue(t *testing.T) {
	b, _ := newTestBreaker(Settings{})

	n, err := Do(b, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = Do(b, func() (int, error) { return 7, errBoom })
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 7, n)
}

func TestBreakerCounts(t *testing.T) {
	b, _ := newTestBreaker(Settings{})

	require.NoError(t, call(b, true))
	counts := b.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)

	assert.ErrorIs(t, call(b, false), errBoom)
	counts = b.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveSuccesses)
}

func TestBreakerWindowResetsCounts(t *testing.T) {
	b, c := newTestBreaker(Settings{Window: time.Minute})

	_ = call(b, false)
	_ = call(b, false)
	c.advance(2 * time.Minute)
	_ = call(b, false)

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(1), b.Counts().ConsecutiveFailures)
}

func TestBreakerOpenRejects(t *testing.T) {
	b, _ := newTestBreaker(Settings{
		Trip: func(c Counts) bool { return c.ConsecutiveFailures >= 2 },
	})

	_ = call(b, false)
	_ = call(b, false)
	require.Equal(t, StateOpen, b.State())

	ran := false
	_, err := Do(b, func() (struct{}, error) {
		ran = true
		return struct{}{}, nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, ran)
}

func TestBreakerHalfOpen(t *testing.T) {
	b, c := newTestBreaker(Settings{Probes: 2, Cooldown: time.Second})

	for i := 0; i < 3; i++ {
		_ = call(b, false)
	}
	require.Equal(t, StateOpen, b.State())

	c.advance(2 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, call(b, true))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, call(b, true))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b, c := newTestBreaker(Settings{Cooldown: time.Second})

	for i := 0; i < 3; i++ {
		_ = call(b, false)
	}
	c.advance(2 * time.Second)
	require.Equal(t, StateHalfOpen, b.State())

	assert.ErrorIs(t, call(b, false), errBoom)
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, call(b, true), ErrCircuitOpen)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b, _ := newTestBreaker(Settings{})

	assert.Panics(t, func() {
		_, _ = Do(b, func() (int, error) { panic("sampler exploded") })
	})
	assert.Equal(t, uint32(1), b.Counts().TotalFailures)
}

func TestBreakerCallbacks(t *testing.T) {
	var transitions []string
	b, c := newTestBreaker(Settings{
		Cooldown: time.Second,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	for i := 0; i < 3; i++ {
		_ = call(b, false)
	}
	c.advance(2 * time.Second)
	require.NoError(t, call(b, true))

	assert.Equal(t, []string{
		"test:closed->open",
		"test:open->half-open",
		"test:half-open->closed",
	}, transitions)
}
