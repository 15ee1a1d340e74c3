package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/idle-syndicate/internal/resources"
)

func TestOfflineElapsedIsCapped(t *testing.T) {
	s := NewState(ms(0))
	p := CalculateOfflineProgress(ms(0), ms(0).Add(24*time.Hour), s, nil)
	assert.Equal(t, 8*time.Hour, p.Elapsed)
	assert.Equal(t, MaxOffline, p.Elapsed)
}

func TestOfflineNegativeGapIsZero(t *testing.T) {
	p := CalculateOfflineProgress(ms(5000), ms(1000), NewState(ms(0)), nil)
	assert.Zero(t, p.Elapsed)
	assert.Zero(t, p.CompletedCycles)
}

func TestOfflineCountsCycles(t *testing.T) {
	s := NewState(ms(0))
	s = AddTimer(s, "a", time.Second, ms(0))
	s = AddTimer(s, "b", 3*time.Second, ms(0))
	s = AddTimer(s, "degenerate", 0, ms(0))

	p := CalculateOfflineProgress(ms(0), ms(10_500), s, nil)
	assert.Equal(t, 10500*time.Millisecond, p.Elapsed)
	assert.Equal(t, 10+3, p.CompletedCycles)
	assert.Empty(t, p.Earnings)
}

func TestOfflineUsesPauseInstant(t *testing.T) {
	s := NewState(ms(0))
	s = AddTimer(s, "a", time.Second, ms(0))
	s = Pause(s, ms(4000))

	p := CalculateOfflineProgress(ms(0), ms(100_000), s, nil)
	assert.Equal(t, 4*time.Second, p.Elapsed)
	assert.Equal(t, 4, p.CompletedCycles)
}

func TestOfflineEarningsAreDiscounted(t *testing.T) {
	s := NewState(ms(0))
	s = AddTimer(s, "money", time.Second, ms(0))
	s = AddTimer(s, "crypto", time.Second, ms(0))
	s = AddTimer(s, "unknown", time.Second, ms(0))

	rate := func(id string) (resources.Kind, float64, bool) {
		switch id {
		case "money":
			return resources.Money, 15, true
		case "crypto":
			return resources.Crypto, 0.25, true
		}
		return "", 0, false
	}

	p := CalculateOfflineProgress(ms(0), ms(3000), s, rate)
	require.Equal(t, 9, p.CompletedCycles)
	// 3 cycles × 15 × 0.5 = 22.5, floored for an integer resource.
	assert.Equal(t, 22.0, p.Earnings[resources.Money])
	// 3 × 0.25 × 0.5 stays fractional.
	assert.InDelta(t, 0.375, p.Earnings[resources.Crypto], 1e-9)
	assert.Len(t, p.Earnings, 2)
}
