package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealClockNow(t *testing.T) {
	clk := Real{}
	require.False(t, clk.Now().IsZero(), "expected non-zero time")
}

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewFake(start)
	require.True(t, clk.Now().Equal(start))

	clk.Advance(1500 * time.Millisecond)
	assert.True(t, clk.Now().Equal(start.Add(1500*time.Millisecond)))

	later := start.Add(8 * time.Hour)
	clk.Set(later)
	assert.True(t, clk.Now().Equal(later))
}
