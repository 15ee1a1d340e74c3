package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/idle-syndicate/internal/clock"
)

func TestLoopRunsUntilCancelled(t *testing.T) {
	l := NewLoop(clock.Real{})
	l.Interval = time.Millisecond

	var ticks atomic.Int64
	l.OnTick = func(time.Time) { ticks.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return ticks.Load() >= 5 }, 2*time.Second, time.Millisecond)
	assert.True(t, l.Running())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
	assert.False(t, l.Running())
	assert.GreaterOrEqual(t, l.Ticks(), uint64(5))
}

func TestLoopStopAndPeriodic(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	l := NewLoop(clk)
	l.Interval = time.Millisecond

	var saves atomic.Int64
	l.OnTick = func(time.Time) { clk.Advance(10 * time.Second) }
	l.OnEvery = []Periodic{{Name: "autosave", Every: 30 * time.Second, Fn: func(time.Time) { saves.Add(1) }}}

	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return saves.Load() >= 2 }, 2*time.Second, time.Millisecond)
	l.Stop()
	l.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestZeroLoopStopsBeforeRun(t *testing.T) {
	var l Loop
	assert.NotPanics(t, l.Stop)

	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stopped loop kept running")
	}
	assert.Zero(t, l.Ticks())
}
