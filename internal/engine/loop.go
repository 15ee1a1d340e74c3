package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talgya/idle-syndicate/internal/clock"
)

// Loop drives the simulation forward on a fixed cadence. It is the only
// place logical time advances during live play.
type Loop struct {
	Interval time.Duration // default TickInterval
	Clock    clock.Clock

	// Callbacks, populated during setup.
	OnTick  func(now time.Time) // every tick
	OnEvery []Periodic          // slower schedules (autosave, market refresh)

	running  atomic.Bool
	initOnce sync.Once
	stop     chan struct{}
	stopOnce sync.Once
	ticks    atomic.Uint64
}

// Periodic runs Fn roughly every Every, aligned to loop ticks.
type Periodic struct {
	Name  string
	Every time.Duration
	Fn    func(now time.Time)

	last time.Time
}

// NewLoop creates a loop at the default cadence. A zero Loop also works:
// it ticks at TickInterval on the real clock.
func NewLoop(clk clock.Clock) *Loop {
	return &Loop{
		Interval: TickInterval,
		Clock:    clk,
		stop:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled or Stop is called. Cancelling abandons
// the loop; nothing is flushed here.
func (l *Loop) Run(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	defer l.running.Store(false)

	interval := l.Interval
	if interval <= 0 {
		interval = TickInterval
	}
	if l.Clock == nil {
		l.Clock = clock.Real{}
	}
	stop := l.stopChan()

	start := l.Clock.Now()
	for i := range l.OnEvery {
		l.OnEvery[i].last = start
	}

	slog.Info("simulation loop started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopped", "ticks", l.ticks.Load(), "reason", ctx.Err())
			return
		case <-stop:
			slog.Info("simulation loop stopped", "ticks", l.ticks.Load())
			return
		case <-ticker.C:
			l.step(l.Clock.Now())
		}
	}
}

func (l *Loop) step(now time.Time) {
	l.ticks.Add(1)

	if l.OnTick != nil {
		l.OnTick(now)
	}

	for i := range l.OnEvery {
		p := &l.OnEvery[i]
		if p.Every > 0 && now.Sub(p.last) >= p.Every {
			p.last = now
			p.Fn(now)
		}
	}
}

// Stop halts the loop. Safe to call more than once, and before Run.
func (l *Loop) Stop() {
	stop := l.stopChan()
	l.stopOnce.Do(func() { close(stop) })
}

func (l *Loop) stopChan() chan struct{} {
	l.initOnce.Do(func() {
		if l.stop == nil {
			l.stop = make(chan struct{})
		}
	})
	return l.stop
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Ticks returns how many ticks have run.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}
