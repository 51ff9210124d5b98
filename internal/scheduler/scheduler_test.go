package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceCoalescesBursts(t *testing.T) {
	var commits atomic.Int64
	s := New(func() { commits.Add(1) }, func(dt float64) bool { return false })
	s.Debounce = 20 * time.Millisecond
	defer s.Close()

	// A burst of rapid changes collapses into a single commit.
	for i := 0; i < 10; i++ {
		s.Invalidate()
		time.Sleep(time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	if got := commits.Load(); got != 1 {
		t.Errorf("commits = %d, want 1", got)
	}

	// A later change commits again.
	s.Invalidate()
	time.Sleep(100 * time.Millisecond)
	if got := commits.Load(); got != 2 {
		t.Errorf("commits = %d, want 2", got)
	}
}

func TestUpdatesSignalPerCommit(t *testing.T) {
	s := New(func() {}, func(dt float64) bool { return false })
	s.Debounce = 10 * time.Millisecond
	defer s.Close()

	s.Invalidate()
	select {
	case <-s.Updates():
	case <-time.After(time.Second):
		t.Fatal("no update signal after debounce")
	}

	// Exactly one signal is pending per commit, not one per tick.
	select {
	case <-s.Updates():
		t.Error("unexpected second update signal")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoopSelfTerminates(t *testing.T) {
	var ticks atomic.Int64
	remaining := atomic.Int64{}
	remaining.Store(5)
	s := New(func() {}, func(dt float64) bool {
		ticks.Add(1)
		return remaining.Add(-1) > 0
	})
	s.Debounce = 5 * time.Millisecond
	s.FrameInterval = 5 * time.Millisecond
	defer s.Close()

	s.Invalidate()
	time.Sleep(200 * time.Millisecond)

	settled := ticks.Load()
	if settled < 5 {
		t.Fatalf("ticks = %d, want at least 5", settled)
	}
	// The loop stopped once the animation settled; no further ticks arrive.
	time.Sleep(100 * time.Millisecond)
	if got := ticks.Load(); got != settled {
		t.Errorf("ticks kept arriving after settle: %d -> %d", settled, got)
	}
}

func TestLoopRestartsAfterNextCommit(t *testing.T) {
	var ticks atomic.Int64
	s := New(func() {}, func(dt float64) bool {
		ticks.Add(1)
		return false
	})
	s.Debounce = 5 * time.Millisecond
	s.FrameInterval = 5 * time.Millisecond
	defer s.Close()

	s.Invalidate()
	time.Sleep(50 * time.Millisecond)
	first := ticks.Load()
	if first == 0 {
		t.Fatal("no tick after first commit")
	}

	s.Invalidate()
	time.Sleep(50 * time.Millisecond)
	if got := ticks.Load(); got <= first {
		t.Errorf("ticks = %d after second commit, want > %d", got, first)
	}
}

func TestCommitRacingSettleKeepsLoopAlive(t *testing.T) {
	// Interleaving under test: a tick reports settled, a commit lands before
	// the loop retires itself. The loop must keep running, because ensureLoop
	// has already seen it as running and will not start a replacement.
	s := New(func() {}, func(dt float64) bool { return false })
	defer s.Close()

	s.mu.Lock()
	s.loopRunning = true
	seen := s.gen
	s.gen++ // the racing commit
	s.mu.Unlock()

	if s.stopIfIdle(seen) {
		t.Fatal("loop retired despite a commit after the settled tick")
	}
	s.mu.Lock()
	running := s.loopRunning
	s.mu.Unlock()
	if !running {
		t.Fatal("loop no longer marked running")
	}

	// With no intervening commit the loop retires normally.
	s.mu.Lock()
	seen = s.gen
	s.mu.Unlock()
	if !s.stopIfIdle(seen) {
		t.Fatal("loop must retire once settled with no newer commit")
	}
	s.mu.Lock()
	running = s.loopRunning
	s.mu.Unlock()
	if running {
		t.Fatal("loop still marked running after retiring")
	}
}

func TestFlushBypassesDebounce(t *testing.T) {
	var commits atomic.Int64
	s := New(func() { commits.Add(1) }, func(dt float64) bool { return false })
	s.Debounce = time.Hour
	defer s.Close()

	s.Invalidate() // armed far in the future
	s.Flush()
	if got := commits.Load(); got != 1 {
		t.Errorf("commits = %d immediately after Flush, want 1", got)
	}
}

func TestCloseStopsTimers(t *testing.T) {
	var commits atomic.Int64
	s := New(func() { commits.Add(1) }, func(dt float64) bool { return true })
	s.Debounce = 10 * time.Millisecond
	s.FrameInterval = 5 * time.Millisecond

	s.Invalidate()
	time.Sleep(50 * time.Millisecond)
	s.Close()
	after := commits.Load()

	s.Invalidate()
	time.Sleep(50 * time.Millisecond)
	if got := commits.Load(); got != after {
		t.Errorf("commit after Close: %d -> %d", after, got)
	}
}
