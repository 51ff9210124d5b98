package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Defaults: the debounce window coalesces slider drags without feeling
// laggy; the frame interval approximates a 60 Hz display refresh.
const (
	DefaultDebounce      = 100 * time.Millisecond
	DefaultFrameInterval = time.Second / 60
)

// Logger matches the engine's logging surface; nil is allowed.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Scheduler drives the engine's two timers: a debounce timer that collapses
// bursts of configuration changes into one commit, and an animation loop that
// runs only while at least one animated property is active.
//
// Commit applies the latest configuration as new spring targets. Tick
// advances the springs by dt and renders one frame, returning true while any
// property remains unsettled; when it returns false the loop stops and stays
// idle until the next debounce fires.
type Scheduler struct {
	Commit func()
	Tick   func(dt float64) bool
	Logger Logger

	Debounce      time.Duration
	FrameInterval time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	loopRunning bool
	closed      bool

	// gen counts commits. The loop records it before each tick and retires
	// only if no commit landed since the tick that reported settled,
	// otherwise a commit racing the shutdown would be left unanimated.
	gen uint64

	// rendering suppresses overlapping frame renders; the newest
	// configuration still wins because every tick re-reads current state.
	rendering atomic.Bool

	updates chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
}

func New(commit func(), tick func(dt float64) bool) *Scheduler {
	return &Scheduler{
		Commit:        commit,
		Tick:          tick,
		Debounce:      DefaultDebounce,
		FrameInterval: DefaultFrameInterval,
		updates:       make(chan struct{}, 1),
		stop:          make(chan struct{}),
	}
}

// Updates delivers one signal per committed configuration change (not per
// animation tick), so surrounding code can react without polling.
func (s *Scheduler) Updates() <-chan struct{} { return s.updates }

// Invalidate notes a configuration change and (re)arms the debounce timer.
// Safe to call from any goroutine, any number of times.
func (s *Scheduler) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.Debounce, s.fire)
}

// Flush commits immediately, bypassing the debounce window, and runs one
// frame synchronously. Used by the render-now operation.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.fire()
}

func (s *Scheduler) fire() {
	if s.Commit != nil {
		s.Commit()
	}
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
	select {
	case s.updates <- struct{}{}:
	default:
	}
	s.renderOnce(0)
	s.ensureLoop()
}

// renderOnce runs a single guarded tick and reports whether animation
// remains active.
func (s *Scheduler) renderOnce(dt float64) bool {
	if s.Tick == nil {
		return false
	}
	if !s.rendering.CompareAndSwap(false, true) {
		// A frame is already in flight; this request is superseded by the
		// next tick, which re-reads current state anyway.
		return true
	}
	defer s.rendering.Store(false)
	return s.Tick(dt)
}

// ensureLoop starts the animation loop if it is not already running. The
// loop self-terminates once every property settles.
func (s *Scheduler) ensureLoop() {
	s.mu.Lock()
	if s.closed || s.loopRunning {
		s.mu.Unlock()
		return
	}
	s.loopRunning = true
	s.mu.Unlock()

	s.infof("scheduler", "animation loop started")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.FrameInterval)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-s.stop:
				s.setLoopStopped()
				return
			case now := <-ticker.C:
				s.mu.Lock()
				seen := s.gen
				s.mu.Unlock()
				dt := now.Sub(last).Seconds()
				last = now
				if !s.renderOnce(dt) && s.stopIfIdle(seen) {
					return
				}
			}
		}
	}()
}

// stopIfIdle retires the loop unless a commit arrived after the tick that
// reported settled; in that case the loop keeps running so the new targets
// get animated.
func (s *Scheduler) stopIfIdle(seen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != seen {
		return false
	}
	s.loopRunning = false
	s.infof("scheduler", "animation settled, loop stopped")
	return true
}

func (s *Scheduler) setLoopStopped() {
	s.mu.Lock()
	s.loopRunning = false
	s.mu.Unlock()
}

func (s *Scheduler) infof(component, format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Infof(component, format, args...)
	}
}

// Close stops the timers and waits for the loop to exit.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	close(s.stop)
	s.wg.Wait()
}
