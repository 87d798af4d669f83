package timers

import (
	"sync"
	"time"

	"github.com/squawkbot/squawk/telemetry"
)

// Scheduler runs registered timers on one background goroutine. One
// coarse lock guards the entry list across registrations, removals,
// pauses and sweeps; callbacks run synchronously inside the sweep, so
// a slow callback delays every other check by that much.
type Scheduler struct {
	// Interval is the sweep period. Zero means one second.
	Interval time.Duration

	mu       sync.Mutex
	entries  []*entry
	nextCode int
	active   bool
	running  bool
	done     chan struct{}
}

type entry struct {
	timer    *Timer
	callback func(arg any)
	arg      any
	code     int
	paused   bool
}

// New returns a scheduler ready for registrations. Nothing fires
// until Start.
func New() *Scheduler {
	return &Scheduler{Interval: time.Second}
}

// AddFixed registers fn to run every delay units (or once after
// delay, when loop is false) and returns the entry's code. Codes are
// never reused.
func (s *Scheduler) AddFixed(unit Unit, delay int, loop bool, fn func(arg any), arg any) (int, error) {
	t, err := newFixed(unit, delay, loop)
	if err != nil {
		return 0, err
	}
	return s.add(t, fn, arg), nil
}

// AddRandom registers fn with a delay drawn from [lo,hi] units,
// redrawn on every firing when loop is true.
func (s *Scheduler) AddRandom(unit Unit, lo, hi int, loop bool, fn func(arg any), arg any) (int, error) {
	t, err := newRandom(unit, lo, hi, loop)
	if err != nil {
		return 0, err
	}
	return s.add(t, fn, arg), nil
}

func (s *Scheduler) add(t *Timer, fn func(arg any), arg any) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := s.nextCode
	s.nextCode++
	s.entries = append(s.entries, &entry{timer: t, callback: fn, arg: arg, code: code})
	telemetry.SetTimerEntries(len(s.entries))
	return code
}

// Remove marks the entry inactive; the next sweep drops it. Removing
// an unknown code is a no-op.
func (s *Scheduler) Remove(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.code == code {
			e.timer.active = false
		}
	}
}

// Pause suppresses the entry's callback. The timer itself is not
// checked while paused, so an instant that passes in the meantime is
// not consumed: the entry fires on the first sweep after Resume.
func (s *Scheduler) Pause(code int) {
	s.setPaused(code, true)
}

// Resume re-enables the entry's callback.
func (s *Scheduler) Resume(code int) {
	s.setPaused(code, false)
}

func (s *Scheduler) setPaused(code int, paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.code == code {
			e.paused = paused
		}
	}
}

// Exists reports whether an entry is still registered.
func (s *Scheduler) Exists(code int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.code == code {
			return true
		}
	}
	return false
}

// Start launches the sweep loop. Starting a running scheduler is a
// no-op; a stopped scheduler cannot be restarted.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	if s.Interval <= 0 {
		s.Interval = time.Second
	}
	s.running = true
	s.active = true
	s.done = make(chan struct{})
	go s.loop()
}

// PauseAll keeps the loop sweeping but skips every callback.
func (s *Scheduler) PauseAll() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// ResumeAll re-enables callbacks.
func (s *Scheduler) ResumeAll() {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
}

// Active reports whether callbacks are globally enabled.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Running reports whether the sweep loop is alive.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop ends the loop and returns once it has exited, bounded by one
// sweep interval plus whatever callback is in flight.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	done := s.done
	s.mu.Unlock()
	<-done
}

func (s *Scheduler) loop() {
	defer close(s.done)
	for {
		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			return
		}
		s.sweep(time.Now())
		s.mu.Unlock()
		time.Sleep(s.Interval)
	}
}

// sweep runs one pass under the lock: fire due unpaused entries, then
// drop the ones that went inactive.
func (s *Scheduler) sweep(now time.Time) {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if s.active && !e.paused && e.timer.check(now) {
			e.callback(e.arg)
			telemetry.TimerFired()
		}
		if e.timer.active {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = nil
	}
	s.entries = kept
	telemetry.SetTimerEntries(len(s.entries))
}
