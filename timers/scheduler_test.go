package timers

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// sweepAt runs one sweep with a synthetic clock, keeping firing tests
// independent of real time.
func sweepAt(s *Scheduler, at time.Time) {
	s.mu.Lock()
	s.sweep(at)
	s.mu.Unlock()
}

func newActive() *Scheduler {
	s := New()
	s.active = true
	return s
}

func TestAddAssignsDistinctCodes(t *testing.T) {
	s := New()

	seen := make(map[int]bool)
	for i := 0; i < 5; i++ {
		code, err := s.AddFixed(Seconds, 10, true, func(any) {}, nil)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if seen[code] {
			t.Fatalf("code %d assigned twice", code)
		}
		seen[code] = true
		if !s.Exists(code) {
			t.Errorf("expected code %d to exist", code)
		}
	}
}

func TestAddValidationErrors(t *testing.T) {
	s := New()

	if _, err := s.AddFixed(Seconds, 0, true, func(any) {}, nil); err == nil {
		t.Error("expected an error for a zero delay")
	}
	if _, err := s.AddRandom(Seconds, 3, 1, true, func(any) {}, nil); err == nil {
		t.Error("expected an error for inverted bounds")
	}
	if len(s.entries) != 0 {
		t.Errorf("expected no entries after failed adds, got %d", len(s.entries))
	}
}

func TestSweepFiresOneShotAndDrops(t *testing.T) {
	s := newActive()

	var got any
	fired := 0
	code, err := s.AddFixed(Seconds, 5, false, func(arg any) {
		fired++
		got = arg
	}, "payload")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	now := time.Now()
	sweepAt(s, now.Add(time.Second))
	if fired != 0 {
		t.Fatal("timer fired before its delay elapsed")
	}

	sweepAt(s, now.Add(6*time.Second))
	if fired != 1 {
		t.Fatalf("expected one firing, got %d", fired)
	}
	if got != "payload" {
		t.Errorf("expected the argument passed through, got %v", got)
	}
	if s.Exists(code) {
		t.Error("expected the one-shot entry to be swept after firing")
	}

	sweepAt(s, now.Add(time.Hour))
	if fired != 1 {
		t.Errorf("one-shot fired again, total %d", fired)
	}
}

func TestSweepLoopRearms(t *testing.T) {
	s := newActive()

	fired := 0
	code, err := s.AddFixed(Seconds, 10, true, func(any) { fired++ }, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	now := time.Now()
	sweepAt(s, now.Add(11*time.Second))
	if fired != 1 {
		t.Fatalf("expected one firing, got %d", fired)
	}
	if !s.Exists(code) {
		t.Fatal("looping entry dropped after firing")
	}

	// Rearmed relative to the firing sweep.
	sweepAt(s, now.Add(19*time.Second))
	if fired != 1 {
		t.Fatalf("fired before the rearmed delay, total %d", fired)
	}
	sweepAt(s, now.Add(22*time.Second))
	if fired != 2 {
		t.Fatalf("expected two firings, got %d", fired)
	}
}

func TestRemoveStopsOnlyTarget(t *testing.T) {
	s := newActive()

	var aFired, bFired int
	a, _ := s.AddFixed(Seconds, 5, true, func(any) { aFired++ }, nil)
	b, _ := s.AddFixed(Seconds, 5, true, func(any) { bFired++ }, nil)

	s.Remove(a)
	sweepAt(s, time.Now().Add(6*time.Second))

	if aFired != 0 {
		t.Errorf("removed entry fired %d times", aFired)
	}
	if bFired != 1 {
		t.Errorf("expected the other entry to fire once, got %d", bFired)
	}
	if s.Exists(a) {
		t.Error("expected the removed entry to be swept")
	}
	if !s.Exists(b) {
		t.Error("expected the other entry to remain")
	}
}

func TestPauseHoldsFiringUntilResume(t *testing.T) {
	s := newActive()

	fired := 0
	code, err := s.AddFixed(Seconds, 10, true, func(any) { fired++ }, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	now := time.Now()
	s.Pause(code)
	sweepAt(s, now.Add(11*time.Second))
	sweepAt(s, now.Add(25*time.Second))
	if fired != 0 {
		t.Fatalf("paused entry fired %d times", fired)
	}

	// The instant passed while paused, so the first sweep after
	// Resume fires.
	s.Resume(code)
	sweepAt(s, now.Add(26*time.Second))
	if fired != 1 {
		t.Fatalf("expected an immediate firing after resume, got %d", fired)
	}
}

func TestPauseAllSkipsCallbacks(t *testing.T) {
	s := newActive()

	fired := 0
	if _, err := s.AddFixed(Seconds, 5, true, func(any) { fired++ }, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	now := time.Now()
	s.PauseAll()
	if s.Active() {
		t.Error("expected the scheduler to report inactive")
	}
	sweepAt(s, now.Add(6*time.Second))
	if fired != 0 {
		t.Fatalf("entry fired %d times while all paused", fired)
	}

	s.ResumeAll()
	sweepAt(s, now.Add(7*time.Second))
	if fired != 1 {
		t.Fatalf("expected one firing after resume, got %d", fired)
	}
}

func TestCodesNeverReused(t *testing.T) {
	s := newActive()

	first, _ := s.AddFixed(Seconds, 1, false, func(any) {}, nil)
	s.Remove(first)
	sweepAt(s, time.Now().Add(time.Hour))
	if s.Exists(first) {
		t.Fatal("expected the removed entry to be gone")
	}

	second, _ := s.AddFixed(Seconds, 1, false, func(any) {}, nil)
	if second == first {
		t.Errorf("code %d reused", first)
	}
}

func TestStartStop(t *testing.T) {
	s := New()
	s.Interval = 5 * time.Millisecond

	s.Start()
	if !s.Running() {
		t.Fatal("expected the loop to be running")
	}
	s.Start() // no-op on a running scheduler

	s.Stop()
	if s.Running() {
		t.Fatal("expected the loop to be stopped")
	}
	s.Stop() // no-op on a stopped scheduler
}

func TestSchedulerFiresThroughLoop(t *testing.T) {
	s := New()
	s.Interval = 10 * time.Millisecond

	fired := make(chan any, 1)
	code, err := s.AddFixed(Seconds, 1, false, func(arg any) { fired <- arg }, 42)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	s.Start()
	defer s.Stop()

	select {
	case arg := <-fired:
		if arg != 42 {
			t.Errorf("expected the argument passed through, got %v", arg)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timer did not fire")
	}

	deadline := time.Now().Add(time.Second)
	for s.Exists(code) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Exists(code) {
		t.Error("expected the fired one-shot to be swept")
	}
}
