package timers

import (
	"errors"
	"testing"
	"time"
)

func TestNewFixedValidation(t *testing.T) {
	if _, err := newFixed(Unit(9), 5, false); !errors.Is(err, ErrUnit) {
		t.Errorf("expected ErrUnit, got %v", err)
	}
	if _, err := newFixed(Seconds, 0, false); !errors.Is(err, ErrDelay) {
		t.Errorf("expected ErrDelay for zero delay, got %v", err)
	}
	if _, err := newFixed(Seconds, -3, false); !errors.Is(err, ErrDelay) {
		t.Errorf("expected ErrDelay for negative delay, got %v", err)
	}
}

func TestNewRandomValidation(t *testing.T) {
	if _, err := newRandom(Unit(9), 1, 2, false); !errors.Is(err, ErrUnit) {
		t.Errorf("expected ErrUnit, got %v", err)
	}
	if _, err := newRandom(Seconds, -1, 2, false); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange for negative low bound, got %v", err)
	}
	if _, err := newRandom(Seconds, 5, 4, false); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange for inverted bounds, got %v", err)
	}
}

func TestFixedCheck(t *testing.T) {
	tm, err := newFixed(Minutes, 2, false)
	if err != nil {
		t.Fatalf("new fixed: %v", err)
	}

	now := time.Now()
	if tm.check(now.Add(time.Minute)) {
		t.Error("timer fired before its delay elapsed")
	}
	if !tm.check(now.Add(2*time.Minute + time.Second)) {
		t.Error("timer did not fire after its delay elapsed")
	}
	if tm.active {
		t.Error("one-shot timer stayed active after firing")
	}
	if tm.check(now.Add(time.Hour)) {
		t.Error("inactive timer fired")
	}
}

func TestLoopingCheckRearms(t *testing.T) {
	tm, err := newFixed(Seconds, 10, true)
	if err != nil {
		t.Fatalf("new fixed: %v", err)
	}

	now := time.Now()
	fireAt := now.Add(11 * time.Second)
	if !tm.check(fireAt) {
		t.Fatal("timer did not fire")
	}
	if !tm.active {
		t.Error("looping timer deactivated after firing")
	}

	// Rearmed from the firing instant, not the original one.
	if tm.check(fireAt.Add(9 * time.Second)) {
		t.Error("timer fired before the rearmed delay elapsed")
	}
	if !tm.check(fireAt.Add(10 * time.Second)) {
		t.Error("timer did not fire after the rearmed delay")
	}
}

func TestRandomDelayWithinRange(t *testing.T) {
	now := time.Now()
	for i := 0; i < 50; i++ {
		tm, err := newRandom(Seconds, 2, 4, true)
		if err != nil {
			t.Fatalf("new random: %v", err)
		}
		d := tm.next.Sub(now)
		if d < 2*time.Second || d > 4*time.Second+time.Second {
			t.Fatalf("delay %v outside [2s,4s]", d)
		}
	}
}

func TestRandomDegenerateRange(t *testing.T) {
	tm, err := newRandom(Seconds, 3, 3, true)
	if err != nil {
		t.Fatalf("new random: %v", err)
	}
	now := time.Now()
	tm.rearm(now)
	if got := tm.next.Sub(now); got != 3*time.Second {
		t.Errorf("expected a 3s delay from a [3,3] range, got %v", got)
	}
}

func TestUnitString(t *testing.T) {
	if Seconds.String() != "seconds" || Minutes.String() != "minutes" || Hours.String() != "hours" {
		t.Error("unexpected unit names")
	}
	if Unit(9).String() != "Unit(9)" {
		t.Errorf("unexpected unknown unit name %q", Unit(9).String())
	}
}
