// Package timers schedules periodic bot actions on one background
// polling goroutine.
package timers

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Unit is the scale a timer delay is expressed in.
type Unit int

const (
	Seconds Unit = iota
	Minutes
	Hours
)

func (u Unit) step() time.Duration {
	switch u {
	case Seconds:
		return time.Second
	case Minutes:
		return time.Minute
	case Hours:
		return time.Hour
	}
	return 0
}

func (u Unit) String() string {
	switch u {
	case Seconds:
		return "seconds"
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Registration errors.
var (
	ErrUnit  = errors.New("timers: unknown unit")
	ErrDelay = errors.New("timers: delay must be positive")
	ErrRange = errors.New("timers: invalid random range")
)

// Timer tracks one schedulable delay. A one-shot timer goes inactive
// after it fires; a looping timer recomputes its next-fire instant on
// every firing, re-randomized when range-based.
type Timer struct {
	unit   Unit
	delay  int
	lo, hi int
	random bool
	loop   bool
	active bool
	next   time.Time
}

func newFixed(unit Unit, delay int, loop bool) (*Timer, error) {
	if unit.step() == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnit, unit)
	}
	if delay <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrDelay, delay)
	}
	t := &Timer{unit: unit, delay: delay, loop: loop}
	t.rearm(time.Now())
	t.active = true
	return t, nil
}

func newRandom(unit Unit, lo, hi int, loop bool) (*Timer, error) {
	if unit.step() == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnit, unit)
	}
	if lo < 0 || hi < lo {
		return nil, fmt.Errorf("%w: [%d,%d]", ErrRange, lo, hi)
	}
	t := &Timer{unit: unit, lo: lo, hi: hi, random: true, loop: loop}
	t.rearm(time.Now())
	t.active = true
	return t, nil
}

// rearm computes the next-fire instant from now. Range-based timers
// draw a fresh delay from [lo,hi] on every call.
func (t *Timer) rearm(now time.Time) {
	delay := t.delay
	if t.random {
		delay = t.lo + rand.Intn(t.hi-t.lo+1)
	}
	t.next = now.Add(time.Duration(delay) * t.unit.step())
}

// check reports whether the timer is due and advances its state:
// looping timers rearm, one-shot timers go inactive.
func (t *Timer) check(now time.Time) bool {
	if !t.active {
		return false
	}

	due := !now.Before(t.next)
	if due {
		if t.loop {
			t.rearm(now)
		} else {
			t.active = false
		}
	}
	return due
}
