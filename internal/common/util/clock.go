package util

import (
	"time"

	"k8s.io/utils/clock"
	testingclock "k8s.io/utils/clock/testing"
)

// Clock is the part of clock.Clock that polling loops need.
// clock.RealClock satisfies it.
type Clock interface {
	clock.PassiveClock
	Sleep(d time.Duration)
}

// DummyClock is a Clock whose time only moves when Sleep is called.
// OnSleep, if set, is invoked after every Sleep; tests use it to change the
// world between polls.
type DummyClock struct {
	*testingclock.FakeClock
	Sleeps  int
	OnSleep func(c *DummyClock)
}

func NewDummyClock(t time.Time) *DummyClock {
	return &DummyClock{FakeClock: testingclock.NewFakeClock(t)}
}

func (c *DummyClock) Sleep(d time.Duration) {
	c.Step(d)
	c.Sleeps++
	if c.OnSleep != nil {
		c.OnSleep(c)
	}
}
