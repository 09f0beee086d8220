// Package clock provides the per-tick time base: a scalable simulation
// clock alongside unscaled real time, and a scheduler for delayed and
// end-of-frame tasks.
package clock

import "time"

// Clock measures frame deltas. Simulation time advances by the real delta
// times Scale; real time is unaffected by Scale.
type Clock struct {
	provider TimeProvider

	scale     float64
	last      time.Time
	realDelta time.Duration
	simDelta  time.Duration
	simTime   time.Duration
	frame     uint64
}

// New returns a clock at scale 1 reading from p.
func New(p TimeProvider) *Clock {
	return &Clock{provider: p, scale: 1, last: p.Now()}
}

// Tick starts a new frame.
func (c *Clock) Tick() {
	now := c.provider.Now()
	c.realDelta = now.Sub(c.last)
	c.last = now
	c.simDelta = time.Duration(float64(c.realDelta) * c.scale)
	c.simTime += c.simDelta
	c.frame++
}

// Scale returns the simulation time scale.
func (c *Clock) Scale() float64 { return c.scale }

// SetScale changes the simulation time scale from the next Tick on.
func (c *Clock) SetScale(s float64) {
	if s < 0 {
		s = 0
	}
	c.scale = s
}

// DeltaTime returns the scaled duration of the current frame.
func (c *Clock) DeltaTime() time.Duration { return c.simDelta }

// UnscaledDeltaTime returns the real duration of the current frame.
func (c *Clock) UnscaledDeltaTime() time.Duration { return c.realDelta }

// SimTime returns the accumulated simulation time.
func (c *Clock) SimTime() time.Duration { return c.simTime }

// Now returns real time.
func (c *Clock) Now() time.Time { return c.provider.Now() }

// Frame returns the number of ticks so far.
func (c *Clock) Frame() uint64 { return c.frame }
