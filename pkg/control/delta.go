package control

import "time"

// Deltanizer remembers the previous value alongside the current one.
type Deltanizer struct {
	old, cur float64
}

// NewDeltanizer returns a Deltanizer at v with zero delta.
func NewDeltanizer(v float64) *Deltanizer {
	return &Deltanizer{old: v, cur: v}
}

// Set stores v, keeping the previous value for [Deltanizer.Delta].
func (d *Deltanizer) Set(v float64) {
	d.old = d.cur
	d.cur = v
}

// Value returns the current value.
func (d *Deltanizer) Value() float64 { return d.cur }

// Delta returns current minus previous.
func (d *Deltanizer) Delta() float64 { return d.cur - d.old }

// Reset moves both values to v.
func (d *Deltanizer) Reset(v float64) {
	d.old = v
	d.cur = v
}

// DefaultTransition is the easing time used by [NewSmoothed].
const DefaultTransition = 150 * time.Millisecond

// Smoothed eases from its previous value toward a target over a fixed
// transition interval. Time is passed in explicitly.
type Smoothed struct {
	from, target float64
	started      time.Time
	interval     time.Duration
}

// NewSmoothed returns a settled value at v.
func NewSmoothed(v float64, interval time.Duration) *Smoothed {
	if interval <= 0 {
		interval = DefaultTransition
	}
	return &Smoothed{from: v, target: v, interval: interval}
}

// Set starts a transition toward target at now.
func (s *Smoothed) Set(target float64, now time.Time) {
	s.from = s.Value(now)
	s.target = target
	s.started = now
}

// Target returns the value being approached.
func (s *Smoothed) Target() float64 { return s.target }

// Value returns the eased value at now.
func (s *Smoothed) Value(now time.Time) float64 {
	t := float64(now.Sub(s.started)) / float64(s.interval)
	if s.started.IsZero() || t >= 1 {
		return s.target
	}
	if t <= 0 {
		return s.from
	}
	// Smoothstep.
	t = t * t * (3 - 2*t)
	return s.from + (s.target-s.from)*t
}

// Settled reports whether the transition has finished at now.
func (s *Smoothed) Settled(now time.Time) bool {
	return s.started.IsZero() || now.Sub(s.started) >= s.interval
}
