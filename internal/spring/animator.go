// Package spring simulates a damped harmonic oscillator that carries a
// position toward a target, one externally clocked tick at a time.
package spring

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	// DefaultFPS is the tick rate assumed when Tick is called without an
	// interval.
	DefaultFPS = 60

	// PositionEpsilon and VelocityEpsilon bound the settled region.
	PositionEpsilon = 0.5
	VelocityEpsilon = 1.0

	// SettleDwell is how long the state must stay inside the settled region
	// before the session completes, so a momentary zero crossing of an
	// underdamped spring does not end it early.
	SettleDwell = 50 * time.Millisecond

	minDampingRatio = 0.05
	maxDampingRatio = 2.0
	defaultResponse = 0.35
)

// AngularFrequency maps a frequency response (roughly the period of the
// undamped oscillation, in seconds) to the oscillator's natural frequency.
// Larger responses give slower, softer motion.
func AngularFrequency(response float64) float64 {
	if response <= 0 {
		response = defaultResponse
	}
	return 2 * math.Pi / response
}

type observer struct {
	id int
	fn func(position float64)
}

// Animator runs at most one spring session at a time. It is not safe for
// concurrent use; all calls are expected on the host's event loop.
type Animator struct {
	frame  time.Duration
	spring harmonica.Spring

	pos   float64
	vel   float64
	to    float64
	ratio float64
	omega float64
	dwell time.Duration

	running bool
	paused  bool

	observers   []observer
	nextID      int
	completions []func(didComplete bool)
}

// New returns an idle Animator ticking at fps frames per second.
func New(fps int) *Animator {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Animator{frame: time.Duration(float64(time.Second) * harmonica.FPS(fps))}
}

// FrameInterval is the tick interval the frame clock should use.
func (a *Animator) FrameInterval() time.Duration { return a.frame }

// Start begins a session from from to to. If a session is already running,
// it is superseded: its position and velocity replace from and
// initialVelocity, and its pending completions receive false.
func (a *Animator) Start(from, to, initialVelocity, dampingRatio, response float64) {
	if a.running {
		from, initialVelocity = a.pos, a.vel
		a.running = false
		a.finish(false)
	}

	a.pos, a.vel, a.to = from, initialVelocity, to
	a.ratio = math.Min(math.Max(dampingRatio, minDampingRatio), maxDampingRatio)
	a.omega = AngularFrequency(response)
	a.spring = harmonica.NewSpring(a.frame.Seconds(), a.omega, a.ratio)
	a.dwell = 0
	a.running = true
	a.paused = false
}

// Pause freezes the running session, keeping its position and velocity.
// Pending completions receive false.
func (a *Animator) Pause() {
	if !a.running {
		return
	}
	a.running = false
	a.paused = true
	a.finish(false)
}

// Stop cancels any session and discards its velocity.
func (a *Animator) Stop() {
	wasRunning := a.running
	a.running = false
	a.paused = false
	a.vel = 0
	if wasRunning {
		a.finish(false)
	}
}

// Tick advances the running session by dt (one frame if dt <= 0), notifies
// subscribers with the new position, and reports whether the session is
// still running afterwards.
func (a *Animator) Tick(dt time.Duration) bool {
	if !a.running {
		return false
	}
	if dt <= 0 {
		dt = a.frame
	}

	s := a.spring
	if dt != a.frame {
		s = harmonica.NewSpring(dt.Seconds(), a.omega, a.ratio)
	}
	a.pos, a.vel = s.Update(a.pos, a.vel, a.to)

	if math.Abs(a.pos-a.to) < PositionEpsilon && math.Abs(a.vel) < VelocityEpsilon {
		a.dwell += dt
	} else {
		a.dwell = 0
	}
	if a.dwell < SettleDwell {
		a.notify(a.pos)
		return a.running
	}

	// Completions belong to this session even if a subscriber starts a new
	// one from the final notification.
	a.pos, a.vel = a.to, 0
	a.running = false
	cbs := a.completions
	a.completions = nil
	a.notify(a.pos)
	for _, fn := range cbs {
		fn(true)
	}
	return a.running
}

// SetFPS changes the frame interval used by Tick and FrameInterval. A
// running session continues with the new interval.
func (a *Animator) SetFPS(fps int) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	a.frame = time.Duration(float64(time.Second) * harmonica.FPS(fps))
	if a.omega > 0 {
		a.spring = harmonica.NewSpring(a.frame.Seconds(), a.omega, a.ratio)
	}
}

// Subscribe registers fn to receive every ticked position, in registration
// order. The returned function removes the subscription.
func (a *Animator) Subscribe(fn func(position float64)) (unsubscribe func()) {
	a.nextID++
	id := a.nextID
	a.observers = append(a.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range a.observers {
			if o.id == id {
				a.observers = append(a.observers[:i:i], a.observers[i+1:]...)
				return
			}
		}
	}
}

// OnSettled registers a one-shot callback for the running session: true once
// it settles, false if it is paused, stopped or superseded first. With no
// running session the callback receives false immediately.
func (a *Animator) OnSettled(fn func(didComplete bool)) {
	if !a.running {
		fn(false)
		return
	}
	a.completions = append(a.completions, fn)
}

// Active reports whether a session is running.
func (a *Animator) Active() bool { return a.running }

// Paused reports whether the last session was paused rather than finished.
func (a *Animator) Paused() bool { return a.paused }

// Position returns the last computed position.
func (a *Animator) Position() float64 { return a.pos }

// Velocity returns the last computed velocity, in units per second.
func (a *Animator) Velocity() float64 { return a.vel }

// Target returns the equilibrium of the current or last session.
func (a *Animator) Target() float64 { return a.to }

func (a *Animator) notify(pos float64) {
	obs := append([]observer(nil), a.observers...)
	for _, o := range obs {
		o.fn(pos)
	}
}

func (a *Animator) finish(didComplete bool) {
	cbs := a.completions
	a.completions = nil
	for _, fn := range cbs {
		fn(didComplete)
	}
}
