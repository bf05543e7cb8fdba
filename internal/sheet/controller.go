// Package sheet implements the gesture state machine of a draggable panel
// that snaps between target heights and can be dragged away to dismiss.
//
// A Controller owns the panel's offset. Hosts feed it container sizes and
// drag samples, tick its spring.Animator from a frame clock, and read the
// published offset and dim-overlay alpha back for rendering.
package sheet

import (
	"log"
	"math"
	"time"

	"github.com/olivier-w/snapsheet/internal/geometry"
	"github.com/olivier-w/snapsheet/internal/spring"
)

// releaseVelocityWindow is how recent the last movement must be for its
// velocity to carry into the settle animation.
const releaseVelocityWindow = 100 * time.Millisecond

// Options configures a Controller. Measure is required when any height is
// geometry.Automatic. Zero margin and tuning select the defaults.
type Options struct {
	Heights       []geometry.TargetHeight
	Measure       geometry.Measurer
	DismissMargin float64
	Tuning        Tuning
}

type delegateEntry struct {
	id int
	d  Delegate
}

type offsetListener struct {
	id int
	fn func(offset, alpha float64)
}

// Controller is not safe for concurrent use. Every method, and the
// animator's Tick, must run on the same event loop.
type Controller struct {
	anim        *spring.Animator
	unsubscribe func()

	heights []geometry.TargetHeight
	measure geometry.Measurer
	margin  float64
	tuning  Tuning

	layout geometry.Layout
	phase  Phase
	index  int
	offset float64
	alpha  float64

	dragNet  float64
	dragVel  float64
	lastMove time.Time

	session   int
	nextID    int
	delegates []delegateEntry
	listeners []offsetListener
}

// New returns a Controller in the Presenting phase driving anim.
func New(anim *spring.Animator, opts Options) *Controller {
	c := &Controller{anim: anim}
	c.apply(opts)
	c.unsubscribe = anim.Subscribe(c.onSpring)
	return c
}

func (c *Controller) apply(opts Options) {
	c.heights = geometry.Normalize(opts.Heights)
	c.measure = opts.Measure
	c.margin = opts.DismissMargin
	if c.margin <= 0 {
		c.margin = geometry.DefaultDismissMargin
	}
	c.tuning = opts.Tuning
	if c.tuning == (Tuning{}) {
		c.tuning = DefaultTuning
	}
}

// AddDelegate registers d for dismiss notifications and returns a function
// that removes it.
func (c *Controller) AddDelegate(d Delegate) (remove func()) {
	c.nextID++
	id := c.nextID
	c.delegates = append(c.delegates, delegateEntry{id: id, d: d})
	return func() {
		for i, e := range c.delegates {
			if e.id == id {
				c.delegates = append(c.delegates[:i:i], c.delegates[i+1:]...)
				return
			}
		}
	}
}

// OnOffset registers fn to receive every published offset with its overlay
// alpha and returns a function that removes it.
func (c *Controller) OnOffset(fn func(offset, alpha float64)) (remove func()) {
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, offsetListener{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// TargetIndex returns the index of the target the panel rests at or is
// settling toward.
func (c *Controller) TargetIndex() int { return c.index }

// Offset returns the panel's current offset from the container top.
func (c *Controller) Offset() float64 { return c.offset }

// Alpha returns the dim-overlay alpha for the current offset.
func (c *Controller) Alpha() float64 { return c.alpha }

// Layout returns the cached offsets and thresholds.
func (c *Controller) Layout() geometry.Layout { return c.layout }

// Present computes the layout for container and animates the panel in from
// off screen to the target at initial. It is ignored unless the controller
// is still Presenting, and while the container has no area.
func (c *Controller) Present(container geometry.Size, initial int) {
	if c.phase != Presenting {
		log.Printf("sheet: present ignored in phase %s", c.phase)
		return
	}
	if container.Empty() {
		return
	}
	layout := geometry.NewLayout(c.heights, container, c.measure, c.margin)
	if !layout.Valid(initial) {
		log.Printf("sheet: present with target %d out of range [0,%d)", initial, layout.Len())
		return
	}
	c.layout = layout
	c.offset = layout.Offscreen()
	c.publish()
	c.settleTo(initial, 0)
}

// Drag consumes one drag sample. Samples are ignored before the panel is
// presented and once it is being dismissed.
func (c *Controller) Drag(s DragSample) {
	switch c.phase {
	case Settled, Settling:
		if s.Phase.Ends() {
			return
		}
		c.anim.Pause()
		c.phase = Dragging
		c.dragNet = 0
		c.dragVel = 0
		c.lastMove = time.Time{}
	case Dragging:
	default:
		return
	}

	c.move(s)
	if s.Phase.Ends() {
		c.release(s.Time)
	}
}

func (c *Controller) move(s DragSample) {
	if s.Delta == 0 {
		return
	}
	c.dragNet += s.Delta
	c.offset = math.Max(c.layout.Offsets[0], c.offset+s.Delta)
	if !s.Time.IsZero() {
		if !c.lastMove.IsZero() {
			if dt := s.Time.Sub(c.lastMove).Seconds(); dt > 0 {
				c.dragVel = s.Delta / dt
			}
		}
		c.lastMove = s.Time
	}
	c.publish()
}

func (c *Controller) release(at time.Time) {
	vel := c.dragVel
	if c.lastMove.IsZero() || (!at.IsZero() && at.Sub(c.lastMove) > releaseVelocityWindow) {
		vel = 0
	}
	d := Decide(c.layout.Thresholds, c.index, c.offset, c.dragNet)
	c.settleTo(d.Index, vel)
	if d.Dismiss {
		for _, e := range append([]delegateEntry(nil), c.delegates...) {
			e.d.ReachedDismissArea()
		}
	}
}

// Transition animates the panel to the target at index. Out-of-range
// indexes and calls before presentation or during dismissal are no-ops.
func (c *Controller) Transition(index int) {
	switch c.phase {
	case Presenting, Dismissing, Dismissed:
		log.Printf("sheet: transition to %d ignored in phase %s", index, c.phase)
		return
	}
	if !c.layout.Valid(index) {
		log.Printf("sheet: transition to %d out of range [0,%d)", index, c.layout.Len())
		return
	}
	c.settleTo(index, 0)
}

// Dismiss animates the panel off screen. Delegates receive RequestRemoval
// once it gets there.
func (c *Controller) Dismiss() {
	switch c.phase {
	case Presenting:
		log.Printf("sheet: dismiss ignored before present")
		return
	case Dismissing, Dismissed:
		return
	}
	c.dismiss()
}

func (c *Controller) dismiss() {
	c.phase = Dismissing
	c.startSpring(c.layout.Offscreen(), 0, func() {
		c.phase = Dismissed
		c.Close()
		for _, e := range append([]delegateEntry(nil), c.delegates...) {
			e.d.RequestRemoval()
		}
	})
}

// Reset recomputes the layout for a new container size and animates the
// panel to the shifted offset of its current target. A drag in progress
// keeps control of the offset until it is released.
func (c *Controller) Reset(container geometry.Size) {
	if c.phase == Presenting || c.phase == Dismissed || container.Empty() {
		return
	}
	c.layout = geometry.NewLayout(c.heights, container, c.measure, c.margin)
	c.index = min(c.index, c.layout.Last())

	switch c.phase {
	case Dragging:
		c.offset = math.Max(c.layout.Offsets[0], c.offset)
		c.publish()
	case Dismissing:
		c.dismiss()
	default:
		c.settleTo(c.index, 0)
	}
}

// Configure replaces the target heights, dismissal margin and tuning, then
// resets against the current container.
func (c *Controller) Configure(opts Options) {
	c.apply(opts)
	c.Reset(c.layout.Container)
}

// Close detaches the controller from its animator. It is called
// automatically once the panel is dismissed.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Controller) settleTo(index int, velocity float64) {
	c.phase = Settling
	c.index = index
	c.startSpring(c.layout.Offsets[index], velocity, func() {
		c.phase = Settled
		c.index = index
	})
}

func (c *Controller) startSpring(to, velocity float64, done func()) {
	c.session++
	session := c.session
	c.anim.Start(c.offset, to, velocity, c.tuning.DampingRatio, c.tuning.Response)
	c.anim.OnSettled(func(didComplete bool) {
		if didComplete && session == c.session {
			done()
		}
	})
}

func (c *Controller) onSpring(pos float64) {
	if c.phase != Settling && c.phase != Dismissing {
		return
	}
	c.offset = pos
	c.publish()
}

func (c *Controller) publish() {
	c.alpha = c.layout.Alpha(c.offset)
	for _, l := range append([]offsetListener(nil), c.listeners...) {
		l.fn(c.offset, c.alpha)
	}
}
