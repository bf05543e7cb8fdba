package sheet

import "time"

// Phase is the interaction state of a presented panel.
type Phase int

const (
	Presenting Phase = iota
	Settled
	Dragging
	Settling
	Dismissing
	Dismissed
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case Presenting:
		return "presenting"
	case Settled:
		return "settled"
	case Dragging:
		return "dragging"
	case Settling:
		return "settling"
	case Dismissing:
		return "dismissing"
	case Dismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// GesturePhase tags a drag sample with where it sits in the gesture.
type GesturePhase int

const (
	GestureBegan GesturePhase = iota
	GestureChanged
	GestureEnded
	GestureCancelled
	GestureFailed
)

// Ends reports whether the phase terminates the gesture.
func (g GesturePhase) Ends() bool {
	return g == GestureEnded || g == GestureCancelled || g == GestureFailed
}

// DragSample is the vertical translation since the previous sample.
// Positive deltas move the panel down.
type DragSample struct {
	Phase GesturePhase
	Delta float64
	Time  time.Time
}

// Delegate receives the decisions the engine leaves to its host.
type Delegate interface {
	// ReachedDismissArea is called when a drag is released past the
	// dismissal threshold of the last target.
	ReachedDismissArea()
	// RequestRemoval is called once an explicit dismissal has finished
	// animating off screen.
	RequestRemoval()
}

// Tuning holds the spring parameters used for every settle.
type Tuning struct {
	DampingRatio float64
	Response     float64
}

// DefaultTuning is a slightly underdamped spring.
var DefaultTuning = Tuning{DampingRatio: 0.85, Response: 0.35}
