package geometry

import "math"

// Layout caches the offsets and thresholds computed for one container size.
// It is rebuilt whenever the container changes or the panel is presented.
type Layout struct {
	Container  Size
	Offsets    []float64
	Thresholds []float64
}

// NewLayout computes a Layout. Empty heights are replaced with [Automatic].
func NewLayout(heights []TargetHeight, container Size, measure Measurer, dismissMargin float64) Layout {
	offsets := ComputeOffsets(Normalize(heights), container, measure)
	return Layout{
		Container:  container,
		Offsets:    offsets,
		Thresholds: ComputeThresholds(offsets, dismissMargin),
	}
}

// Len returns the number of snap targets.
func (l Layout) Len() int { return len(l.Offsets) }

// Valid reports whether index addresses a snap target.
func (l Layout) Valid(index int) bool {
	return index >= 0 && index < len(l.Offsets)
}

// Last returns the index of the shortest target.
func (l Layout) Last() int { return len(l.Offsets) - 1 }

// Offscreen returns the offset at which the panel is fully hidden.
func (l Layout) Offscreen() float64 { return l.Container.Height }

// Alpha returns the dim-overlay opacity for offset: 1 at the shortest target
// or above, fading to 0 as the panel leaves the container.
func (l Layout) Alpha(offset float64) float64 {
	if len(l.Offsets) == 0 {
		return 0
	}
	denom := l.Container.Height - l.Offsets[l.Last()]
	if denom <= 0 {
		return 0
	}
	a := (l.Container.Height - offset) / denom
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// Nearest returns the index of the offset closest to offset.
func (l Layout) Nearest(offset float64) int {
	best := 0
	for i, o := range l.Offsets {
		if math.Abs(o-offset) < math.Abs(l.Offsets[best]-offset) {
			best = i
		}
	}
	return best
}
