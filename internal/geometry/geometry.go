// Package geometry turns declared target heights into panel offsets and the
// thresholds used to pick a snap target when a drag ends.
//
// Offsets are measured from the container's top edge to the panel's top
// edge, so a smaller offset means a taller visible panel.
package geometry

import (
	"math"
	"slices"
)

// DefaultDismissMargin is the distance past the last offset that signals a
// dismiss intent when no margin is configured.
const DefaultDismissMargin = 80.0

// TargetHeight is a declared visible height for the panel. The zero value is
// Automatic.
type TargetHeight struct {
	value    float64
	explicit bool
}

// Automatic sizes the panel to its content measured at the container width.
var Automatic = TargetHeight{}

// Fixed returns an explicit target height.
func Fixed(h float64) TargetHeight {
	return TargetHeight{value: h, explicit: true}
}

// IsAutomatic reports whether the height is measured from content.
func (h TargetHeight) IsAutomatic() bool { return !h.explicit }

// Value returns the explicit height, or 0 for Automatic.
func (h TargetHeight) Value() float64 { return h.value }

// Size is the width and height of the hosting container.
type Size struct {
	Width  float64
	Height float64
}

// Empty reports whether the container has no usable area yet.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Measurer returns the natural height of the panel content laid out at width.
type Measurer func(width float64) float64

// Normalize returns heights, or [Automatic] when heights is empty.
func Normalize(heights []TargetHeight) []TargetHeight {
	if len(heights) == 0 {
		return []TargetHeight{Automatic}
	}
	return heights
}

// ResolveOffset converts a single target height into an offset for the
// given container. The result is never negative. It is not clamped to the
// container height.
func ResolveOffset(h TargetHeight, container Size, measure Measurer) float64 {
	height := h.value
	if h.IsAutomatic() {
		if measure == nil {
			panic("geometry: automatic target height without a measurer")
		}
		height = measure(container.Width)
	}
	return math.Max(0, container.Height-height)
}

// ComputeOffsets resolves every height and returns the offsets sorted
// ascending with duplicates removed. heights must not be empty.
func ComputeOffsets(heights []TargetHeight, container Size, measure Measurer) []float64 {
	if len(heights) == 0 {
		panic("geometry: empty target height list")
	}
	offsets := make([]float64, len(heights))
	for i, h := range heights {
		offsets[i] = ResolveOffset(h, container, measure)
	}
	slices.Sort(offsets)
	return slices.Compact(offsets)
}

// ComputeThresholds returns one boundary per offset: the midpoint to the next
// offset, and for the last offset the dismissal boundary offsets[n-1]+margin.
// A non-positive margin falls back to DefaultDismissMargin.
func ComputeThresholds(offsets []float64, dismissMargin float64) []float64 {
	if len(offsets) == 0 {
		panic("geometry: empty offset list")
	}
	if dismissMargin <= 0 {
		dismissMargin = DefaultDismissMargin
	}
	last := len(offsets) - 1
	thresholds := make([]float64, len(offsets))
	for i := 0; i < last; i++ {
		thresholds[i] = (offsets[i] + offsets[i+1]) / 2
	}
	thresholds[last] = offsets[last] + dismissMargin
	return thresholds
}
