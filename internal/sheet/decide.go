package sheet

// Decision is the outcome of releasing a drag.
type Decision struct {
	Index   int
	Dismiss bool
}

// Decide picks the target to settle into after a drag released at offset.
// direction is the net drag delta since the drag began. A release moves at
// most one target away from current, and only when offset has crossed the
// threshold between them in the drag's direction.
func Decide(thresholds []float64, current int, offset, direction float64) Decision {
	last := len(thresholds) - 1
	i := current
	switch {
	case direction > 0 && offset > thresholds[i]:
		if i < last {
			i++
		}
	case direction < 0 && i > 0 && offset < thresholds[i-1]:
		i--
	}
	return Decision{
		Index:   i,
		Dismiss: i == last && offset >= thresholds[last],
	}
}
