package camera

import "fmt"

// Interpolation is the algorithm the renderer uses to upscale a sensor frame.
type Interpolation int

const (
	Nearest Interpolation = iota
	Linear
	Area
	Cubic
	Lanczos4
	Zoom
	ZoomCubicMixed

	numInterpolations
)

var interpolationNames = [numInterpolations]string{
	Nearest:        "Nearest",
	Linear:         "Linear",
	Area:           "Area",
	Cubic:          "Cubic",
	Lanczos4:       "Lanczos4",
	Zoom:           "Zoom",
	ZoomCubicMixed: "Zoom/Cubic Mixed",
}

func (i Interpolation) String() string {
	if i < 0 || i >= numInterpolations {
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
	return interpolationNames[i]
}

// Next returns the following algorithm, wrapping after the last one.
func (i Interpolation) Next() Interpolation {
	return (i + 1) % numInterpolations
}

// Prev returns the preceding algorithm, wrapping before the first one.
func (i Interpolation) Prev() Interpolation {
	return (i + numInterpolations - 1) % numInterpolations
}

// Interpolations returns every algorithm in cycle order.
func Interpolations() []Interpolation {
	all := make([]Interpolation, numInterpolations)
	for i := range all {
		all[i] = Interpolation(i)
	}
	return all
}
