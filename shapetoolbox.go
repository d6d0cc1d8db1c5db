// Package shapetoolbox generates parametric 3D meshes (spheres, planes,
// disks, tori, cylinders, surfaces of revolution, extrusions and worms)
// whose surfaces can be perturbed by sinusoidal component stacks, filtered
// noise, randomly placed bumps, or user-supplied profiles, matrices and
// images. Models are built once per shape, accumulate perturbation fields,
// and are finalized lazily into vertex/face/normal/UV buffers suitable for
// Wavefront OBJ export via the objfile package.
package shapetoolbox

import (
	"github.com/chewxy/math32"
)

// Shape identifies the base parameterization of a [Model]. It is fixed at
// model creation and determines the native grid axes, the base field and
// the Cartesian mapping.
type Shape int

const (
	ShapeSphere Shape = iota
	ShapePlane
	ShapeDisk
	ShapeTorus
	ShapeCylinder
	ShapeRevolution
	ShapeExtrusion
	ShapeWorm
)

var shapeNames = [...]string{
	ShapeSphere:     "sphere",
	ShapePlane:      "plane",
	ShapeDisk:       "disk",
	ShapeTorus:      "torus",
	ShapeCylinder:   "cylinder",
	ShapeRevolution: "revolution",
	ShapeExtrusion:  "extrusion",
	ShapeWorm:       "worm",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// ParseShape returns the Shape named by s, or an error for unknown names.
func ParseShape(s string) (Shape, error) {
	for i, name := range shapeNames {
		if name == s {
			return Shape(i), nil
		}
	}
	return -1, errorf("unknown shape name %q", s)
}

// isTube reports whether the shape belongs to the cylinder family whose
// cross-section sweeps an axis (and may carry profile curves and caps).
func (s Shape) isTube() bool {
	switch s {
	case ShapeCylinder, ShapeRevolution, ShapeExtrusion, ShapeWorm:
		return true
	}
	return false
}

// epstol is used to detect degenerate denominators such as zero-length
// edge cross products during normal accumulation.
const epstol = 6e-7

func dtor(deg float32) float32 {
	return deg * (math32.Pi / 180)
}

// linspace fills dst with count evenly spaced samples covering [lo, hi]
// inclusive of both endpoints.
func linspace(lo, hi float32, count int) []float32 {
	dst := make([]float32, count)
	if count == 1 {
		dst[0] = lo
		return dst
	}
	step := (hi - lo) / float32(count-1)
	for i := range dst {
		dst[i] = lo + float32(i)*step
	}
	dst[count-1] = hi
	return dst
}

// periodspace fills dst with count samples of the half-open interval
// [lo, hi), the sampling used along periodic (wrap-around) axes.
func periodspace(lo, hi float32, count int) []float32 {
	dst := make([]float32, count)
	step := (hi - lo) / float32(count)
	for i := range dst {
		dst[i] = lo + float32(i)*step
	}
	return dst
}

// wrapPeriod maps a coordinate difference into [-period/2, period/2].
func wrapPeriod(d, period float32) float32 {
	d = math32.Mod(d, period)
	if d > period/2 {
		d -= period
	} else if d < -period/2 {
		d += period
	}
	return d
}

// resampleCurve linearly resamples curve onto count evenly spaced samples
// of its own domain. A nil or single-element curve resamples to a constant.
func resampleCurve(curve []float32, count int) []float32 {
	out := make([]float32, count)
	switch len(curve) {
	case 0:
		for i := range out {
			out[i] = 1
		}
		return out
	case 1:
		for i := range out {
			out[i] = curve[0]
		}
		return out
	}
	for i := range out {
		t := float32(i) / float32(count-1) * float32(len(curve)-1)
		j := int(t)
		if j >= len(curve)-1 {
			out[i] = curve[len(curve)-1]
			continue
		}
		frac := t - float32(j)
		out[i] = curve[j]*(1-frac) + curve[j+1]*frac
	}
	return out
}
