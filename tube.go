package shapetoolbox

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// defaultTubeHeight matches the circumference of the unit cross-section so
// square grids sample the surface near-isotropically.
const defaultTubeHeight = 2 * math32.Pi

// newTube builds the shared cylinder-family model: n angle columns in
// [-π, π) (periodic) and m axial rows spanning the tube height. The base
// radius field is radius scaled by the resampled profile curves.
func newTube(shape Shape, m, n int, radius, height float32, rcurve, ecurve []float32) (*Model, error) {
	if err := checkGrid(shape, m, n, true); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, errorf("%s: zero or negative radius %v", shape, radius)
	}
	if height <= 0 {
		height = defaultTubeHeight
	}
	mdl := newModel(shape, linspace(-height/2, height/2, m), periodspace(-math32.Pi, math32.Pi, n))
	mdl.u0, mdl.u1 = -math32.Pi, math32.Pi
	mdl.v0, mdl.v1 = -height/2, height/2
	mdl.radius = radius
	mdl.height = height
	mdl.rcurve = resampleCurve(rcurve, m)
	mdl.ecurve = resampleCurve(ecurve, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			mdl.base[i*n+j] = radius * mdl.rcurve[i] * mdl.ecurve[j]
		}
	}
	return mdl, nil
}

// NewCylinder creates a straight circular cylinder model with n angle
// columns and m axial rows. A non-positive height selects the default 2π.
// Perturbations modulate the radius field.
func NewCylinder(m, n int, radius, height float32) (*Model, error) {
	return newTube(ShapeCylinder, m, n, radius, height, nil, nil)
}

// NewRevolution creates a surface of revolution: a cylinder whose radius
// follows rcurve along its height. rcurve is linearly resampled onto the m
// axial rows and multiplies the nominal radius.
func NewRevolution(m, n int, radius, height float32, rcurve []float32) (*Model, error) {
	if len(rcurve) == 0 {
		return nil, errorf("revolution: empty radius-vs-height curve")
	}
	for i, rc := range rcurve {
		if rc < 0 {
			return nil, errorf("revolution: negative radius curve value %v at index %d", rc, i)
		}
	}
	return newTube(ShapeRevolution, m, n, radius, height, rcurve, nil)
}

// NewExtrusion creates an extruded shape: a cylinder whose cross-section
// radius follows ecurve around its angle. ecurve is linearly resampled onto
// the n angle columns and multiplies the nominal radius.
func NewExtrusion(m, n int, radius, height float32, ecurve []float32) (*Model, error) {
	if len(ecurve) == 0 {
		return nil, errorf("extrusion: empty radius-vs-angle curve")
	}
	for i, ec := range ecurve {
		if ec < 0 {
			return nil, errorf("extrusion: negative edge curve value %v at index %d", ec, i)
		}
	}
	return newTube(ShapeExtrusion, m, n, radius, height, nil, ecurve)
}

// SetProfileCurves combines additional radius-vs-height and radius-vs-angle
// curves multiplicatively into the base field of a cylinder-family model.
// Either curve may be nil to leave that direction unchanged.
func (mdl *Model) SetProfileCurves(rcurve, ecurve []float32) error {
	if !mdl.shape.isTube() {
		return errorf("%s: profile curves only apply to cylinder-family shapes", mdl.shape)
	}
	if len(mdl.fields) > 0 {
		return errorf("%s: profile curves must be set before perturbations are added", mdl.shape)
	}
	rc := resampleCurve(rcurve, mdl.m)
	ec := resampleCurve(ecurve, mdl.n)
	for i := 0; i < mdl.m; i++ {
		for j := 0; j < mdl.n; j++ {
			k := i*mdl.n + j
			mdl.base[k] *= rc[i] * ec[j]
		}
		mdl.rcurve[i] *= rc[i]
	}
	for j := 0; j < mdl.n; j++ {
		mdl.ecurve[j] *= ec[j]
	}
	mdl.invalidate()
	return nil
}

// NewWorm creates a worm: a tube whose cross-sections are swept along an
// arbitrary 3D spine curve instead of a straight axis. The spine must have
// at least two distinct points; it is resampled onto the m axial rows and
// per-row orthonormal frames are built by propagating a reference normal
// along the spine tangents.
func NewWorm(m, n int, radius float32, spine []ms3.Vec) (*Model, error) {
	if len(spine) < 2 {
		return nil, errorf("worm: spine curve needs at least 2 points, got %d", len(spine))
	}
	length := spineLength(spine)
	if length <= 0 {
		return nil, errorf("worm: spine curve has zero length")
	}
	mdl, err := newTube(ShapeWorm, m, n, radius, length, nil, nil)
	if err != nil {
		return nil, err
	}
	mdl.spine = resampleSpine(spine, m)
	mdl.frames, err = spineFrames(mdl.spine)
	if err != nil {
		return nil, err
	}
	return mdl, nil
}

func spineLength(spine []ms3.Vec) float32 {
	var total float32
	for i := 1; i < len(spine); i++ {
		total += ms3.Norm(ms3.Sub(spine[i], spine[i-1]))
	}
	return total
}

// resampleSpine linearly resamples the polyline onto count points at
// uniform arc-length spacing.
func resampleSpine(spine []ms3.Vec, count int) []ms3.Vec {
	arc := make([]float32, len(spine))
	for i := 1; i < len(spine); i++ {
		arc[i] = arc[i-1] + ms3.Norm(ms3.Sub(spine[i], spine[i-1]))
	}
	total := arc[len(arc)-1]
	out := make([]ms3.Vec, count)
	seg := 1
	for i := range out {
		target := total * float32(i) / float32(count-1)
		for seg < len(spine)-1 && arc[seg] < target {
			seg++
		}
		span := arc[seg] - arc[seg-1]
		var t float32
		if span > 0 {
			t = (target - arc[seg-1]) / span
		}
		out[i] = ms3.Add(spine[seg-1], ms3.Scale(t, ms3.Sub(spine[seg], spine[seg-1])))
	}
	return out
}

// spineFrames builds one orthonormal cross-section frame per spine sample.
// Tangents come from central differences; the normal is propagated from
// row to row by projecting the previous normal off the new tangent, which
// avoids sudden frame flips along curved spines.
func spineFrames(spine []ms3.Vec) ([]frame, error) {
	frames := make([]frame, len(spine))
	prevNormal := ms3.Vec{}
	for i := range spine {
		var tangent ms3.Vec
		switch {
		case i == 0:
			tangent = ms3.Sub(spine[1], spine[0])
		case i == len(spine)-1:
			tangent = ms3.Sub(spine[i], spine[i-1])
		default:
			tangent = ms3.Sub(spine[i+1], spine[i-1])
		}
		tn := ms3.Norm(tangent)
		if tn < epstol {
			return nil, errorf("worm: degenerate spine tangent at row %d", i)
		}
		tangent = ms3.Scale(1/tn, tangent)

		normal := prevNormal
		if i == 0 {
			// Seed with whichever axis is least aligned with the tangent.
			normal = ms3.Vec{X: 1}
			if math32.Abs(tangent.X) > math32.Abs(tangent.Z) {
				normal = ms3.Vec{Z: 1}
			}
		}
		normal = ms3.Sub(normal, ms3.Scale(ms3.Dot(normal, tangent), tangent))
		nn := ms3.Norm(normal)
		if nn < epstol {
			return nil, errorf("worm: cross-section frame collapsed at row %d", i)
		}
		normal = ms3.Scale(1/nn, normal)
		frames[i] = frame{
			origin:   spine[i],
			normal:   normal,
			binormal: ms3.Cross(tangent, normal),
		}
		prevNormal = normal
	}
	return frames, nil
}
