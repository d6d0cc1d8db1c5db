package shapetoolbox

import (
	"github.com/chewxy/math32"
)

// newModel allocates a model with its parameter grids filled from the two
// axis sample vectors: fast holds the n fast-axis samples repeated along
// every row, slow the m slow-axis samples repeated along every column.
func newModel(shape Shape, slow, fast []float32) *Model {
	m, n := len(slow), len(fast)
	mdl := &Model{
		shape: shape,
		m:     m,
		n:     n,
		u:     make([]float32, m*n),
		v:     make([]float32, m*n),
		base:  make([]float32, m*n),
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			k := i*n + j
			mdl.u[k] = fast[j]
			mdl.v[k] = slow[i]
		}
	}
	return mdl
}

// checkGrid validates the grid resolution. A wrapping fast axis needs at
// least 3 samples to close into faces; a non-periodic one only needs 2.
func checkGrid(shape Shape, m, n int, fastWraps bool) error {
	minFast := 2
	if fastWraps {
		minFast = 3
	}
	if m < 2 || n < minFast {
		return errorf("%s: grid size %dx%d too small, need at least 2 slow-axis and %d fast-axis samples", shape, m, n, minFast)
	}
	return nil
}

// NewSphere creates a unit-parameterized sphere model with m elevation rows
// in [-π/2, π/2] and n azimuth columns in [-π, π). Perturbations modulate
// the radius field.
func NewSphere(m, n int, radius float32) (*Model, error) {
	if err := checkGrid(ShapeSphere, m, n, true); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, errorf("sphere: zero or negative radius %v", radius)
	}
	mdl := newModel(ShapeSphere, linspace(-math32.Pi/2, math32.Pi/2, m), periodspace(-math32.Pi, math32.Pi, n))
	mdl.u0, mdl.u1 = -math32.Pi, math32.Pi
	mdl.v0, mdl.v1 = -math32.Pi/2, math32.Pi/2
	mdl.radius = radius
	for i := range mdl.base {
		mdl.base[i] = radius
	}
	return mdl, nil
}

// NewPlane creates a flat plane model spanning width by height centered on
// the origin, with m rows along y and n columns along x. Perturbations
// modulate the z height field.
func NewPlane(m, n int, width, height float32) (*Model, error) {
	if err := checkGrid(ShapePlane, m, n, false); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, errorf("plane: zero or negative dimension %vx%v", width, height)
	}
	mdl := newModel(ShapePlane, linspace(-height/2, height/2, m), linspace(-width/2, width/2, n))
	mdl.u0, mdl.u1 = -width/2, width/2
	mdl.v0, mdl.v1 = -height/2, height/2
	mdl.width, mdl.height = width, height
	return mdl, nil
}

// NewDisk creates a flat disk model in polar parameterization: m radius
// rows in [0, radius] and n angle columns in [-π, π). Perturbations
// modulate the z height field.
func NewDisk(m, n int, radius float32) (*Model, error) {
	if err := checkGrid(ShapeDisk, m, n, true); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, errorf("disk: zero or negative radius %v", radius)
	}
	mdl := newModel(ShapeDisk, linspace(0, radius, m), periodspace(-math32.Pi, math32.Pi, n))
	mdl.u0, mdl.u1 = -math32.Pi, math32.Pi
	mdl.v0, mdl.v1 = 0, radius
	mdl.radius = radius
	return mdl, nil
}

// NewDiskCartesian creates a flat disk model sampled on a cartesian x/y
// grid spanning the disk's bounding square. Perturbation fields are zeroed
// outside the disk radius, so the rim stays flat; this clamping is the
// documented behavior of the cartesian mode.
func NewDiskCartesian(m, n int, radius float32) (*Model, error) {
	if err := checkGrid(ShapeDisk, m, n, false); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, errorf("disk: zero or negative radius %v", radius)
	}
	mdl := newModel(ShapeDisk, linspace(-radius, radius, m), linspace(-radius, radius, n))
	mdl.u0, mdl.u1 = -radius, radius
	mdl.v0, mdl.v1 = -radius, radius
	mdl.radius = radius
	mdl.cartesian = true
	return mdl, nil
}

// NewTorus creates a torus model with m major-angle rows and n minor-angle
// columns, both periodic over [-π, π). Perturbations modulate the minor
// (tube) radius; the major radius carries its own sinusoidal components via
// [Model.AddMajorSine].
func NewTorus(m, n int, majorRadius, minorRadius float32) (*Model, error) {
	if err := checkGrid(ShapeTorus, m, n, true); err != nil {
		return nil, err
	}
	if majorRadius <= 0 || minorRadius <= 0 {
		return nil, errorf("torus: zero or negative radius (major %v, minor %v)", majorRadius, minorRadius)
	}
	if minorRadius >= majorRadius {
		return nil, errorf("torus: minor radius %v must be smaller than major radius %v", minorRadius, majorRadius)
	}
	mdl := newModel(ShapeTorus, periodspace(-math32.Pi, math32.Pi, m), periodspace(-math32.Pi, math32.Pi, n))
	mdl.u0, mdl.u1 = -math32.Pi, math32.Pi
	mdl.v0, mdl.v1 = -math32.Pi, math32.Pi
	mdl.radius = minorRadius
	mdl.major = majorRadius
	mdl.majorField = make([]float32, m*n)
	for i := range mdl.base {
		mdl.base[i] = minorRadius
		mdl.majorField[i] = majorRadius
	}
	return mdl, nil
}
