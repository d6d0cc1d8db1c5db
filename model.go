package shapetoolbox

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

func errorf(msg string, args ...any) error {
	return fmt.Errorf(msg, args...)
}

// Model is the central aggregate of the toolbox: a base shape sampled on a
// fixed m-by-n parameter grid plus an ordered, individually toggleable list
// of perturbation fields. The grid dimensions and shape never change after
// creation. Mesh finalization is lazy and idempotent for a given field list
// and enable mask.
type Model struct {
	shape Shape
	m, n  int // slow-axis and fast-axis sample counts

	// Native parameter coordinates per grid sample, row-major with the
	// fast axis innermost. u is the fast-axis coordinate (azimuth, angle
	// or x), v the slow-axis coordinate (elevation, height, radius or y).
	u, v []float32

	// Parameter domain bounds. The fast axis is half-open [u0,u1) on
	// periodic shapes.
	u0, u1, v0, v1 float32

	base    []float32 // unperturbed radius/height/minor-radius field
	fields  []perturbation
	derived []float32
	dirty   bool

	mesh            *Mesh
	meshWithNormals bool

	// Shape-specific state, immutable after creation.
	radius     float32   // nominal radius (sphere, disk, cylinder family, torus minor)
	major      float32   // torus major radius
	majorField []float32 // torus per-sample major radius, mutated only by AddMajorSine
	width      float32   // plane width
	height     float32   // plane height or tube length
	cartesian  bool      // disk sampled on an x/y grid instead of angle/radius
	rcurve     []float32 // tube radius vs height, resampled to m
	ecurve     []float32 // tube radius vs angle, resampled to n
	spine      []ms3.Vec // worm midline, resampled to m
	frames     []frame   // worm cross-section frames, one per slow-axis row
	caps       bool

	mtlLib, mtlName string
}

type perturbation struct {
	name    string
	vals    []float32
	enabled bool
}

// frame is an orthonormal cross-section basis along a worm spine.
type frame struct {
	origin   ms3.Vec
	normal   ms3.Vec
	binormal ms3.Vec
}

// Shape returns the base shape of the model.
func (mdl *Model) Shape() Shape { return mdl.shape }

// GridSize returns the slow-axis and fast-axis sample counts (m, n).
func (mdl *Model) GridSize() (m, n int) { return mdl.m, mdl.n }

// NumFields returns the number of perturbation fields appended so far.
func (mdl *Model) NumFields() int { return len(mdl.fields) }

// FieldName returns the kind of the i-th perturbation field ("sine",
// "noise", "bumps", "custom", ...).
func (mdl *Model) FieldName(i int) (string, error) {
	if i < 0 || i >= len(mdl.fields) {
		return "", errorf("%s: perturbation index %d out of range [0,%d)", mdl.shape, i, len(mdl.fields))
	}
	return mdl.fields[i].name, nil
}

// Field returns the i-th perturbation field values and its enabled state.
// The returned slice is the model's own storage and must not be modified.
func (mdl *Model) Field(i int) (vals []float32, enabled bool, err error) {
	if i < 0 || i >= len(mdl.fields) {
		return nil, false, errorf("%s: perturbation index %d out of range [0,%d)", mdl.shape, i, len(mdl.fields))
	}
	return mdl.fields[i].vals, mdl.fields[i].enabled, nil
}

// SetEnabled toggles the i-th perturbation field's contribution to the
// derived field without removing it from the model.
func (mdl *Model) SetEnabled(i int, enabled bool) error {
	if i < 0 || i >= len(mdl.fields) {
		return errorf("%s: perturbation index %d out of range [0,%d)", mdl.shape, i, len(mdl.fields))
	}
	if mdl.fields[i].enabled != enabled {
		mdl.fields[i].enabled = enabled
		mdl.invalidate()
	}
	return nil
}

// Base returns the unperturbed base field. The slice is the model's own
// storage and must not be modified.
func (mdl *Model) Base() []float32 { return mdl.base }

// Derived returns base field plus the sum of all enabled perturbation
// fields. The result is cached until the field list or mask changes.
// The slice is the model's own storage and must not be modified.
func (mdl *Model) Derived() []float32 {
	if mdl.derived != nil && !mdl.dirty {
		return mdl.derived
	}
	d := make([]float32, len(mdl.base))
	copy(d, mdl.base)
	for _, f := range mdl.fields {
		if !f.enabled {
			continue
		}
		for i, fv := range f.vals {
			d[i] += fv
		}
	}
	mdl.derived = d
	mdl.dirty = false
	return d
}

// SetMaterial associates a material library filename and material name with
// the model. The association is pass-through metadata for OBJ export; its
// presence enables texture-coordinate generation.
func (mdl *Model) SetMaterial(library, name string) error {
	if library == "" || name == "" {
		return errorf("%s: material requires both a library filename and a material name", mdl.shape)
	}
	mdl.mtlLib = library
	mdl.mtlName = name
	mdl.mesh = nil
	return nil
}

// SetCaps toggles end caps on cylinder-family shapes. Caps add a center
// vertex per open tube end and close it with a triangle fan.
func (mdl *Model) SetCaps(caps bool) error {
	if !mdl.shape.isTube() {
		return errorf("%s: caps only apply to cylinder, revolution, extrusion and worm shapes", mdl.shape)
	}
	mdl.caps = caps
	mdl.mesh = nil
	return nil
}

func (mdl *Model) invalidate() {
	mdl.dirty = true
	mdl.mesh = nil
}

// appendField registers a freshly computed perturbation field, enabled by
// default. Cartesian disks zero the field outside the disk radius so that
// the derived field always matches the assembled mesh.
func (mdl *Model) appendField(name string, vals []float32) {
	if mdl.shape == ShapeDisk && mdl.cartesian {
		for i := range vals {
			if math32.Hypot(mdl.u[i], mdl.v[i]) > mdl.radius {
				vals[i] = 0
			}
		}
	}
	mdl.fields = append(mdl.fields, perturbation{name: name, vals: vals, enabled: true})
	mdl.invalidate()
}

// periodicFast reports whether the fast (inner) axis wraps around.
func (mdl *Model) periodicFast() bool {
	switch mdl.shape {
	case ShapePlane:
		return false
	case ShapeDisk:
		return !mdl.cartesian
	}
	return true
}

// periodicSlow reports whether the slow (outer) axis wraps around.
// Only the torus is closed along both axes.
func (mdl *Model) periodicSlow() bool {
	return mdl.shape == ShapeTorus
}

// paramDistance is the Euclidean distance between two points in native
// parameter coordinates, with wrap-around on periodic axes.
func (mdl *Model) paramDistance(ua, va, ub, vb float32) float32 {
	du := ub - ua
	dv := vb - va
	if mdl.periodicFast() {
		du = wrapPeriod(du, mdl.u1-mdl.u0)
	}
	if mdl.periodicSlow() {
		dv = wrapPeriod(dv, mdl.v1-mdl.v0)
	}
	return math32.Hypot(du, dv)
}

// composerCoords returns the coordinate fields handed to the sinusoidal
// composer. On shapes with angular axes both coordinates are expressed in
// revolutions rather than radians, so a component frequency means cycles
// per 2π of the native parameterization; on the plane and the cartesian
// disk the native lengths pass through and frequency means cycles per
// coordinate unit.
func (mdl *Model) composerCoords() (x, y []float32) {
	if mdl.shape == ShapePlane || (mdl.shape == ShapeDisk && mdl.cartesian) {
		return mdl.u, mdl.v
	}
	const s = 1 / (2 * math32.Pi)
	x = make([]float32, len(mdl.u))
	y = make([]float32, len(mdl.v))
	for i := range x {
		x[i] = mdl.u[i] * s
		y[i] = mdl.v[i] * s
	}
	return x, y
}

// boundedBase reports whether amplitude-only perturbations must keep their
// summed amplitude below the base field at every point. On these shapes a
// perturbation larger than the local radius folds the surface through its
// own axis.
func (mdl *Model) boundedBase() bool {
	return mdl.shape == ShapeSphere || mdl.shape == ShapeTorus
}

// checkAmplitude enforces the producer-side |amplitude| < base precondition
// for amplitude-only perturbations (sine, noise) on bounded-base shapes.
func (mdl *Model) checkAmplitude(totalAbs float32, what string) error {
	if !mdl.boundedBase() {
		return nil
	}
	minBase := mdl.base[0]
	for _, b := range mdl.base[1:] {
		if b < minBase {
			minBase = b
		}
	}
	if totalAbs >= minBase {
		return errorf("%s: %s amplitude sum %v exceeds minimum base value %v", mdl.shape, what, totalAbs, minBase)
	}
	return nil
}
