package shapetoolbox_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	shapetoolbox "github.com/saarela/ShapeToolbox"
)

func TestUnperturbedSphereHasUnitNorm(t *testing.T) {
	mdl, err := shapetoolbox.NewSphere(8, 16, 1)
	if err != nil {
		t.Fatal(err)
	}
	msh, err := mdl.Mesh(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(msh.Vertices) != 8*16 {
		t.Fatalf("vertex count %d, want %d", len(msh.Vertices), 8*16)
	}
	for i, v := range msh.Vertices {
		if !almostEqual(ms3.Norm(v), 1, tol) {
			t.Fatalf("vertex %d norm %v, want 1", i, ms3.Norm(v))
		}
	}
}

func TestUnperturbedPlaneIsFlat(t *testing.T) {
	mdl, err := shapetoolbox.NewPlane(5, 6, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	msh, err := mdl.Mesh(false)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range msh.Vertices {
		if v.Z != 0 {
			t.Fatalf("vertex %d has height %v, want 0", i, v.Z)
		}
		if v.X < -1-tol || v.X > 1+tol || v.Y < -1.5-tol || v.Y > 1.5+tol {
			t.Fatalf("vertex %d out of plane bounds: %+v", i, v)
		}
	}
}

func TestUnperturbedTorusClosedForm(t *testing.T) {
	const major, minor = 1.5, 0.4
	mdl, err := shapetoolbox.NewTorus(12, 16, major, minor)
	if err != nil {
		t.Fatal(err)
	}
	msh, err := mdl.Mesh(false)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range msh.Vertices {
		ring := math32.Hypot(v.X, v.Y) - major
		if d := math32.Hypot(ring, v.Z); !almostEqual(d, minor, tol) {
			t.Fatalf("vertex %d tube distance %v, want %v", i, d, minor)
		}
	}
}

func TestUnperturbedCylinderRadius(t *testing.T) {
	mdl, err := shapetoolbox.NewCylinder(6, 12, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	msh, err := mdl.Mesh(false)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range msh.Vertices {
		if !almostEqual(math32.Hypot(v.X, v.Y), 1, tol) {
			t.Fatalf("vertex %d radius %v, want 1", i, math32.Hypot(v.X, v.Y))
		}
		if v.Z < -2-tol || v.Z > 2+tol {
			t.Fatalf("vertex %d axial position %v outside [-2,2]", i, v.Z)
		}
	}
}

func TestRevolutionFollowsRadiusCurve(t *testing.T) {
	// Linear taper from radius 1 to 0.5 over the tube height.
	rcurve := []float32{1, 0.5}
	const m, n = 5, 12
	mdl, err := shapetoolbox.NewRevolution(m, n, 1, 2, rcurve)
	if err != nil {
		t.Fatal(err)
	}
	msh, err := mdl.Mesh(false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < m; i++ {
		want := 1 - 0.5*float32(i)/float32(m-1)
		for j := 0; j < n; j++ {
			v := msh.Vertices[i*n+j]
			if got := math32.Hypot(v.X, v.Y); !almostEqual(got, want, tol) {
				t.Fatalf("row %d col %d: radius %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestWormWithStraightSpineMatchesCylinder(t *testing.T) {
	const m, n = 6, 10
	spine := []ms3.Vec{{Z: -2}, {Z: 2}}
	worm, err := shapetoolbox.NewWorm(m, n, 0.5, spine)
	if err != nil {
		t.Fatal(err)
	}
	wmesh, err := worm.Mesh(false)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range wmesh.Vertices {
		if !almostEqual(math32.Hypot(v.X, v.Y), 0.5, tol) {
			t.Fatalf("vertex %d radius %v, want 0.5", i, math32.Hypot(v.X, v.Y))
		}
		if v.Z < -2-tol || v.Z > 2+tol {
			t.Fatalf("vertex %d axial position %v outside spine", i, v.Z)
		}
	}
}

// TestSphereSineScenario is the reference scenario: an 8x16 sphere with a
// single [2, 0.1] carrier must keep radius 1 at azimuth 0 and reach 1.1 at
// the sample nearest π/4.
func TestSphereSineScenario(t *testing.T) {
	const m, n = 8, 16
	mdl, err := shapetoolbox.NewSphere(m, n, 1)
	if err != nil {
		t.Fatal(err)
	}
	carrier, err := shapetoolbox.ParseCarrierRow([]float32{2, 0.1, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := mdl.AddSine([]shapetoolbox.Component{carrier}, nil); err != nil {
		t.Fatal(err)
	}
	derived := mdl.Derived()
	// Azimuth samples cover [-π, π) in steps of π/8: index 8 is azimuth 0,
	// index 10 is azimuth π/4.
	for i := 0; i < m; i++ {
		if r := derived[i*n+8]; !almostEqual(r, 1.0, 1e-4) {
			t.Fatalf("row %d azimuth 0: radius %v, want 1.0", i, r)
		}
		if r := derived[i*n+10]; !almostEqual(r, 1.1, 1e-4) {
			t.Fatalf("row %d azimuth π/4: radius %v, want 1.1", i, r)
		}
	}
}

// TestMinimalPlaneGrid covers the smallest legal non-periodic grid: a 2x2
// plane builds a single quad, while wrapping shapes still need 3 fast-axis
// samples to close.
func TestMinimalPlaneGrid(t *testing.T) {
	mdl, err := shapetoolbox.NewPlane(2, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	msh, err := mdl.Mesh(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(msh.Vertices) != 4 || len(msh.Faces) != 2 {
		t.Errorf("2x2 plane: %d vertices, %d faces; want 4 and 2", len(msh.Vertices), len(msh.Faces))
	}
	for i, v := range msh.Vertices {
		if v.Z != 0 {
			t.Errorf("vertex %d height %v, want 0", i, v.Z)
		}
	}
	if _, err := shapetoolbox.NewDiskCartesian(2, 2, 1); err != nil {
		t.Errorf("2x2 cartesian disk rejected: %v", err)
	}
	if _, err := shapetoolbox.NewSphere(8, 2, 1); err == nil {
		t.Error("expected error for 2 samples on a wrapping azimuth axis")
	}
	if _, err := shapetoolbox.NewCylinder(8, 2, 1, 1); err == nil {
		t.Error("expected error for 2 samples on a wrapping angle axis")
	}
}

func TestConstructorValidation(t *testing.T) {
	if _, err := shapetoolbox.NewSphere(1, 16, 1); err == nil {
		t.Error("expected error for too-small grid")
	}
	if _, err := shapetoolbox.NewSphere(8, 16, -1); err == nil {
		t.Error("expected error for negative radius")
	}
	if _, err := shapetoolbox.NewPlane(8, 16, 0, 1); err == nil {
		t.Error("expected error for zero plane width")
	}
	if _, err := shapetoolbox.NewTorus(8, 16, 1, 1.5); err == nil {
		t.Error("expected error for minor radius exceeding major")
	}
	if _, err := shapetoolbox.NewRevolution(8, 16, 1, 0, nil); err == nil {
		t.Error("expected error for empty revolution curve")
	}
	if _, err := shapetoolbox.NewWorm(8, 16, 1, nil); err == nil {
		t.Error("expected error for missing worm spine")
	}
	if _, err := shapetoolbox.NewWorm(8, 16, 1, []ms3.Vec{{}, {}}); err == nil {
		t.Error("expected error for zero-length spine")
	}
}

func TestParseShape(t *testing.T) {
	for _, name := range []string{"sphere", "plane", "disk", "torus", "cylinder", "revolution", "extrusion", "worm"} {
		shape, err := shapetoolbox.ParseShape(name)
		if err != nil {
			t.Fatal(err)
		}
		if shape.String() != name {
			t.Errorf("round trip %q -> %q", name, shape.String())
		}
	}
	if _, err := shapetoolbox.ParseShape("cube"); err == nil {
		t.Error("expected error for unknown shape name")
	}
}

func TestAmplitudePreconditionFailsBeforeMutation(t *testing.T) {
	mdl, err := shapetoolbox.NewSphere(8, 16, 1)
	if err != nil {
		t.Fatal(err)
	}
	err = mdl.AddSine([]shapetoolbox.Component{{Freq: 2, Amp: 1.5}}, nil)
	if err == nil {
		t.Fatal("expected amplitude precondition error")
	}
	if mdl.NumFields() != 0 {
		t.Fatalf("model mutated by failed call: %d fields", mdl.NumFields())
	}
	// The same amplitude is fine on a plane, whose base is unbounded.
	plane := mustPlane(t, 8, 16)
	if err := plane.AddSine([]shapetoolbox.Component{{Freq: 2, Amp: 1.5}}, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSetCapsOnlyOnTubes(t *testing.T) {
	mdl, err := shapetoolbox.NewSphere(8, 16, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := mdl.SetCaps(true); err == nil {
		t.Error("expected error setting caps on a sphere")
	}
}
