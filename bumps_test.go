package shapetoolbox_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	shapetoolbox "github.com/saarela/ShapeToolbox"
)

// TestOverlapMaxKeepsSingleContribution covers overlapping bumps of equal
// value with a constant profile: under the max policy the field stays at
// the single-bump value, under sum it doubles where both bumps cover.
func TestOverlapMaxKeepsSingleContribution(t *testing.T) {
	flat := func(d float32, args []float32) float32 { return args[0] }
	// Cutoff 10 covers the whole 2x2 plane domain from any center.
	rows := []shapetoolbox.CustomParams{
		{Count: 1, Cutoff: 10, Args: []float32{0.3}},
		{Count: 1, Cutoff: 10, Args: []float32{0.3}},
	}

	maxed := mustPlane(t, 5, 5)
	opts := shapetoolbox.BumpOptions{Overlap: shapetoolbox.OverlapMax, Rand: rand.New(rand.NewSource(1))}
	if err := maxed.AddCustom(flat, rows, opts); err != nil {
		t.Fatal(err)
	}
	for k, d := range maxed.Derived() {
		if !almostEqual(d, 0.3, tol) {
			t.Fatalf("sample %d: max policy gave %v, want 0.3", k, d)
		}
	}

	summed := mustPlane(t, 5, 5)
	opts.Overlap = shapetoolbox.OverlapSum
	opts.Rand = rand.New(rand.NewSource(1))
	if err := summed.AddCustom(flat, rows, opts); err != nil {
		t.Fatal(err)
	}
	for k, d := range summed.Derived() {
		if !almostEqual(d, 0.6, tol) {
			t.Fatalf("sample %d: sum policy gave %v, want 0.6", k, d)
		}
	}
}

func TestGaussianBumpBounds(t *testing.T) {
	mdl := mustPlane(t, 32, 32)
	rng := rand.New(rand.NewSource(3))
	rows := []shapetoolbox.BumpParams{{Count: 4, Cutoff: 0.5, Amp: 0.2}}
	if err := mdl.AddBumps(rows, shapetoolbox.BumpOptions{Rand: rng}); err != nil {
		t.Fatal(err)
	}
	var peak float32
	for k, d := range mdl.Derived() {
		if d < -tol || d > 0.2*4+tol {
			t.Fatalf("sample %d: value %v outside bump bounds", k, d)
		}
		if d > peak {
			peak = d
		}
	}
	if peak <= 0 {
		t.Error("bump field is identically zero")
	}
}

func TestNegativeAmplitudeMakesDents(t *testing.T) {
	mdl := mustPlane(t, 16, 16)
	rng := rand.New(rand.NewSource(7))
	rows := []shapetoolbox.BumpParams{{Count: 2, Cutoff: 0.6, Amp: -0.25}}
	if err := mdl.AddBumps(rows, shapetoolbox.BumpOptions{Rand: rng}); err != nil {
		t.Fatal(err)
	}
	var low float32
	for _, d := range mdl.Derived() {
		if d > tol {
			t.Fatalf("dent field has positive value %v", d)
		}
		if d < low {
			low = d
		}
	}
	if low >= 0 {
		t.Error("dent field is identically zero")
	}
}

func TestMinDistanceUnsatisfiableFails(t *testing.T) {
	mdl := mustPlane(t, 8, 8)
	rng := rand.New(rand.NewSource(1))
	// 500 centers at pairwise distance 1 cannot fit a 2x2 domain.
	rows := []shapetoolbox.BumpParams{{Count: 500, Cutoff: 0.1, Amp: 0.1}}
	err := mdl.AddBumps(rows, shapetoolbox.BumpOptions{MinDist: 1, Rand: rng})
	if !errors.Is(err, shapetoolbox.ErrBumpPlacement) {
		t.Fatalf("got %v, want ErrBumpPlacement", err)
	}
	if mdl.NumFields() != 0 {
		t.Error("failed placement must not mutate the model")
	}
}

func TestBumpRowValidation(t *testing.T) {
	mdl := mustPlane(t, 8, 8)
	if err := mdl.AddBumps([]shapetoolbox.BumpParams{{Count: 0, Cutoff: 1, Amp: 0.1}}, shapetoolbox.BumpOptions{}); err == nil {
		t.Error("expected error for zero bump count")
	}
	if err := mdl.AddBumps([]shapetoolbox.BumpParams{{Count: 1, Cutoff: -1, Amp: 0.1}}, shapetoolbox.BumpOptions{}); err == nil {
		t.Error("expected error for negative cutoff")
	}
	if err := mdl.AddCustom(nil, nil, shapetoolbox.BumpOptions{}); err == nil {
		t.Error("expected error for nil profile function")
	}
}

func TestSeededPlacementIsReproducible(t *testing.T) {
	rows := []shapetoolbox.BumpParams{{Count: 5, Cutoff: 0.4, Amp: 0.1}}
	a := mustPlane(t, 16, 16)
	if err := a.AddBumps(rows, shapetoolbox.BumpOptions{Rand: rand.New(rand.NewSource(42))}); err != nil {
		t.Fatal(err)
	}
	b := mustPlane(t, 16, 16)
	if err := b.AddBumps(rows, shapetoolbox.BumpOptions{Rand: rand.New(rand.NewSource(42))}); err != nil {
		t.Fatal(err)
	}
	da, db := a.Derived(), b.Derived()
	for k := range da {
		if da[k] != db[k] {
			t.Fatalf("sample %d: %v != %v with identical seeds", k, da[k], db[k])
		}
	}
}

func TestCustomProfileReceivesArgs(t *testing.T) {
	mdl := mustPlane(t, 8, 8)
	sawArgs := false
	profile := func(d float32, args []float32) float32 {
		sawArgs = len(args) == 2 && args[0] == 1 && args[1] == 2
		return math32.Max(0, args[0]-d*args[1])
	}
	rows := []shapetoolbox.CustomParams{{Count: 1, Cutoff: 0.5, Args: []float32{1, 2}}}
	if err := mdl.AddCustom(profile, rows, shapetoolbox.BumpOptions{Rand: rand.New(rand.NewSource(1))}); err != nil {
		t.Fatal(err)
	}
	if !sawArgs {
		t.Error("profile did not receive its row arguments")
	}
}
