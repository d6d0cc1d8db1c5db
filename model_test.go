package shapetoolbox_test

import (
	"testing"

	shapetoolbox "github.com/saarela/ShapeToolbox"
)

// TestMaskAdditivity verifies that disabling one perturbation changes the
// derived field by exactly that field's contribution.
func TestMaskAdditivity(t *testing.T) {
	mdl, err := shapetoolbox.NewSphere(8, 16, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := mdl.AddSine([]shapetoolbox.Component{{Freq: 2, Amp: 0.1}}, nil); err != nil {
		t.Fatal(err)
	}
	if err := mdl.AddSine([]shapetoolbox.Component{{Freq: 5, Amp: 0.05, Orientation: 90}}, nil); err != nil {
		t.Fatal(err)
	}
	full := append([]float32(nil), mdl.Derived()...)
	field1, enabled, err := mdl.Field(1)
	if err != nil {
		t.Fatal(err)
	}
	if !enabled {
		t.Fatal("fields must default to enabled")
	}
	if err := mdl.SetEnabled(1, false); err != nil {
		t.Fatal(err)
	}
	without := mdl.Derived()
	for k := range full {
		if !almostEqual(full[k]-without[k], field1[k], tol) {
			t.Fatalf("sample %d: mask difference %v, want field value %v", k, full[k]-without[k], field1[k])
		}
	}
	// Re-enabling restores the original derived field.
	if err := mdl.SetEnabled(1, true); err != nil {
		t.Fatal(err)
	}
	restored := mdl.Derived()
	for k := range full {
		if !almostEqual(full[k], restored[k], tol) {
			t.Fatalf("sample %d: re-enable mismatch %v vs %v", k, full[k], restored[k])
		}
	}
}

func TestFieldIndexValidation(t *testing.T) {
	mdl, err := shapetoolbox.NewSphere(4, 8, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := mdl.SetEnabled(0, false); err == nil {
		t.Error("expected error toggling a perturbation on an empty model")
	}
	if _, _, err := mdl.Field(-1); err == nil {
		t.Error("expected error for negative perturbation index")
	}
	if _, err := mdl.FieldName(0); err == nil {
		t.Error("expected error naming a perturbation on an empty model")
	}
}

func TestMeshFinalizationIsCached(t *testing.T) {
	mdl, err := shapetoolbox.NewSphere(6, 12, 1)
	if err != nil {
		t.Fatal(err)
	}
	first, err := mdl.Mesh(true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := mdl.Mesh(true)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("mesh was rebuilt although nothing changed")
	}
	// Appending a perturbation invalidates the cache.
	if err := mdl.AddSine([]shapetoolbox.Component{{Freq: 2, Amp: 0.1}}, nil); err != nil {
		t.Fatal(err)
	}
	third, err := mdl.Mesh(true)
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("mesh cache survived a perturbation append")
	}
}

func TestFieldNames(t *testing.T) {
	mdl := mustPlane(t, 4, 5)
	if err := mdl.AddSine(nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := mdl.AddBumps([]shapetoolbox.BumpParams{{Count: 1, Cutoff: 0.5, Amp: 0.1}}, shapetoolbox.BumpOptions{}); err != nil {
		t.Fatal(err)
	}
	if got, err := mdl.FieldName(0); err != nil || got != "sine" {
		t.Errorf("field 0 name %q (%v), want sine", got, err)
	}
	if got, err := mdl.FieldName(1); err != nil || got != "bumps" {
		t.Errorf("field 1 name %q (%v), want bumps", got, err)
	}
	if _, err := mdl.FieldName(2); err == nil {
		t.Error("expected error for out-of-range perturbation index")
	}
}
