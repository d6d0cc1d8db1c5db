package shapetoolbox

import (
	"github.com/chewxy/math32"
)

// Component is one sinusoidal perturbation component. Components appear in
// two roles: carriers, whose grouped sums add to the perturbation field,
// and modulators, which multiply the carrier sum of their group. Group 0 is
// special: group-0 carriers always add unmodulated, and group-0 modulators
// multiply the entire accumulated sum after all other groups are combined.
//
// Freq is in cycles per unit of the shape's parameter plane. On the plane
// and the cartesian disk the parameters are the native lengths, so Freq is
// cycles per model unit. On every other shape both parameters are scaled by
// 2π before evaluation — including non-angular axes such as a tube's height
// and the polar disk's radius — so Freq there reads as cycles per
// revolution along the wrapping axis and cycles per full span along the
// other.
type Component struct {
	Freq        float32 // see the type comment for units
	Amp         float32
	Phase       float32 // degrees
	Orientation float32 // degrees, direction of the wave in the parameter plane
	Group       int
}

// ParseCarrierRow builds a carrier Component from a 1 to 5 element row
// [frequency amplitude phase orientation group]. Missing trailing columns
// default to 0.1, 0, 0, 0.
func ParseCarrierRow(row []float32) (Component, error) {
	return parseRow(row, 0.1)
}

// ParseModulatorRow builds a modulator Component from a 1 to 5 element row.
// Missing trailing columns default to 1, 0, 0, 0.
func ParseModulatorRow(row []float32) (Component, error) {
	return parseRow(row, 1)
}

func parseRow(row []float32, defaultAmp float32) (Component, error) {
	c := Component{Amp: defaultAmp}
	switch len(row) {
	case 5:
		c.Group = int(row[4])
		fallthrough
	case 4:
		c.Orientation = row[3]
		fallthrough
	case 3:
		c.Phase = row[2]
		fallthrough
	case 2:
		c.Amp = row[1]
		fallthrough
	case 1:
		c.Freq = row[0]
	default:
		return Component{}, errorf("component row must have 1 to 5 columns, got %d", len(row))
	}
	return c, nil
}

// AddSine appends one perturbation field computed from the carrier and
// modulator component stacks evaluated over the model's native parameter
// coordinates. An empty carrier list yields a zero field. On bounded-base
// shapes the worst-case summed amplitude must stay below the base field.
func (mdl *Model) AddSine(carriers, modulators []Component) error {
	if err := mdl.checkAmplitude(worstCaseAmplitude(carriers, modulators), "sine"); err != nil {
		return err
	}
	x, y := mdl.composerCoords()
	field := composeComponents(carriers, modulators, x, y)
	mdl.appendField("sine", field)
	return nil
}

// composeComponents evaluates the grouped carrier/modulator stacks at every
// sample of the coordinate fields x, y:
//
//   - carriers sharing a group are summed,
//   - a nonzero group with at least one modulator has its carrier sum
//     multiplied pointwise by that group's modulator sum,
//   - group 0 carriers add unmodulated,
//   - group 0 modulators multiply the total after all groups are summed.
func composeComponents(carriers, modulators []Component, x, y []float32) []float32 {
	out := make([]float32, len(x))
	if len(carriers) == 0 {
		return out
	}
	tmp := make([]float32, len(x))
	mod := make([]float32, len(x))
	for _, g := range carrierGroups(carriers) {
		sumWaves(tmp, carriers, g, x, y)
		if g != 0 && hasGroup(modulators, g) {
			sumWaves(mod, modulators, g, x, y)
			for i := range tmp {
				tmp[i] *= mod[i]
			}
		}
		for i := range out {
			out[i] += tmp[i]
		}
	}
	if hasGroup(modulators, 0) {
		sumWaves(mod, modulators, 0, x, y)
		for i := range out {
			out[i] *= mod[i]
		}
	}
	return out
}

// carrierGroups returns the distinct group ids in order of first appearance.
func carrierGroups(carriers []Component) []int {
	var groups []int
	seen := make(map[int]bool, len(carriers))
	for _, c := range carriers {
		if !seen[c.Group] {
			seen[c.Group] = true
			groups = append(groups, c.Group)
		}
	}
	return groups
}

func hasGroup(comps []Component, group int) bool {
	for _, c := range comps {
		if c.Group == group {
			return true
		}
	}
	return false
}

// sumWaves overwrites dst with the sum of the plane sine waves of the
// components belonging to group. Phase and orientation are converted from
// degrees here, at evaluation time.
func sumWaves(dst []float32, comps []Component, group int, x, y []float32) {
	for i := range dst {
		dst[i] = 0
	}
	for _, c := range comps {
		if c.Group != group {
			continue
		}
		w := 2 * math32.Pi * c.Freq
		ph := dtor(c.Phase)
		so, co := math32.Sincos(dtor(c.Orientation))
		for i := range dst {
			dst[i] += c.Amp * math32.Sin(w*(x[i]*co+y[i]*so)+ph)
		}
	}
}

// worstCaseAmplitude bounds |composeComponents| from above: per-group sums
// of carrier |amplitudes|, scaled by the group's modulator amplitude sum
// when one exists, then by the group-0 modulator sum.
func worstCaseAmplitude(carriers, modulators []Component) float32 {
	var total float32
	for _, g := range carrierGroups(carriers) {
		var ga float32
		for _, c := range carriers {
			if c.Group == g {
				ga += math32.Abs(c.Amp)
			}
		}
		if g != 0 && hasGroup(modulators, g) {
			var ma float32
			for _, m := range modulators {
				if m.Group == g {
					ma += math32.Abs(m.Amp)
				}
			}
			ga *= ma
		}
		total += ga
	}
	if hasGroup(modulators, 0) {
		var ma float32
		for _, m := range modulators {
			if m.Group == 0 {
				ma += math32.Abs(m.Amp)
			}
		}
		total *= ma
	}
	return total
}

// AddMajorSine perturbs the torus major radius with a sinusoidal component
// stack evaluated over the same parameter grid. The major-radius field is
// independent of the minor-radius perturbation list and is not subject to
// the enable mask.
func (mdl *Model) AddMajorSine(carriers, modulators []Component) error {
	if mdl.shape != ShapeTorus {
		return errorf("%s: major-radius perturbation only applies to the torus", mdl.shape)
	}
	x, y := mdl.composerCoords()
	field := composeComponents(carriers, modulators, x, y)
	for i, fv := range field {
		mdl.majorField[i] += fv
	}
	mdl.mesh = nil
	return nil
}
