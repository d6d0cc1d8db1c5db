package shapetoolbox

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/saarela/ShapeToolbox/noisefield"
)

// AddNoise appends a band-pass filtered noise perturbation field built by
// [noisefield.Spectral] on the model's grid. A nil rng draws fresh entropy;
// pass a seeded *rand.Rand for reproducible fields. On bounded-base shapes
// the summed row amplitudes must stay below the base field.
func (mdl *Model) AddNoise(rows []noisefield.SpectralParams, rng *rand.Rand) error {
	var totalAmp float32
	for _, row := range rows {
		totalAmp += math32.Abs(row.Amp)
	}
	if err := mdl.checkAmplitude(totalAmp, "noise"); err != nil {
		return err
	}
	field, err := noisefield.Spectral(mdl.m, mdl.n, rows, rng)
	if err != nil {
		return errorf("%s: %w", mdl.shape, err)
	}
	mdl.appendField("noise", field)
	return nil
}

// AddPerlin appends an octave-summed Perlin perturbation field. The same
// seed always yields the same field.
func (mdl *Model) AddPerlin(p noisefield.PerlinParams, seed int64) error {
	if err := mdl.checkAmplitude(math32.Abs(p.Amp), "perlin"); err != nil {
		return err
	}
	field, err := noisefield.Perlin(mdl.m, mdl.n, p, seed)
	if err != nil {
		return errorf("%s: %w", mdl.shape, err)
	}
	mdl.appendField("perlin", field)
	return nil
}
