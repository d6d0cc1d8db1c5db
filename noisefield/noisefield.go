// Package noisefield synthesizes 2D scalar noise fields matched to a
// model's parameter grid: band-pass filtered white noise built in the
// frequency domain, and an fBm Perlin alternative.
package noisefield

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// SpectralParams is one noise component row. The synthesized field is white
// noise filtered by a band-pass that is Gaussian both radially (in log2
// frequency, so FreqBandwidth is expressed in octaves) and angularly
// (FWHM degrees around Orientation). An infinite OrientBandwidth disables
// the angular restriction entirely, giving isotropic noise.
type SpectralParams struct {
	// Freq is the center frequency in cycles per grid extent.
	Freq float32
	// FreqBandwidth is the full width at half maximum of the radial band
	// in octaves. Zero defaults to 1 octave.
	FreqBandwidth float32
	// Orientation is the filter direction in degrees.
	Orientation float32
	// OrientBandwidth is the angular FWHM in degrees.
	// math.Inf selects isotropic noise.
	OrientBandwidth float32
	Amp             float32
}

// fwhmToSigma converts a full width at half maximum to a Gaussian sigma.
var fwhmToSigma = 1 / (2 * math.Sqrt(2*math.Ln2))

// Spectral synthesizes one field of m rows by n columns as the sum of the
// component rows. Each row draws fresh white noise from rng, filters its
// spectrum, inverse-transforms, normalizes the result to unit RMS and
// scales by the row amplitude. A nil rng draws time-seeded entropy, making
// results non-reproducible across calls; pass a seeded *rand.Rand for
// deterministic output.
func Spectral(m, n int, rows []SpectralParams, rng *rand.Rand) ([]float32, error) {
	if m < 2 || n < 2 {
		return nil, fmt.Errorf("noise grid %dx%d too small", m, n)
	}
	if len(rows) == 0 {
		return nil, errors.New("no noise component rows")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	out := make([]float32, m*n)
	spec := make([]complex128, m*n)
	for ri, row := range rows {
		if row.Freq <= 0 {
			return nil, fmt.Errorf("noise row %d: non-positive center frequency %v", ri, row.Freq)
		}
		fbw := float64(row.FreqBandwidth)
		if fbw <= 0 {
			fbw = 1
		}
		for i := range spec {
			spec[i] = complex(rng.NormFloat64(), 0)
		}
		fft2(spec, m, n, false)
		applyBandpass(spec, m, n, float64(row.Freq), fbw, float64(row.Orientation), float64(row.OrientBandwidth))
		fft2(spec, m, n, true)

		// The inverse transform is unnormalized, but the scale washes out
		// in the RMS normalization below.
		var sumsq float64
		for _, c := range spec {
			sumsq += real(c) * real(c)
		}
		rms := math.Sqrt(sumsq / float64(m*n))
		if rms == 0 {
			return nil, fmt.Errorf("noise row %d: filter passed no energy (frequency %v outside grid band?)", ri, row.Freq)
		}
		scale := float64(row.Amp) / rms
		for i, c := range spec {
			out[i] += float32(real(c) * scale)
		}
	}
	return out, nil
}

// applyBandpass multiplies the spectrum by the polar band-pass filter.
// Both factors are even under point reflection of the frequency plane,
// preserving the Hermitian symmetry that keeps the spatial field real.
func applyBandpass(spec []complex128, m, n int, f0, fbwOct, orientDeg, obwDeg float64) {
	sigmaF := fbwOct * fwhmToSigma
	isotropic := math.IsInf(obwDeg, 0)
	var sigmaA, orient float64
	if !isotropic {
		sigmaA = obwDeg * math.Pi / 180 * fwhmToSigma
		orient = orientDeg * math.Pi / 180
	}
	for i := 0; i < m; i++ {
		fy := float64(i)
		if i > m/2 {
			fy = float64(i - m)
		}
		for j := 0; j < n; j++ {
			fx := float64(j)
			if j > n/2 {
				fx = float64(j - n)
			}
			k := i*n + j
			f := math.Hypot(fx, fy)
			if f == 0 {
				spec[k] = 0 // kill DC
				continue
			}
			lf := math.Log2(f / f0)
			g := math.Exp(-lf * lf / (2 * sigmaF * sigmaF))
			if !isotropic {
				da := angleDiffHalf(math.Atan2(fy, fx) - orient)
				g *= math.Exp(-da * da / (2 * sigmaA * sigmaA))
			}
			spec[k] *= complex(g, 0)
		}
	}
}

// angleDiffHalf wraps an orientation difference into [-π/2, π/2]; spectral
// orientation is only defined modulo π for a real-valued field.
func angleDiffHalf(d float64) float64 {
	d = math.Mod(d, math.Pi)
	if d > math.Pi/2 {
		d -= math.Pi
	} else if d < -math.Pi/2 {
		d += math.Pi
	}
	return d
}
