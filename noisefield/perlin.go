package noisefield

import (
	"fmt"

	"github.com/aquilax/go-perlin"
)

// PerlinParams configures an octave-summed Perlin field.
type PerlinParams struct {
	// Scale is the number of base-octave noise periods across the grid.
	// Zero defaults to 4.
	Scale float32
	// Octaves is the number of summed octaves. Zero defaults to 3.
	Octaves int
	// Persistence weights successive octaves. Zero defaults to 2.
	Persistence float32
	// Lacunarity is the frequency multiplier between octaves.
	// Zero defaults to 2.
	Lacunarity float32
	Amp        float32
}

// Perlin synthesizes an m-by-n field of octave-summed Perlin noise scaled
// by p.Amp. The same seed always yields the same field.
func Perlin(m, n int, p PerlinParams, seed int64) ([]float32, error) {
	if m < 2 || n < 2 {
		return nil, fmt.Errorf("noise grid %dx%d too small", m, n)
	}
	scale := p.Scale
	if scale <= 0 {
		scale = 4
	}
	octaves := p.Octaves
	if octaves <= 0 {
		octaves = 3
	}
	persistence := p.Persistence
	if persistence <= 0 {
		persistence = 2
	}
	lacunarity := p.Lacunarity
	if lacunarity <= 0 {
		lacunarity = 2
	}
	gen := perlin.NewPerlin(float64(persistence), float64(lacunarity), int32(octaves), seed)
	out := make([]float32, m*n)
	for i := 0; i < m; i++ {
		y := float64(scale) * float64(i) / float64(m)
		for j := 0; j < n; j++ {
			x := float64(scale) * float64(j) / float64(n)
			out[i*n+j] = p.Amp * float32(gen.Noise2D(x, y))
		}
	}
	return out, nil
}
