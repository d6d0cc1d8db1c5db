package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shapetoolbox "github.com/saarela/ShapeToolbox"
	"github.com/saarela/ShapeToolbox/objfile"
)

func TestParseGrid(t *testing.T) {
	m, n, err := parseGrid("64,128")
	require.NoError(t, err)
	assert.Equal(t, 64, m)
	assert.Equal(t, 128, n)

	m, n, err = parseGrid(" 8 , 16 ")
	require.NoError(t, err)
	assert.Equal(t, 8, m)
	assert.Equal(t, 16, n)

	_, _, err = parseGrid("64")
	assert.Error(t, err)
	_, _, err = parseGrid("a,b")
	assert.Error(t, err)
}

func TestParseCarrierRowsWithDefaults(t *testing.T) {
	comps, err := parseCarriers("8,0.1,90,45,1;16")
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Equal(t, float32(8), comps[0].Freq)
	assert.Equal(t, float32(0.1), comps[0].Amp)
	assert.Equal(t, float32(90), comps[0].Phase)
	assert.Equal(t, float32(45), comps[0].Orientation)
	assert.Equal(t, 1, comps[0].Group)
	// Single-column row takes the carrier defaults.
	assert.Equal(t, float32(16), comps[1].Freq)
	assert.Equal(t, float32(0.1), comps[1].Amp)
	assert.Equal(t, 0, comps[1].Group)
}

func TestParseNoiseRowsInfinity(t *testing.T) {
	rows, err := parseNoiseRows("8,1,0,inf,0.05")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, math.IsInf(float64(rows[0].OrientBandwidth), 1))

	_, err = parseNoiseRows("8,1,0")
	assert.Error(t, err, "short noise row")
}

func TestParseBumpRows(t *testing.T) {
	rows, err := parseBumpRows("10,0.5,0.1;5,0.2,-0.05,0.04")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 10, rows[0].Count)
	assert.Zero(t, rows[0].Sigma)
	assert.Equal(t, float32(0.04), rows[1].Sigma)

	_, err = parseBumpRows("10,0.5")
	assert.Error(t, err)
}

func TestParseOverlap(t *testing.T) {
	p, err := parseOverlap("sum")
	require.NoError(t, err)
	assert.Equal(t, shapetoolbox.OverlapSum, p)
	p, err = parseOverlap("max")
	require.NoError(t, err)
	assert.Equal(t, shapetoolbox.OverlapMax, p)
	_, err = parseOverlap("middle")
	assert.Error(t, err)
}

func TestParseSpine(t *testing.T) {
	spine, err := parseSpine("0,0,0;1,0,0;1,1,0")
	require.NoError(t, err)
	require.Len(t, spine, 3)
	assert.Equal(t, float32(1), spine[2].X)
	assert.Equal(t, float32(1), spine[2].Y)

	_, err = parseSpine("0,0")
	assert.Error(t, err)
}

func TestCylinderCommandWithCaps(t *testing.T) {
	const m, n = 6, 12
	out := filepath.Join(t.TempDir(), "tube.obj")
	rootCmd.SetArgs([]string{
		"cylinder",
		"--npoints", "6,12",
		"--radius", "0.5",
		"--height", "2",
		"--caps",
		"-o", out,
	})
	require.NoError(t, rootCmd.Execute())

	fp, err := os.Open(out)
	require.NoError(t, err)
	defer fp.Close()
	obj, err := objfile.Read(fp)
	require.NoError(t, err)
	assert.Len(t, obj.Vertices, m*n+2, "caps add the two fan-center vertices")
	assert.Len(t, obj.Faces, 2*(m-1)*n+2*n)
}

func TestSphereCommandWritesOBJ(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ball.obj")
	rootCmd.SetArgs([]string{
		"sphere",
		"--npoints", "8,16",
		"--radius", "1",
		"--sine", "4,0.1",
		"--seed", "7",
		"-o", out,
	})
	require.NoError(t, rootCmd.Execute())

	fp, err := os.Open(out)
	require.NoError(t, err)
	defer fp.Close()
	obj, err := objfile.Read(fp)
	require.NoError(t, err)
	assert.Len(t, obj.Vertices, 8*16)
	assert.Len(t, obj.Faces, 2*7*16)
}
