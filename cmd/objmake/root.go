package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/soypat/geometry/ms3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	shapetoolbox "github.com/saarela/ShapeToolbox"
	"github.com/saarela/ShapeToolbox/noisefield"
)

var rootCmd = &cobra.Command{
	Use:   "objmake",
	Short: "Generate perturbed parametric meshes as Wavefront OBJ files",
	Long: `objmake builds parametric 3D shapes (sphere, plane, disk, torus,
cylinder, revolution, extrusion, worm), perturbs their surfaces with
sinusoidal components, filtered noise, Perlin noise, random bumps or
images, and writes the result as a Wavefront OBJ file.

Component rows are given as comma-separated columns with rows separated
by semicolons, e.g. --sine "8,0.1,0,0,0;16,0.05".`,
}

// Execute runs the CLI, exiting nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	for _, shape := range []string{"sphere", "plane", "disk", "torus", "cylinder", "revolution", "extrusion", "worm"} {
		shape := shape
		cmd := &cobra.Command{
			Use:   shape,
			Short: "Generate a perturbed " + shape + " mesh",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runShape(cmd, shape)
			},
		}
		addShapeFlags(cmd.Flags())
		rootCmd.AddCommand(cmd)
	}
}

func addShapeFlags(fs *pflag.FlagSet) {
	fs.String("npoints", "64,128", "grid resolution as slow,fast sample counts")
	fs.Float32("radius", 1, "nominal radius (sphere, disk, torus minor, cylinder family)")
	fs.Float32("major", 1.5, "torus major radius")
	fs.Float32("width", 1, "plane width")
	fs.Float32("height", 0, "plane height, or tube length (0 selects the default)")
	fs.Bool("cartesian", false, "sample the disk on an x/y grid instead of angle/radius")
	fs.String("rcurve", "", "radius-vs-height curve values (revolution)")
	fs.String("ecurve", "", "radius-vs-angle curve values (extrusion)")
	fs.String("spine", "", "worm spine as x,y,z triples separated by semicolons")
	fs.Bool("caps", false, "close tube ends with triangle fans")

	fs.String("sine", "", "sinusoidal carrier rows: freq,amp,phase,orientation,group")
	fs.String("mod", "", "sinusoidal modulator rows")
	fs.String("major-sine", "", "torus major-radius carrier rows")
	fs.String("noise", "", "noise rows: freq,freqbw,orientation,orientbw,amp (orientbw inf = isotropic)")
	fs.String("perlin", "", "perlin row: scale,octaves,persistence,lacunarity,amp")
	fs.String("bumps", "", "bump rows: count,cutoff,amp,sigma")
	fs.Float32("mindist", 0, "minimum distance between bump centers")
	fs.String("overlap", "sum", "bump overlap policy: sum or max")
	fs.String("image", "", "image file used as a perturbation field")
	fs.Float32("image-amp", 0.1, "peak amplitude for the image field")
	fs.Int64("seed", 0, "random seed for noise and bump placement (0 draws fresh entropy)")

	fs.Bool("normals", false, "compute per-vertex normals")
	fs.String("material", "", "material association as library.mtl:name")
	fs.StringP("output", "o", "", "output OBJ path (default <shape>.obj)")
}

func runShape(cmd *cobra.Command, shape string) error {
	mdl, err := buildModel(cmd, shape)
	if err != nil {
		return err
	}
	if err := applyPerturbations(cmd, mdl); err != nil {
		return err
	}
	normals, _ := cmd.Flags().GetBool("normals")
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = shape + ".obj"
	}
	if err := mdl.SaveOBJ(out, normals); err != nil {
		return err
	}
	msh, err := mdl.Mesh(normals)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d vertices, %d faces\n", out, len(msh.Vertices), len(msh.Faces))
	return nil
}

func buildModel(cmd *cobra.Command, shape string) (*shapetoolbox.Model, error) {
	fs := cmd.Flags()
	m, n, err := parseGrid(mustString(fs, "npoints"))
	if err != nil {
		return nil, err
	}
	radius, _ := fs.GetFloat32("radius")
	height, _ := fs.GetFloat32("height")
	switch shape {
	case "sphere":
		return shapetoolbox.NewSphere(m, n, radius)
	case "plane":
		width, _ := fs.GetFloat32("width")
		if height <= 0 {
			height = width
		}
		return shapetoolbox.NewPlane(m, n, width, height)
	case "disk":
		if cart, _ := fs.GetBool("cartesian"); cart {
			return shapetoolbox.NewDiskCartesian(m, n, radius)
		}
		return shapetoolbox.NewDisk(m, n, radius)
	case "torus":
		major, _ := fs.GetFloat32("major")
		mdl, err := shapetoolbox.NewTorus(m, n, major, radius)
		if err != nil {
			return nil, err
		}
		if rows := mustString(fs, "major-sine"); rows != "" {
			carriers, err := parseCarriers(rows)
			if err != nil {
				return nil, err
			}
			if err := mdl.AddMajorSine(carriers, nil); err != nil {
				return nil, err
			}
		}
		return mdl, nil
	case "cylinder":
		mdl, err := shapetoolbox.NewCylinder(m, n, radius, height)
		return applyCaps(fs, mdl, err)
	case "revolution":
		rc, err := parseFloats(mustString(fs, "rcurve"))
		if err != nil {
			return nil, err
		}
		mdl, err := shapetoolbox.NewRevolution(m, n, radius, height, rc)
		return applyCaps(fs, mdl, err)
	case "extrusion":
		ec, err := parseFloats(mustString(fs, "ecurve"))
		if err != nil {
			return nil, err
		}
		mdl, err := shapetoolbox.NewExtrusion(m, n, radius, height, ec)
		return applyCaps(fs, mdl, err)
	case "worm":
		spine, err := parseSpine(mustString(fs, "spine"))
		if err != nil {
			return nil, err
		}
		mdl, err := shapetoolbox.NewWorm(m, n, radius, spine)
		return applyCaps(fs, mdl, err)
	}
	return nil, fmt.Errorf("unknown shape %q", shape)
}

func applyCaps(fs *pflag.FlagSet, mdl *shapetoolbox.Model, err error) (*shapetoolbox.Model, error) {
	if err != nil {
		return nil, err
	}
	if caps, _ := fs.GetBool("caps"); caps {
		if err := mdl.SetCaps(true); err != nil {
			return nil, err
		}
	}
	return mdl, nil
}

// applyPerturbations appends the flag-selected perturbations in a fixed
// order: sine, noise, perlin, bumps, image.
func applyPerturbations(cmd *cobra.Command, mdl *shapetoolbox.Model) error {
	fs := cmd.Flags()
	seed, _ := fs.GetInt64("seed")
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}

	if rows := mustString(fs, "sine"); rows != "" {
		carriers, err := parseCarriers(rows)
		if err != nil {
			return err
		}
		var modulators []shapetoolbox.Component
		if mrows := mustString(fs, "mod"); mrows != "" {
			if modulators, err = parseModulators(mrows); err != nil {
				return err
			}
		}
		if err := mdl.AddSine(carriers, modulators); err != nil {
			return err
		}
	}
	if rows := mustString(fs, "noise"); rows != "" {
		params, err := parseNoiseRows(rows)
		if err != nil {
			return err
		}
		if err := mdl.AddNoise(params, rng); err != nil {
			return err
		}
	}
	if row := mustString(fs, "perlin"); row != "" {
		p, err := parsePerlinRow(row)
		if err != nil {
			return err
		}
		if err := mdl.AddPerlin(p, seed); err != nil {
			return err
		}
	}
	if rows := mustString(fs, "bumps"); rows != "" {
		params, err := parseBumpRows(rows)
		if err != nil {
			return err
		}
		mindist, _ := fs.GetFloat32("mindist")
		overlap, err := parseOverlap(mustString(fs, "overlap"))
		if err != nil {
			return err
		}
		opts := shapetoolbox.BumpOptions{MinDist: mindist, Overlap: overlap, Rand: rng}
		if err := mdl.AddBumps(params, opts); err != nil {
			return err
		}
	}
	if path := mustString(fs, "image"); path != "" {
		amp, _ := fs.GetFloat32("image-amp")
		if err := mdl.AddImage(path, amp); err != nil {
			return err
		}
	}
	if mat := mustString(fs, "material"); mat != "" {
		lib, name, ok := strings.Cut(mat, ":")
		if !ok {
			return fmt.Errorf("material must be library.mtl:name, got %q", mat)
		}
		if err := mdl.SetMaterial(lib, name); err != nil {
			return err
		}
	}
	return nil
}

func mustString(fs *pflag.FlagSet, name string) string {
	s, _ := fs.GetString(name)
	return s
}

func parseGrid(s string) (m, n int, err error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("npoints must be two comma-separated integers, got %q", s)
	}
	if m, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, err
	}
	if n, err = strconv.Atoi(strings.TrimSpace(b)); err != nil {
		return 0, 0, err
	}
	return m, n, nil
}

// parseRows splits semicolon-separated rows of comma-separated floats.
// "inf" and "-inf" parse to infinities for the orientation bandwidth.
func parseRows(s string) ([][]float32, error) {
	var rows [][]float32
	for _, rs := range strings.Split(s, ";") {
		row, err := parseFloats(rs)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFloats(s string) ([]float32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var vals []float32
	for _, c := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", c, err)
		}
		vals = append(vals, float32(f))
	}
	return vals, nil
}

func parseCarriers(s string) ([]shapetoolbox.Component, error) {
	rows, err := parseRows(s)
	if err != nil {
		return nil, err
	}
	comps := make([]shapetoolbox.Component, len(rows))
	for i, row := range rows {
		if comps[i], err = shapetoolbox.ParseCarrierRow(row); err != nil {
			return nil, err
		}
	}
	return comps, nil
}

func parseModulators(s string) ([]shapetoolbox.Component, error) {
	rows, err := parseRows(s)
	if err != nil {
		return nil, err
	}
	comps := make([]shapetoolbox.Component, len(rows))
	for i, row := range rows {
		if comps[i], err = shapetoolbox.ParseModulatorRow(row); err != nil {
			return nil, err
		}
	}
	return comps, nil
}

func parseNoiseRows(s string) ([]noisefield.SpectralParams, error) {
	rows, err := parseRows(s)
	if err != nil {
		return nil, err
	}
	params := make([]noisefield.SpectralParams, len(rows))
	for i, row := range rows {
		if len(row) != 5 {
			return nil, fmt.Errorf("noise row %d: want 5 columns freq,freqbw,orientation,orientbw,amp, got %d", i, len(row))
		}
		params[i] = noisefield.SpectralParams{
			Freq:            row[0],
			FreqBandwidth:   row[1],
			Orientation:     row[2],
			OrientBandwidth: row[3],
			Amp:             row[4],
		}
	}
	return params, nil
}

func parsePerlinRow(s string) (noisefield.PerlinParams, error) {
	row, err := parseFloats(s)
	if err != nil || len(row) != 5 {
		return noisefield.PerlinParams{}, fmt.Errorf("perlin row must be scale,octaves,persistence,lacunarity,amp")
	}
	return noisefield.PerlinParams{
		Scale:       row[0],
		Octaves:     int(row[1]),
		Persistence: row[2],
		Lacunarity:  row[3],
		Amp:         row[4],
	}, nil
}

func parseBumpRows(s string) ([]shapetoolbox.BumpParams, error) {
	rows, err := parseRows(s)
	if err != nil {
		return nil, err
	}
	params := make([]shapetoolbox.BumpParams, len(rows))
	for i, row := range rows {
		if len(row) < 3 || len(row) > 4 {
			return nil, fmt.Errorf("bump row %d: want 3 or 4 columns count,cutoff,amp[,sigma], got %d", i, len(row))
		}
		params[i] = shapetoolbox.BumpParams{Count: int(row[0]), Cutoff: row[1], Amp: row[2]}
		if len(row) == 4 {
			params[i].Sigma = row[3]
		}
	}
	return params, nil
}

func parseOverlap(s string) (shapetoolbox.OverlapPolicy, error) {
	switch s {
	case "sum":
		return shapetoolbox.OverlapSum, nil
	case "max":
		return shapetoolbox.OverlapMax, nil
	}
	return 0, fmt.Errorf("overlap policy must be sum or max, got %q", s)
}

func parseSpine(s string) ([]ms3.Vec, error) {
	rows, err := parseRows(s)
	if err != nil {
		return nil, err
	}
	spine := make([]ms3.Vec, len(rows))
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("spine point %d: want 3 coordinates, got %d", i, len(row))
		}
		spine[i] = ms3.Vec{X: row[0], Y: row[1], Z: row[2]}
	}
	return spine, nil
}
