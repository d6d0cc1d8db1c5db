package main

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/soypat/geometry/ms3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	shapetoolbox "github.com/saarela/ShapeToolbox"
	"github.com/saarela/ShapeToolbox/noisefield"
)

// jobSpec is one entry of the batch YAML file.
type jobSpec struct {
	Name      string      `mapstructure:"name"`
	Shape     string      `mapstructure:"shape"`
	NPoints   []int       `mapstructure:"npoints"`
	Radius    float32     `mapstructure:"radius"`
	Major     float32     `mapstructure:"major"`
	Width     float32     `mapstructure:"width"`
	Height    float32     `mapstructure:"height"`
	Cartesian bool        `mapstructure:"cartesian"`
	RCurve    []float32   `mapstructure:"rcurve"`
	ECurve    []float32   `mapstructure:"ecurve"`
	Spine     [][]float32 `mapstructure:"spine"`
	Caps      bool        `mapstructure:"caps"`

	Sine      [][]float32 `mapstructure:"sine"`
	Mod       [][]float32 `mapstructure:"mod"`
	MajorSine [][]float32 `mapstructure:"major-sine"`
	Noise     [][]float32 `mapstructure:"noise"`
	Perlin    []float32   `mapstructure:"perlin"`
	Bumps     [][]float32 `mapstructure:"bumps"`
	MinDist   float32     `mapstructure:"mindist"`
	Overlap   string      `mapstructure:"overlap"`
	Image     string      `mapstructure:"image"`
	ImageAmp  float32     `mapstructure:"image-amp"`
	Seed      int64       `mapstructure:"seed"`

	Normals  bool   `mapstructure:"normals"`
	Material string `mapstructure:"material"`
	Output   string `mapstructure:"output"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <jobs.yaml>",
	Short: "Generate many meshes from a YAML job list",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().Bool("ignore-errors", false, "record failing jobs and keep going")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetConfigFile(args[0])
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading job list: %w", err)
	}
	var specs []jobSpec
	if err := v.UnmarshalKey("jobs", &specs); err != nil {
		return fmt.Errorf("parsing job list: %w", err)
	}
	if len(specs) == 0 {
		return fmt.Errorf("job list %q contains no jobs", args[0])
	}

	ignore, _ := cmd.Flags().GetBool("ignore-errors")
	batch := shapetoolbox.Batch{IgnoreErrors: ignore}
	jobs := make([]shapetoolbox.Job, len(specs))
	for i, spec := range specs {
		spec := spec
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("job-%d (%s)", i, spec.Shape)
		}
		jobs[i] = shapetoolbox.Job{Name: name, Run: func() error { return runJob(spec) }}
	}
	if err := batch.Run(jobs...); err != nil {
		return err
	}
	for _, err := range batch.Failures() {
		log.Printf("batch: %v", err)
	}
	log.Printf("batch: %d of %d jobs succeeded", len(specs)-len(batch.Failures()), len(specs))
	return nil
}

func runJob(spec jobSpec) error {
	mdl, err := buildJobModel(spec)
	if err != nil {
		return err
	}
	if err := perturbJobModel(spec, mdl); err != nil {
		return err
	}
	out := spec.Output
	if out == "" {
		out = spec.Shape + ".obj"
	}
	return mdl.SaveOBJ(out, spec.Normals)
}

func buildJobModel(spec jobSpec) (*shapetoolbox.Model, error) {
	if len(spec.NPoints) != 2 {
		return nil, fmt.Errorf("npoints must be two integers, got %v", spec.NPoints)
	}
	m, n := spec.NPoints[0], spec.NPoints[1]
	radius := spec.Radius
	if radius == 0 {
		radius = 1
	}
	var mdl *shapetoolbox.Model
	var err error
	switch spec.Shape {
	case "sphere":
		mdl, err = shapetoolbox.NewSphere(m, n, radius)
	case "plane":
		width, height := spec.Width, spec.Height
		if width == 0 {
			width = 1
		}
		if height == 0 {
			height = width
		}
		mdl, err = shapetoolbox.NewPlane(m, n, width, height)
	case "disk":
		if spec.Cartesian {
			mdl, err = shapetoolbox.NewDiskCartesian(m, n, radius)
		} else {
			mdl, err = shapetoolbox.NewDisk(m, n, radius)
		}
	case "torus":
		major := spec.Major
		if major == 0 {
			major = 1.5
		}
		mdl, err = shapetoolbox.NewTorus(m, n, major, radius)
		if err == nil && len(spec.MajorSine) > 0 {
			carriers, cerr := componentsFromRows(spec.MajorSine, shapetoolbox.ParseCarrierRow)
			if cerr != nil {
				return nil, cerr
			}
			err = mdl.AddMajorSine(carriers, nil)
		}
	case "cylinder":
		mdl, err = shapetoolbox.NewCylinder(m, n, radius, spec.Height)
	case "revolution":
		mdl, err = shapetoolbox.NewRevolution(m, n, radius, spec.Height, spec.RCurve)
	case "extrusion":
		mdl, err = shapetoolbox.NewExtrusion(m, n, radius, spec.Height, spec.ECurve)
	case "worm":
		spine, serr := spineFromRows(spec.Spine)
		if serr != nil {
			return nil, serr
		}
		mdl, err = shapetoolbox.NewWorm(m, n, radius, spine)
	default:
		return nil, fmt.Errorf("unknown shape %q", spec.Shape)
	}
	if err != nil {
		return nil, err
	}
	if spec.Caps {
		if err := mdl.SetCaps(true); err != nil {
			return nil, err
		}
	}
	return mdl, nil
}

func perturbJobModel(spec jobSpec, mdl *shapetoolbox.Model) error {
	var rng *rand.Rand
	if spec.Seed != 0 {
		rng = rand.New(rand.NewSource(spec.Seed))
	}
	if len(spec.Sine) > 0 {
		carriers, err := componentsFromRows(spec.Sine, shapetoolbox.ParseCarrierRow)
		if err != nil {
			return err
		}
		modulators, err := componentsFromRows(spec.Mod, shapetoolbox.ParseModulatorRow)
		if err != nil {
			return err
		}
		if err := mdl.AddSine(carriers, modulators); err != nil {
			return err
		}
	}
	if len(spec.Noise) > 0 {
		params := make([]noisefield.SpectralParams, len(spec.Noise))
		for i, row := range spec.Noise {
			if len(row) != 5 {
				return fmt.Errorf("noise row %d: want 5 columns, got %d", i, len(row))
			}
			params[i] = noisefield.SpectralParams{
				Freq: row[0], FreqBandwidth: row[1],
				Orientation: row[2], OrientBandwidth: row[3], Amp: row[4],
			}
		}
		if err := mdl.AddNoise(params, rng); err != nil {
			return err
		}
	}
	if len(spec.Perlin) > 0 {
		if len(spec.Perlin) != 5 {
			return fmt.Errorf("perlin row: want scale,octaves,persistence,lacunarity,amp, got %d columns", len(spec.Perlin))
		}
		p := noisefield.PerlinParams{
			Scale:       spec.Perlin[0],
			Octaves:     int(spec.Perlin[1]),
			Persistence: spec.Perlin[2],
			Lacunarity:  spec.Perlin[3],
			Amp:         spec.Perlin[4],
		}
		if err := mdl.AddPerlin(p, spec.Seed); err != nil {
			return err
		}
	}
	if len(spec.Bumps) > 0 {
		rows := make([]shapetoolbox.BumpParams, len(spec.Bumps))
		for i, row := range spec.Bumps {
			if len(row) < 3 {
				return fmt.Errorf("bump row %d: want count,cutoff,amp[,sigma]", i)
			}
			rows[i] = shapetoolbox.BumpParams{Count: int(row[0]), Cutoff: row[1], Amp: row[2]}
			if len(row) > 3 {
				rows[i].Sigma = row[3]
			}
		}
		overlap, err := parseOverlap(orDefault(spec.Overlap, "sum"))
		if err != nil {
			return err
		}
		opts := shapetoolbox.BumpOptions{MinDist: spec.MinDist, Overlap: overlap, Rand: rng}
		if err := mdl.AddBumps(rows, opts); err != nil {
			return err
		}
	}
	if spec.Image != "" {
		amp := spec.ImageAmp
		if amp == 0 {
			amp = 0.1
		}
		if err := mdl.AddImage(spec.Image, amp); err != nil {
			return err
		}
	}
	if spec.Material != "" {
		lib, name, ok := cutMaterial(spec.Material)
		if !ok {
			return fmt.Errorf("material must be library.mtl:name, got %q", spec.Material)
		}
		if err := mdl.SetMaterial(lib, name); err != nil {
			return err
		}
	}
	return nil
}

func componentsFromRows(rows [][]float32, parse func([]float32) (shapetoolbox.Component, error)) ([]shapetoolbox.Component, error) {
	comps := make([]shapetoolbox.Component, len(rows))
	var err error
	for i, row := range rows {
		if comps[i], err = parse(row); err != nil {
			return nil, err
		}
	}
	return comps, nil
}

func spineFromRows(rows [][]float32) ([]ms3.Vec, error) {
	spine := make([]ms3.Vec, len(rows))
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("spine point %d: want 3 coordinates, got %d", i, len(row))
		}
		spine[i] = ms3.Vec{X: row[0], Y: row[1], Z: row[2]}
	}
	return spine, nil
}

func cutMaterial(s string) (lib, name string, ok bool) {
	return strings.Cut(s, ":")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
