package shapetoolbox

import (
	"errors"
	"math/rand"
	"time"

	"github.com/chewxy/math32"
)

// ErrBumpPlacement reports that the minimum-distance constraint could not
// be satisfied after oversampling candidate centers. It is recoverable:
// retry with a smaller count or a smaller minimum distance.
var ErrBumpPlacement = errors.New("cannot place bumps with requested minimum distance")

// ProfileFunc evaluates a radially symmetric bump profile at parameter-space
// distance d from a bump center. args carries the per-row profile
// parameters (for the Gaussian default: amplitude, sigma).
type ProfileFunc func(d float32, args []float32) float32

// GaussianProfile is the default bump profile: args[0]*exp(-d²/(2·args[1]²)).
func GaussianProfile(d float32, args []float32) float32 {
	amp, sigma := args[0], args[1]
	return amp * math32.Exp(-d*d/(2*sigma*sigma))
}

// BumpParams is one bump-placement row: Count centers evaluated within
// Cutoff of each center with a Gaussian of the given amplitude and sigma.
// A zero Sigma defaults to Cutoff/3.5 so the profile decays to near zero
// at the cutoff radius.
type BumpParams struct {
	Count  int
	Cutoff float32
	Amp    float32
	Sigma  float32
}

// OverlapPolicy selects how overlapping bump contributions combine.
type OverlapPolicy int

const (
	// OverlapSum adds overlapping contributions (the default).
	OverlapSum OverlapPolicy = iota
	// OverlapMax keeps the largest-magnitude contribution at each point,
	// producing non-overlapping bubble-like features.
	OverlapMax
)

// BumpOptions configures bump and custom-profile placement.
type BumpOptions struct {
	// MinDist, when positive, is the minimum pairwise parameter-space
	// distance between all centers placed by one call.
	MinDist float32
	Overlap OverlapPolicy
	// Rand supplies the placement randomness. Nil draws fresh entropy.
	Rand *rand.Rand
}

// AddBumps appends one perturbation field with Gaussian bumps (or dents,
// for negative amplitudes) placed uniformly at random over the native
// parameter domain.
func (mdl *Model) AddBumps(rows []BumpParams, opts BumpOptions) error {
	profileRows := make([]profileRow, len(rows))
	for i, row := range rows {
		sigma := row.Sigma
		if sigma == 0 {
			sigma = row.Cutoff / 3.5
		}
		if sigma < 0 {
			return errorf("%s: bump row %d: negative sigma %v", mdl.shape, i, sigma)
		}
		profileRows[i] = profileRow{
			count:  row.Count,
			cutoff: row.Cutoff,
			args:   []float32{row.Amp, sigma},
		}
	}
	return mdl.addProfileField("bumps", GaussianProfile, profileRows, opts)
}

// profileRow is the shared placement unit for bumps and custom profiles.
type profileRow struct {
	count  int
	cutoff float32
	args   []float32
}

// addProfileField places the centers of every row, evaluates f around each
// and combines overlapping contributions per the overlap policy. All
// centers of one call share the minimum-distance constraint.
func (mdl *Model) addProfileField(name string, f ProfileFunc, rows []profileRow, opts BumpOptions) error {
	for i, row := range rows {
		if row.count <= 0 {
			return errorf("%s: %s row %d: non-positive count %d", mdl.shape, name, i, row.count)
		}
		if row.cutoff <= 0 {
			return errorf("%s: %s row %d: non-positive cutoff radius %v", mdl.shape, name, i, row.cutoff)
		}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	field := make([]float32, mdl.m*mdl.n)
	var placed [][2]float32
	for i, row := range rows {
		centers, err := mdl.placeCenters(row.count, opts.MinDist, rng, placed)
		if err != nil {
			return errorf("%s: %s row %d: %w", mdl.shape, name, i, err)
		}
		placed = append(placed, centers...)
		for _, c := range centers {
			mdl.splatProfile(field, f, c, row, opts.Overlap)
		}
	}
	mdl.appendField(name, field)
	return nil
}

// splatProfile evaluates one bump into field around center c.
func (mdl *Model) splatProfile(field []float32, f ProfileFunc, c [2]float32, row profileRow, overlap OverlapPolicy) {
	for k := range field {
		d := mdl.paramDistance(c[0], c[1], mdl.u[k], mdl.v[k])
		if d > row.cutoff {
			continue
		}
		val := f(d, row.args)
		switch overlap {
		case OverlapMax:
			if math32.Abs(val) > math32.Abs(field[k]) {
				field[k] = val
			}
		default:
			field[k] += val
		}
	}
}

// minDistOversample is the candidate multiplier for minimum-distance
// placement: up to 30 candidates are drawn per requested center before the
// constraint is declared unsatisfiable.
const minDistOversample = 30

// placeCenters draws count centers uniformly over the parameter domain.
// With a positive minDist it greedily accepts candidates at least minDist
// from every center already accepted in this call (including prior),
// failing with [ErrBumpPlacement] when the oversampled candidate budget
// runs out.
func (mdl *Model) placeCenters(count int, minDist float32, rng *rand.Rand, prior [][2]float32) ([][2]float32, error) {
	sample := func() [2]float32 {
		return [2]float32{
			mdl.u0 + rng.Float32()*(mdl.u1-mdl.u0),
			mdl.v0 + rng.Float32()*(mdl.v1-mdl.v0),
		}
	}
	centers := make([][2]float32, 0, count)
	if minDist <= 0 {
		for len(centers) < count {
			centers = append(centers, sample())
		}
		return centers, nil
	}
	farEnough := func(p [2]float32, from [][2]float32) bool {
		for _, q := range from {
			if mdl.paramDistance(p[0], p[1], q[0], q[1]) < minDist {
				return false
			}
		}
		return true
	}
	for tries := 0; tries < count*minDistOversample && len(centers) < count; tries++ {
		p := sample()
		if farEnough(p, prior) && farEnough(p, centers) {
			centers = append(centers, p)
		}
	}
	if len(centers) < count {
		return nil, errorf("%w: placed %d of %d centers at minimum distance %v; reduce the count or the distance",
			ErrBumpPlacement, len(centers), count, minDist)
	}
	return centers, nil
}
