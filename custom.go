package shapetoolbox

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/chewxy/math32"
	"github.com/disintegration/gift"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// CustomParams is one custom-profile placement row: Count centers evaluated
// within Cutoff of each center, with Args passed through to the profile
// function untouched.
type CustomParams struct {
	Count  int
	Cutoff float32
	Args   []float32
}

// AddCustom appends one perturbation field built exactly like AddBumps but
// with a user-supplied radial profile in place of the Gaussian default.
func (mdl *Model) AddCustom(f ProfileFunc, rows []CustomParams, opts BumpOptions) error {
	if f == nil {
		return errorf("%s: nil custom profile function", mdl.shape)
	}
	profileRows := make([]profileRow, len(rows))
	for i, row := range rows {
		profileRows[i] = profileRow{count: row.Count, cutoff: row.Cutoff, args: row.Args}
	}
	return mdl.addProfileField("custom", f, profileRows, opts)
}

// AddMatrix appends a perturbation field taken from a 2D numeric matrix.
// The matrix is bilinearly resampled onto the native m-by-n grid when its
// resolution differs and scaled so its maximum absolute value maps to
// peak. An all-zero matrix yields a zero field.
func (mdl *Model) AddMatrix(matrix [][]float32, peak float32) error {
	if len(matrix) < 2 {
		return errorf("%s: matrix must be at least 2x2, got %d rows", mdl.shape, len(matrix))
	}
	if len(matrix[0]) < 2 {
		return errorf("%s: matrix must be at least 2x2, got %dx%d", mdl.shape, len(matrix), len(matrix[0]))
	}
	cols := len(matrix[0])
	for i, row := range matrix {
		if len(row) != cols {
			return errorf("%s: ragged matrix, row %d has %d columns, want %d", mdl.shape, i, len(row), cols)
		}
	}
	field := resampleBilinear(matrix, mdl.m, mdl.n)
	var maxAbs float32
	for _, fv := range field {
		if a := math32.Abs(fv); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs > 0 {
		scale := peak / maxAbs
		for i := range field {
			field[i] *= scale
		}
	}
	mdl.appendField("matrix", field)
	return nil
}

// AddImage appends a perturbation field taken from an image file. The
// image is reduced to grayscale by averaging its color channels, flipped
// vertically to match the grid's coordinate orientation, resized onto the
// native grid with linear interpolation, and scaled like AddMatrix.
func (mdl *Model) AddImage(path string, peak float32) error {
	fp, err := os.Open(path)
	if err != nil {
		return errorf("%s: opening image: %w", mdl.shape, err)
	}
	defer fp.Close()
	img, _, err := image.Decode(fp)
	if err != nil {
		return errorf("%s: decoding image %q: %w", mdl.shape, path, err)
	}
	gray := channelMeanGray(img)
	g := gift.New(
		gift.FlipVertical(),
		gift.Resize(mdl.n, mdl.m, gift.LinearResampling),
	)
	dst := image.NewGray16(g.Bounds(gray.Bounds()))
	g.Draw(dst, gray)

	matrix := make([][]float32, mdl.m)
	for i := range matrix {
		matrix[i] = make([]float32, mdl.n)
		for j := range matrix[i] {
			matrix[i][j] = float32(dst.Gray16At(j, i).Y) / 0xffff
		}
	}
	if err := mdl.AddMatrix(matrix, peak); err != nil {
		return err
	}
	mdl.fields[len(mdl.fields)-1].name = "image"
	return nil
}

// channelMeanGray converts img to 16-bit grayscale by averaging the R, G
// and B channels, rather than the luminance weighting a display conversion
// would use.
func channelMeanGray(img image.Image) *image.Gray16 {
	b := img.Bounds()
	gray := image.NewGray16(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			gray.SetGray16(x, y, color.Gray16{Y: uint16((r + g + bl) / 3)})
		}
	}
	return gray
}

// resampleBilinear maps a src matrix onto an m-by-n row-major field by
// bilinear interpolation. Implemented directly on float32 because image
// scalers quantize through 8/16-bit channels and would lose field
// precision.
func resampleBilinear(src [][]float32, m, n int) []float32 {
	sm, sn := len(src), len(src[0])
	out := make([]float32, m*n)
	for i := 0; i < m; i++ {
		ti := float32(i) / float32(m-1) * float32(sm-1)
		i0 := int(ti)
		if i0 >= sm-1 {
			i0 = sm - 2
		}
		fi := ti - float32(i0)
		for j := 0; j < n; j++ {
			tj := float32(j) / float32(n-1) * float32(sn-1)
			j0 := int(tj)
			if j0 >= sn-1 {
				j0 = sn - 2
			}
			fj := tj - float32(j0)
			top := src[i0][j0]*(1-fj) + src[i0][j0+1]*fj
			bot := src[i0+1][j0]*(1-fj) + src[i0+1][j0+1]*fj
			out[i*n+j] = top*(1-fi) + bot*fi
		}
	}
	return out
}
