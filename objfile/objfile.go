// Package objfile reads and writes Wavefront OBJ text meshes. It is the
// serialization boundary of the toolbox: the core hands it finished
// vertex/normal/UV/face buffers and it performs no geometry of its own.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Object is an OBJ-file mesh. Faces index Vertices 0-based; FaceTex, when
// non-empty, runs parallel to Faces and indexes TexCoords 0-based.
// Texture coordinates are indexed separately from positions because
// periodic meshes duplicate UV seam columns but not vertex positions.
// Per-vertex normals share the position indexing.
type Object struct {
	Comments  []string
	MTLLib    string
	Material  string
	Vertices  []ms3.Vec
	Normals   []ms3.Vec
	TexCoords []ms2.Vec
	Faces     [][3]int
	FaceTex   [][3]int
}

// Write serializes obj in Wavefront OBJ text form: comment header, mtllib
// and usemtl directives when a material is present, v/vt/vn lines in
// buffer order and 1-indexed f triplets.
func Write(w io.Writer, obj *Object) error {
	bw := bufio.NewWriter(w)
	for _, c := range obj.Comments {
		fmt.Fprintf(bw, "# %s\n", c)
	}
	if obj.MTLLib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", obj.MTLLib)
	}
	if obj.Material != "" {
		fmt.Fprintf(bw, "usemtl %s\n", obj.Material)
	}
	var buf []byte
	for _, v := range obj.Vertices {
		buf = appendLine(bw, buf[:0], "v", v.X, v.Y, v.Z)
	}
	for _, vt := range obj.TexCoords {
		buf = appendLine(bw, buf[:0], "vt", vt.X, vt.Y)
	}
	for _, vn := range obj.Normals {
		buf = appendLine(bw, buf[:0], "vn", vn.X, vn.Y, vn.Z)
	}
	hasTex := len(obj.FaceTex) == len(obj.Faces) && len(obj.TexCoords) > 0
	hasNorm := len(obj.Normals) > 0
	for fi, f := range obj.Faces {
		buf = buf[:0]
		buf = append(buf, 'f')
		for c := 0; c < 3; c++ {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(f[c]+1), 10)
			switch {
			case hasTex && hasNorm:
				buf = append(buf, '/')
				buf = strconv.AppendInt(buf, int64(obj.FaceTex[fi][c]+1), 10)
				buf = append(buf, '/')
				buf = strconv.AppendInt(buf, int64(f[c]+1), 10)
			case hasTex:
				buf = append(buf, '/')
				buf = strconv.AppendInt(buf, int64(obj.FaceTex[fi][c]+1), 10)
			case hasNorm:
				buf = append(buf, '/', '/')
				buf = strconv.AppendInt(buf, int64(f[c]+1), 10)
			}
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	return bw.Flush()
}

// appendLine writes a keyword followed by minimally formatted float32
// values.
func appendLine(bw *bufio.Writer, buf []byte, keyword string, vals ...float32) []byte {
	buf = append(buf, keyword...)
	for _, v := range vals {
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(v), 'g', -1, 32)
	}
	buf = append(buf, '\n')
	bw.Write(buf)
	return buf
}

// Read parses an OBJ stream. Faces with more than three vertices are fan
// triangulated; negative (relative) indices are rejected. Unknown
// directives are skipped.
func Read(r io.Reader) (*Object, error) {
	obj := &Object{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == '#' {
			obj.Comments = append(obj.Comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}
		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "v":
			err = parseVec3(fields[1:], &obj.Vertices)
		case "vn":
			err = parseVec3(fields[1:], &obj.Normals)
		case "vt":
			err = parseVec2(fields[1:], &obj.TexCoords)
		case "f":
			err = obj.parseFace(fields[1:])
		case "mtllib":
			if len(fields) == 2 {
				obj.MTLLib = fields[1]
			}
		case "usemtl":
			if len(fields) == 2 {
				obj.Material = fields[1]
			}
		}
		if err != nil {
			return nil, fmt.Errorf("obj line %d: %w", lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseVec3(fields []string, dst *[]ms3.Vec) error {
	if len(fields) < 3 {
		return fmt.Errorf("need 3 coordinates, got %d", len(fields))
	}
	var v [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return err
		}
		v[i] = float32(f)
	}
	*dst = append(*dst, ms3.Vec{X: v[0], Y: v[1], Z: v[2]})
	return nil
}

func parseVec2(fields []string, dst *[]ms2.Vec) error {
	if len(fields) < 2 {
		return fmt.Errorf("need 2 coordinates, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return err
	}
	y, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return err
	}
	*dst = append(*dst, ms2.Vec{X: float32(x), Y: float32(y)})
	return nil
}

func (obj *Object) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}
	vi := make([]int, len(fields))
	ti := make([]int, len(fields))
	hasTex := true
	for i, f := range fields {
		parts := strings.Split(f, "/")
		v, err := strconv.Atoi(parts[0])
		if err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("unsupported non-positive vertex index %d", v)
		}
		if v > len(obj.Vertices) {
			return fmt.Errorf("vertex index %d out of range [1,%d]", v, len(obj.Vertices))
		}
		vi[i] = v - 1
		if len(parts) > 1 && parts[1] != "" {
			t, err := strconv.Atoi(parts[1])
			if err != nil {
				return err
			}
			if t <= 0 || t > len(obj.TexCoords) {
				return fmt.Errorf("texture index %d out of range [1,%d]", t, len(obj.TexCoords))
			}
			ti[i] = t - 1
		} else {
			hasTex = false
		}
	}
	for i := 2; i < len(vi); i++ {
		obj.Faces = append(obj.Faces, [3]int{vi[0], vi[i-1], vi[i]})
		if hasTex {
			obj.FaceTex = append(obj.FaceTex, [3]int{ti[0], ti[i-1], ti[i]})
		}
	}
	return nil
}
