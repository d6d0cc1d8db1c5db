package shapetoolbox

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Mesh is the finalized vertex/face/normal/UV buffer of a model. Vertices
// are stored row-major, outer loop over the slow axis, inner loop over the
// fast (periodic) axis, with cap centers appended last. Face indices are
// 0-based; texture coordinates are indexed separately from positions
// because the wrap-around seam duplicates UV columns but not vertices.
type Mesh struct {
	Vertices  []ms3.Vec
	Normals   []ms3.Vec // per vertex; empty unless normals were requested
	TexCoords []ms2.Vec // empty unless a material is associated
	Faces     [][3]int
	FaceTex   [][3]int // parallel to Faces when TexCoords is non-empty
}

// BoundingBox returns the axis-aligned bounds of the mesh vertices.
func (msh *Mesh) BoundingBox() ms3.Box {
	if len(msh.Vertices) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: msh.Vertices[0], Max: msh.Vertices[0]}
	for _, v := range msh.Vertices[1:] {
		bb.Min = ms3.MinElem(bb.Min, v)
		bb.Max = ms3.MaxElem(bb.Max, v)
	}
	return bb
}

// Mesh assembles the model into its vertex/face buffer, optionally with
// accumulated per-vertex normals. The result is cached and reused until a
// perturbation is appended or the enable mask changes, so repeated
// finalization is idempotent.
func (mdl *Model) Mesh(normals bool) (*Mesh, error) {
	if mdl.mesh != nil && mdl.meshWithNormals == normals {
		return mdl.mesh, nil
	}
	msh := &Mesh{Vertices: mdl.vertices()}
	mdl.buildFaces(msh)
	if mdl.mtlName != "" {
		mdl.buildTexCoords(msh)
	}
	if normals {
		msh.Normals = accumulateNormals(msh.Vertices, msh.Faces)
	}
	mdl.mesh = msh
	mdl.meshWithNormals = normals
	return msh, nil
}

// vertices maps the derived field through the shape's Cartesian conversion.
func (mdl *Model) vertices() []ms3.Vec {
	r := mdl.Derived()
	verts := make([]ms3.Vec, 0, mdl.m*mdl.n+2)
	switch mdl.shape {
	case ShapeSphere:
		for k, rad := range r {
			sa, ca := math32.Sincos(mdl.u[k]) // azimuth
			se, ce := math32.Sincos(mdl.v[k]) // elevation
			verts = append(verts, ms3.Vec{X: rad * ce * ca, Y: rad * ce * sa, Z: rad * se})
		}
	case ShapePlane:
		for k, z := range r {
			verts = append(verts, ms3.Vec{X: mdl.u[k], Y: mdl.v[k], Z: z})
		}
	case ShapeDisk:
		if mdl.cartesian {
			for k, z := range r {
				verts = append(verts, ms3.Vec{X: mdl.u[k], Y: mdl.v[k], Z: z})
			}
			break
		}
		for k, z := range r {
			sa, ca := math32.Sincos(mdl.u[k]) // angle
			rho := mdl.v[k]
			verts = append(verts, ms3.Vec{X: rho * ca, Y: rho * sa, Z: z})
		}
	case ShapeTorus:
		for k, minor := range r {
			smin, cmin := math32.Sincos(mdl.u[k]) // minor angle
			smaj, cmaj := math32.Sincos(mdl.v[k]) // major angle
			ring := mdl.majorField[k] + minor*cmin
			verts = append(verts, ms3.Vec{X: ring * cmaj, Y: ring * smaj, Z: minor * smin})
		}
	case ShapeWorm:
		for k, rad := range r {
			sa, ca := math32.Sincos(mdl.u[k])
			fr := mdl.frames[k/mdl.n]
			offset := ms3.Add(ms3.Scale(rad*ca, fr.normal), ms3.Scale(rad*sa, fr.binormal))
			verts = append(verts, ms3.Add(fr.origin, offset))
		}
	default: // cylinder, revolution, extrusion
		for k, rad := range r {
			sa, ca := math32.Sincos(mdl.u[k]) // angle
			verts = append(verts, ms3.Vec{X: rad * ca, Y: rad * sa, Z: mdl.v[k]})
		}
	}
	if mdl.caps {
		verts = append(verts, mdl.capCenter(0), mdl.capCenter(mdl.m-1))
	}
	return verts
}

// capCenter is the fan-center vertex closing the tube end at slow-axis
// row i.
func (mdl *Model) capCenter(i int) ms3.Vec {
	if mdl.shape == ShapeWorm {
		return mdl.frames[i].origin
	}
	return ms3.Vec{Z: mdl.v[i*mdl.n]}
}

// buildFaces emits two triangles per grid quad with consistent outward
// winding. Periodic axes wrap by index arithmetic; the seam column is not
// duplicated in the vertex buffer.
func (mdl *Model) buildFaces(msh *Mesh) {
	m, n := mdl.m, mdl.n
	rows := m - 1
	if mdl.periodicSlow() {
		rows = m
	}
	cols := n - 1
	if mdl.periodicFast() {
		cols = n
	}
	faces := make([][3]int, 0, 2*rows*cols+2*n)
	for i := 0; i < rows; i++ {
		i2 := (i + 1) % m
		for j := 0; j < cols; j++ {
			j2 := (j + 1) % n
			a := i*n + j
			b := i*n + j2
			c := i2*n + j
			d := i2*n + j2
			faces = append(faces, [3]int{a, b, d}, [3]int{a, d, c})
		}
	}
	if mdl.caps {
		bottom := m * n
		top := m*n + 1
		last := (m - 1) * n
		for j := 0; j < n; j++ {
			j2 := (j + 1) % n
			faces = append(faces,
				[3]int{bottom, j2, j},
				[3]int{top, last + j, last + j2},
			)
		}
	}
	msh.Faces = faces
}

// buildTexCoords lays a [0,1]² UV grid over the parameterization. Periodic
// axes get one duplicated sample column (or row) so the seam unwraps
// cleanly in texture space.
func (mdl *Model) buildTexCoords(msh *Mesh) {
	m, n := mdl.m, mdl.n
	nu := n
	if mdl.periodicFast() {
		nu = n + 1
	}
	mu := m
	if mdl.periodicSlow() {
		mu = m + 1
	}
	uv := make([]ms2.Vec, 0, mu*nu+2)
	for i := 0; i < mu; i++ {
		for j := 0; j < nu; j++ {
			uv = append(uv, ms2.Vec{
				X: float32(j) / float32(nu-1),
				Y: float32(i) / float32(mu-1),
			})
		}
	}
	rows := m - 1
	if mdl.periodicSlow() {
		rows = m
	}
	cols := n - 1
	if mdl.periodicFast() {
		cols = n
	}
	ft := make([][3]int, 0, cap(msh.Faces))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a := i*nu + j
			b := i*nu + j + 1
			c := (i+1)*nu + j
			d := (i+1)*nu + j + 1
			ft = append(ft, [3]int{a, b, d}, [3]int{a, d, c})
		}
	}
	if mdl.caps {
		center := len(uv)
		uv = append(uv, ms2.Vec{X: 0.5, Y: 0.5})
		last := (mu - 1) * nu
		for j := 0; j < cols; j++ {
			ft = append(ft,
				[3]int{center, j + 1, j},
				[3]int{center, last + j, last + j + 1},
			)
		}
	}
	msh.TexCoords = uv
	msh.FaceTex = ft
}

// accumulateNormals sums area-weighted face normals onto their vertices
// and renormalizes per vertex. Degenerate faces with near-zero-length edge
// cross products contribute nothing. Vertices shared by many faces, such
// as the coincident sphere pole samples, sum all contributions before
// normalizing.
func accumulateNormals(verts []ms3.Vec, faces [][3]int) []ms3.Vec {
	normals := make([]ms3.Vec, len(verts))
	for _, f := range faces {
		e1 := ms3.Sub(verts[f[1]], verts[f[0]])
		e2 := ms3.Sub(verts[f[2]], verts[f[0]])
		fn := ms3.Cross(e1, e2)
		if ms3.Norm(fn) < epstol {
			continue // zero-area face
		}
		for _, vi := range f {
			normals[vi] = ms3.Add(normals[vi], fn)
		}
	}
	for i, nrm := range normals {
		if ms3.Norm(nrm) >= epstol {
			normals[i] = ms3.Unit(nrm)
		}
	}
	return normals
}
