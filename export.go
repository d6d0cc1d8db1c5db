package shapetoolbox

import (
	"fmt"
	"io"
	"os"

	"github.com/saarela/ShapeToolbox/objfile"
)

// Object finalizes the model and packages it for the objfile serializer,
// including a provenance comment header naming the shape, grid size and
// perturbation list.
func (mdl *Model) Object(normals bool) (*objfile.Object, error) {
	msh, err := mdl.Mesh(normals)
	if err != nil {
		return nil, err
	}
	obj := &objfile.Object{
		Comments: []string{
			fmt.Sprintf("shape: %s, grid: %dx%d", mdl.shape, mdl.m, mdl.n),
		},
		MTLLib:    mdl.mtlLib,
		Material:  mdl.mtlName,
		Vertices:  msh.Vertices,
		Normals:   msh.Normals,
		TexCoords: msh.TexCoords,
		Faces:     msh.Faces,
		FaceTex:   msh.FaceTex,
	}
	for i, f := range mdl.fields {
		state := "enabled"
		if !f.enabled {
			state = "disabled"
		}
		obj.Comments = append(obj.Comments, fmt.Sprintf("perturbation %d: %s (%s)", i, f.name, state))
	}
	return obj, nil
}

// WriteOBJ finalizes the model and writes it as Wavefront OBJ text.
func (mdl *Model) WriteOBJ(w io.Writer, normals bool) error {
	obj, err := mdl.Object(normals)
	if err != nil {
		return err
	}
	return objfile.Write(w, obj)
}

// SaveOBJ writes the model to the named OBJ file, creating or truncating it.
func (mdl *Model) SaveOBJ(path string, normals bool) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mdl.WriteOBJ(fp, normals); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
