// Package occt regenerates block designs with the OpenCascade-backed
// libmakercad kernel and exports them as STEP or STL.
package occt

import (
	"fmt"

	makercad "github.com/marcuswu/libmakercad"
	"github.com/marcuswu/libmakercad/sketcher"
	"github.com/philipparndt/parambatch/internal/document"
)

type Kernel struct{}

func NewKernel() *Kernel {
	return &Kernel{}
}

type solid struct {
	step func(path string)
	stl  func(path string)
}

// The kernel writes files without reporting failures; the document checks
// that the file exists afterwards.
func (s *solid) ExportSTEP(path string) error {
	s.step(path)
	return nil
}

func (s *solid) ExportSTL(path string) error {
	s.stl(path)
	return nil
}

// Regenerate builds a width x height x thickness block standing on the top
// plane, cuts the optional centre hole and rounds the block edges.
func (k *Kernel) Regenerate(g document.Geometry) (document.Solid, error) {
	cad := makercad.NewMakerCad()

	block := cad.MakeBox(cad.TopPlane, g.Width, g.Height, g.Thickness, true)

	// save the block's edges before any cut so the fillet only rounds the outline
	filletEdges := block.Faces().Edges()

	if g.HoleDiameter > 0 {
		if g.HoleDiameter >= g.Width || g.HoleDiameter >= g.Height {
			return nil, fmt.Errorf("hole diameter %.3f does not fit a %.3f x %.3f block", g.HoleDiameter, g.Width, g.Height)
		}
		holeLoc := &sketcher.PlaneParameters{
			Location: sketcher.NewVectorFromValues(0, 0, 0),
			Normal:   cad.TopPlane.Normal,
			X:        cad.TopPlane.X,
		}
		hole := cad.MakeCylinder(holeLoc, g.HoleDiameter/2.0, g.Thickness)
		cut, err := cad.Remove(block, makercad.ListOfShape{hole})
		if err != nil {
			return nil, fmt.Errorf("failed to cut centre hole: %w", err)
		}
		block = cut.Shape()
	}

	if g.FilletRadius > 0 {
		if 2*g.FilletRadius >= g.Thickness {
			return nil, fmt.Errorf("fillet radius %.3f is too large for thickness %.3f", g.FilletRadius, g.Thickness)
		}
		rounded, err := cad.Fillet(block, filletEdges, g.FilletRadius)
		if err != nil {
			return nil, fmt.Errorf("failed to fillet block edges: %w", err)
		}
		block = rounded
	}

	exports := makercad.ListOfShape{block}
	return &solid{
		step: func(path string) { cad.ExportStep(path, exports) },
		stl:  func(path string) { cad.ExportStl(path, exports, makercad.QualityHigh) },
	}, nil
}
