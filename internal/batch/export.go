package batch

import (
	"fmt"
	"path/filepath"

	"github.com/philipparndt/parambatch/internal/host"
)

// ExportModel writes the current model state as <dir>/<sanitized name>.step
func ExportModel(design host.Design, dir, name string) (string, error) {
	path := filepath.Join(dir, SanitizeFilename(name)+".step")
	if err := design.ExportSTEP(path); err != nil {
		return "", err
	}
	return path, nil
}

// ExportMesh writes an STL next to the STEP file when the host supports it
func ExportMesh(design host.Design, dir, name string) (string, error) {
	exporter, ok := design.(host.STLExporter)
	if !ok {
		return "", fmt.Errorf("host cannot export STL")
	}
	path := filepath.Join(dir, SanitizeFilename(name)+".stl")
	if err := exporter.ExportSTL(path); err != nil {
		return "", err
	}
	return path, nil
}
