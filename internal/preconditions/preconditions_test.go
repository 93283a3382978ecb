package preconditions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	design := filepath.Join(dir, "design.yaml")
	if err := os.WriteFile(design, []byte("name: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "design.txt")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid", design, ""},
		{"empty", "", "no design given"},
		{"missing", filepath.Join(dir, "missing.yaml"), "cannot access"},
		{"directory", dir, "is a directory"},
		{"wrong extension", other, "not a design file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	out := filepath.Join(base, "out", "step")
	nc := filepath.Join(base, "nc")

	// Idempotent
	for i := 0; i < 2; i++ {
		if err := EnsureDirectories(out, "", nc); err != nil {
			t.Fatalf("EnsureDirectories failed: %v", err)
		}
	}

	for _, dir := range []string{out, nc} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("Directory %s was not created: %v", dir, err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected %s to be empty, found %d entries", dir, len(entries))
		}
	}

	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDirectories(filepath.Join(file, "sub")); err == nil {
		t.Errorf("Expected error when a parent is a file")
	}
}
