package preconditions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Check verifies all preconditions for opening a design are met
func Check(designPath string) error {
	checks := []struct {
		name string
		fn   func(string) error
	}{
		{"Design file", checkDesignFile},
	}

	for _, check := range checks {
		if err := check.fn(designPath); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}

	return nil
}

func checkDesignFile(path string) error {
	if path == "" {
		return fmt.Errorf("no design given. Use --design or set PARAMBATCH_DESIGN")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	if !isYAMLFile(path) {
		return fmt.Errorf("%s is not a design file (must end in .yaml or .yml)", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", path, err)
	}
	file.Close()

	return nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// EnsureDirectories creates the given directories if needed and checks that
// they are writable. Empty entries are ignored.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		tmp, err := os.CreateTemp(dir, ".parambatch-*")
		if err != nil {
			return fmt.Errorf("directory %s is not writable: %w", dir, err)
		}
		tmp.Close()
		os.Remove(tmp.Name())
	}

	return nil
}
