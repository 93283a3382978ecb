package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/philipparndt/parambatch/internal/models"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the batch or design file does not exist
	ErrNotFound = errors.New("file not found")
	// ErrParse wraps the underlying parser error unchanged
	ErrParse = errors.New("parse error")
	// ErrInvalidConfig is returned for missing or malformed top-level fields
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Loader handles loading and decoding batch files
type Loader struct{}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a batch file and returns its raw parsed structure.
// YAML files are detected by extension, everything else is read as JSON5.
func (l *Loader) Load(path string) (map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json5.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// LoadBatch loads and decodes a batch file in one go
func (l *Loader) LoadBatch(path string) (*models.BatchConfig, error) {
	raw, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	cfg, err := l.Decode(raw, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	return cfg, nil
}

// Decode builds a BatchConfig from a raw structure. Relative directories are
// resolved against baseDir.
func (l *Loader) Decode(raw map[string]any, baseDir string) (*models.BatchConfig, error) {
	cfg := &models.BatchConfig{
		Unit: models.DefaultUnit,
	}

	if v, ok := raw["unit"]; ok && v != nil {
		unit, ok := v.(string)
		if !ok || strings.TrimSpace(unit) == "" {
			return nil, fmt.Errorf("%w: \"unit\" must be a non-empty string", ErrInvalidConfig)
		}
		cfg.Unit = strings.TrimSpace(unit)
	}

	list, ok := raw["models"].([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: no models found in batch file", ErrInvalidConfig)
	}

	cfg.OutputDirectory = stringField(raw, "outputDirectory")
	if cfg.OutputDirectory == "" {
		return nil, fmt.Errorf("%w: \"outputDirectory\" is missing in batch file", ErrInvalidConfig)
	}
	cfg.GCodeDirectory = stringField(raw, "gcodeDirectory")
	cfg.NCProgramName = stringField(raw, "ncProgramName")
	cfg.OperationName = stringField(raw, "operationName")

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of batch directory: %w", err)
	}
	cfg.OutputDirectory = resolve(absBase, cfg.OutputDirectory)
	if cfg.GCodeDirectory != "" {
		cfg.GCodeDirectory = resolve(absBase, cfg.GCodeDirectory)
	}

	for i, entry := range list {
		cfg.Models = append(cfg.Models, decodeModel(entry, i+1))
	}

	return cfg, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// stringField returns a top-level string value, or "" when absent or empty
func stringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// decodeModel turns one entry of "models" into a parameter set.
// index is 1-based and used for the default name.
func decodeModel(entry any, index int) models.ParameterSet {
	set := models.ParameterSet{
		Name: fmt.Sprintf("Model_%d", index),
	}

	values, ok := asStringMap(entry)
	if !ok {
		set.DecodeErr = fmt.Errorf("model entry %d is not an object", index)
		return set
	}

	if name, ok := values["name"]; ok && name != nil {
		if s := fmt.Sprint(name); s != "" {
			set.Name = s
		}
	}
	delete(values, "name")
	set.Values = values
	return set
}

// asStringMap normalises decoder maps; yaml.v3 may produce map[any]any for nested keys
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// FormatValue renders a parameter value for display
func FormatValue(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// SortedKeys returns the keys of a parameter set in stable order
func SortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
