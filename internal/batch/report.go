package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/philipparndt/parambatch/internal/models"
)

// WriteReport stores the batch result as indented JSON
func WriteReport(path string, result *models.BatchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
