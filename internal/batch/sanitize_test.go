package batch

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`a/b\c:d`, "a_b_c_d"},
		{"***", "model"},
		{"", "model"},
		{"   ", "model"},
		{"Plate A", "Plate_A"},
		{"  spaced  name ", "spaced__name"},
		{`<x>"y"|z?`, "x__y__z"},
		{"tab\tname", "tab_name"},
		{"Facing1 [T1]", "Facing1_[T1]"},
		{"Über-Teil", "Über-Teil"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
