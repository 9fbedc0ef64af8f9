package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateCellID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "src", false},
		{"valid path-like", "src/engine/layout.go", false},
		{"valid unicode", "modülé", false},
		{"valid uuid", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"leading space", " foo", true},
		{"trailing tab", "foo\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCellID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCellID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateCellID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"positive", 3.5, false},
		{"tiny", 1e-12, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDimension(t *testing.T) {
	if err := ValidateDimension("width", 100); err != nil {
		t.Errorf("ValidateDimension(100) = %v", err)
	}
	err := ValidateDimension("depth", 0)
	if err == nil {
		t.Fatal("ValidateDimension(0) should fail")
	}
	if !strings.Contains(err.Error(), "depth") {
		t.Errorf("error should name the dimension: %v", err)
	}
}
