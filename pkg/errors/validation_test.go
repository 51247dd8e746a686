package errors

import (
	"strings"
	"testing"
)

func TestValidatePackageID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"registry id", "serde 1.0.190 (registry+https://github.com/rust-lang/crates.io-index)", false},
		{"path id", "path+file:///work/app#0.1.0", false},
		{"short", "a", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 1025), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("ValidatePackageID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "serde", false},
		{"dash", "serde-json", false},
		{"underscore", "serde_json", false},

		{"empty", "", true},
		{"space", "serde json", true},
		{"tab", "serde\tjson", true},
		{"control", "serde\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFeatureName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "std", false},
		{"dash", "derive-impls", false},
		{"plus", "c++20", false},
		{"dot", "v1.2", false},
		{"leading underscore", "_internal", false},

		{"empty", "", true},
		{"slash", "serde/std", true},
		{"dep prefix", "dep:serde", true},
		{"leading dash", "-std", true},
		{"space", "a b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFeatureName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFeatureName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFeature) {
				t.Errorf("ValidateFeatureName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFeature)
			}
		})
	}
}
