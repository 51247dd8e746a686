package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds package ids and feature names.
const maxIdentifierLength = 1024

// ValidatePackageID validates an opaque package identifier.
//
// Ids are supplied by the metadata collaborator and are otherwise free-form
// (they usually embed name, version and source), so the rules only reject
// values that cannot be keys:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of 1024 characters
func ValidatePackageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPackage, "package id cannot be empty")
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidPackage, "package id too long (max %d characters)", maxIdentifierLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package id %q contains control characters", id)
		}
	}
	return nil
}

// ValidatePackageName validates a package name.
// Names must be non-empty and free of whitespace and control characters.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}
	if len(name) > maxIdentifierLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxIdentifierLength)
	}
	if strings.IndexFunc(name, func(r rune) bool { return unicode.IsControl(r) || unicode.IsSpace(r) }) >= 0 {
		return New(ErrCodeInvalidPackage, "package name %q contains whitespace or control characters", name)
	}
	return nil
}

// featureNameRegex matches feature names accepted by Cargo: a leading
// alphanumeric or underscore followed by alphanumerics, '_', '-', '+' or '.'.
var featureNameRegex = regexp.MustCompile(`^[\p{L}\p{N}_][\p{L}\p{N}_+.\-]*$`)

// ValidateFeatureName validates a feature name declared in a feature table.
func ValidateFeatureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFeature, "feature name cannot be empty")
	}
	if len(name) > maxIdentifierLength {
		return New(ErrCodeInvalidFeature, "feature name too long (max %d characters)", maxIdentifierLength)
	}
	if !featureNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFeature, "invalid feature name: %q", name)
	}
	return nil
}
