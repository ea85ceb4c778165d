package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds package names and component keys.
const maxNameLength = 512

// packageNameRegex matches IPS package names: slash separated segments of
// letters, digits and the punctuation pkg(7) allows.
var packageNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_\-.+]*(/[A-Za-z0-9_][A-Za-z0-9_\-.+]*)*$`)

// ValidatePackageName validates an IPS package name (the part of an FMRI
// between the publisher and the version).
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No empty segments (leading, trailing or doubled slashes)
//   - Maximum length of 512 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFMRI, "package name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidFMRI, "package name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFMRI, "package name contains invalid control characters")
		}
	}

	if strings.Contains(name, "//") {
		return New(ErrCodeInvalidFMRI, "package name contains doubled separator: %q", name)
	}

	if !packageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFMRI, "invalid package name: %q", name)
	}

	return nil
}

// ValidateComponentPath validates a component key as produced by the
// component scanner. Keys are slash separated and relative to the
// components root.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateComponentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidComponent, "component path cannot be empty")
	}

	if len(path) > maxNameLength {
		return New(ErrCodeInvalidComponent, "component path too long (max %d characters)", maxNameLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidComponent, "component path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidComponent, "component path must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidComponent, "component path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidComponent, "component path cannot contain backslashes")
	}

	return nil
}
