// Package version provides parsing and compatibility checks for the
// scenario file format version.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the scenario format version implemented by this library.
const Current = "1.0"

// ErrIncompatible is returned for a version with a different major number.
var ErrIncompatible = errors.New("incompatible format version")

// FormatVersion represents a parsed "major.minor" format version.
type FormatVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (FormatVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return FormatVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return FormatVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return FormatVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return FormatVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v FormatVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v FormatVersion) Compatible(other FormatVersion) bool {
	return v.Major == other.Major
}

// Check parses s and reports whether files of that version can be read.
// Newer minor versions are accepted; unknown fields are ignored by the
// decoder.
func Check(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	current, _ := Parse(Current)
	if !current.Compatible(v) {
		return fmt.Errorf("%w: %s (supported: %d.x)", ErrIncompatible, v, current.Major)
	}
	return nil
}
