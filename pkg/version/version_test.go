package version

import (
	"errors"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.1", 1, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"abc",
		"1.0.0",
		"1.x",
		"-1.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestFormatVersion_MajorMinor(t *testing.T) {
	v, err := Parse("1.0")
	if err != nil {
		t.Fatal(err)
	}
	if v.Major != 1 {
		t.Errorf("Major = %d, want 1", v.Major)
	}
	if v.Minor != 0 {
		t.Errorf("Minor = %d, want 0", v.Minor)
	}
}

func TestFormatVersion_String(t *testing.T) {
	v, err := Parse("1.0")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "1.0" {
		t.Errorf("String() = %q, want %q", v.String(), "1.0")
	}

	v2, err := Parse("10.23")
	if err != nil {
		t.Fatal(err)
	}
	if v2.String() != "10.23" {
		t.Errorf("String() = %q, want %q", v2.String(), "10.23")
	}
}

func TestCompatible_SameMajor(t *testing.T) {
	v1, _ := Parse("1.0")
	v2, _ := Parse("1.1")

	if !v1.Compatible(v2) {
		t.Error("1.0 should be compatible with 1.1")
	}
	if !v2.Compatible(v1) {
		t.Error("1.1 should be compatible with 1.0")
	}
}

func TestCompatible_DifferentMajor(t *testing.T) {
	v1, _ := Parse("1.0")
	v2, _ := Parse("2.0")

	if v1.Compatible(v2) {
		t.Error("1.0 should NOT be compatible with 2.0")
	}
	if v2.Compatible(v1) {
		t.Error("2.0 should NOT be compatible with 1.0")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		input        string
		wantErr      bool
		incompatible bool
	}{
		{"1.0", false, false},
		{"1.7", false, false},
		{"2.0", true, true},
		{"0.9", true, true},
		{"one", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := Check(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got := errors.Is(err, ErrIncompatible); got != tt.incompatible {
				t.Errorf("Check(%q) incompatible = %v, want %v", tt.input, got, tt.incompatible)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	v, err := Parse(Current)
	if err != nil {
		t.Fatalf("Parse(Current) returned error: %v", err)
	}
	if v.Major != 1 || v.Minor != 0 {
		t.Errorf("Current version = %s, want 1.0", v)
	}
}
