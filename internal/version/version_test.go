// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"testing"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v1   string
		v2   string
		want int // sign only
	}{
		{name: "numeric not lexicographic", v1: "1.2.3", v2: "1.2.10", want: -1},
		{name: "equal versions", v1: "24.0.0.8", v2: "24.0.0.8", want: 0},
		{name: "greater major", v1: "25.0.0.1", v2: "24.0.0.12", want: 1},
		{name: "shorter is less on equal prefix", v1: "1.2", v2: "1.2.0", want: -1},
		{name: "longer is greater on equal prefix", v1: "1.2.0.1", v2: "1.2.0", want: 1},
		{name: "absent sorts before present", v1: "", v2: "1.0", want: -1},
		{name: "present sorts after absent", v1: "1.0", v2: "", want: 1},
		{name: "two absent are equal", v1: "", v2: "", want: 0},
		{name: "non-numeric component compares lexicographically", v1: "1.beta", v2: "1.alpha", want: 1},
		{name: "mixed numeric and qualifier", v1: "24.0.0.8-beta", v2: "24.0.0.9", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Compare(tt.v1, tt.v2)
			if sign(got) != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.v1, tt.v2, got, tt.want)
			}
		})
	}
}

func TestAtLeast(t *testing.T) {
	t.Parallel()

	if !AtLeast("24.0.0.8", "21.0.0.11") {
		t.Error("AtLeast(24.0.0.8, 21.0.0.11) = false, want true")
	}
	if AtLeast("21.0.0.10", "21.0.0.11") {
		t.Error("AtLeast(21.0.0.10, 21.0.0.11) = true, want false")
	}
	if !AtLeast("21.0.0.11", "21.0.0.11") {
		t.Error("AtLeast at the threshold = false, want true")
	}
}

func TestNextProductVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		want    string
		wantErr bool
	}{
		{name: "increments last segment", version: "24.0.0.8", want: "24.0.0.9"},
		{name: "carries into two digits", version: "1.2.0.9", want: "1.2.0.10"},
		{name: "two segments", version: "24.1", want: "24.2"},
		{name: "no separator fails", version: "24", wantErr: true},
		{name: "non-integer last segment fails", version: "24.0.0.8-beta", wantErr: true},
		{name: "empty fails", version: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NextProductVersion(tt.version)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NextProductVersion(%q) expected error, got %q", tt.version, got)
				}
				if !errors.Is(err, ErrVersionFormat) {
					t.Errorf("NextProductVersion(%q) error = %v, want ErrVersionFormat", tt.version, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextProductVersion(%q) unexpected error: %v", tt.version, err)
			}
			if got != tt.want {
				t.Errorf("NextProductVersion(%q) = %q, want %q", tt.version, got, tt.want)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
