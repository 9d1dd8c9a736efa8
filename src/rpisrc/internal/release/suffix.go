// Package release models the per-architecture kernel releases derived
// from a single firmware build, and plans the on-disk source layout.
package release

import (
	"github.com/bitswalk/rpisrc/src/common/errors"
)

// Suffix is the architecture suffix distinguishing kernel variants within
// one firmware build. The set of valid suffixes is a closed enumeration;
// every switch over Suffix must handle all of them and fail on anything else.
type Suffix string

const (
	// SuffixV6 is the unsuffixed ARMv6 kernel (Pi 1, Zero)
	SuffixV6 Suffix = ""
	// SuffixV7 is the ARMv7 kernel (Pi 2, 3)
	SuffixV7 Suffix = "7"
	// SuffixV7L is the ARMv7 LPAE kernel (Pi 4, 32-bit)
	SuffixV7L Suffix = "7l"
	// SuffixV8 is the ARMv8 64-bit kernel (Pi 3, 4)
	SuffixV8 Suffix = "8"
	// Suffix2712 is the BCM2712 64-bit 16k-page kernel (Pi 5)
	Suffix2712 Suffix = "_2712"
)

// Candidates is the ordered list of suffixes probed during release
// enumeration. The order here fixes the iteration order of a Set.
var Candidates = []Suffix{SuffixV6, SuffixV7, SuffixV7L, SuffixV8, Suffix2712}

// Family is the ARM architecture family a kernel variant belongs to.
type Family string

const (
	// FamilyARM covers the 32-bit variants
	FamilyARM Family = "arm"
	// FamilyARM64 covers the 64-bit variants
	FamilyARM64 Family = "arm64"
)

// Label returns the human-readable architecture label used in directory
// names and for release-class selection.
func (s Suffix) Label() (string, error) {
	switch s {
	case SuffixV6:
		return "v6", nil
	case SuffixV7:
		return "v7", nil
	case SuffixV7L:
		return "v7l", nil
	case SuffixV8:
		return "v8", nil
	case Suffix2712:
		return "2712", nil
	default:
		return "", errors.ErrUnknownSuffix.WithMessagef("unrecognized architecture suffix %q", string(s))
	}
}

// Family returns the ARM architecture family for the suffix.
func (s Suffix) Family() (Family, error) {
	switch s {
	case SuffixV6, SuffixV7, SuffixV7L:
		return FamilyARM, nil
	case SuffixV8, Suffix2712:
		return FamilyARM64, nil
	default:
		return "", errors.ErrUnknownSuffix.WithMessagef("unrecognized architecture suffix %q", string(s))
	}
}

// ParseLabel maps a release-class label back to its suffix. Used to
// validate the --release selection flag.
func ParseLabel(label string) (Suffix, error) {
	for _, s := range Candidates {
		l, err := s.Label()
		if err != nil {
			return "", err
		}
		if l == label {
			return s, nil
		}
	}
	return "", errors.ErrInvalidReleaseClass.WithMessagef("unknown release class %q", label)
}
