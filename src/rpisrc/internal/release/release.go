package release

import (
	"regexp"
	"strings"
)

// versionPattern matches the kernel release token inside a uname string,
// e.g. "6.12.36-v8-16k+" in
// "Linux version 6.12.36-v8-16k+ (dom@buildbot) (gcc ...) #1805 SMP".
// The token always ends with '+' on Raspberry Pi kernels.
var versionPattern = regexp.MustCompile(`[0-9]\.[0-9]{1,2}\.[0-9]{1,2}\S*\+`)

// ExtractVersion finds the kernel release version token in a uname string.
// The second return value is false when the text contains no such token.
func ExtractVersion(uname string) (string, bool) {
	m := versionPattern.FindString(uname)
	if m == "" {
		return "", false
	}
	return m, true
}

// Release is one architecture-specific kernel release derived from a
// firmware build.
type Release struct {
	// Version is the raw release version string, e.g. "6.12.36-v8-16k+"
	Version string

	// Suffix is the architecture suffix the version was discovered under
	Suffix Suffix
}

// BaseVersion returns the numeric version prefix. The canonical rule is
// to cut at the first '-' or '+', whichever comes first:
// "6.12.36-v8-16k+" -> "6.12.36".
func (r Release) BaseVersion() string {
	cut := len(r.Version)
	if i := strings.IndexAny(r.Version, "-+"); i >= 0 {
		cut = i
	}
	return r.Version[:cut]
}

// Label returns the release-class label for the release's suffix.
func (r Release) Label() (string, error) {
	return r.Suffix.Label()
}

// DirName derives the per-release directory name from the base version,
// an extra version tag and the architecture label:
// base "6.12.36", extra "+rpt-rpi", suffix "_2712" -> "6.12.36+rpt-rpi-2712".
// The derivation is deterministic and injective across distinct inputs.
func (r Release) DirName(extraVersion string) (string, error) {
	label, err := r.Suffix.Label()
	if err != nil {
		return "", err
	}
	return r.BaseVersion() + extraVersion + "-" + label, nil
}
