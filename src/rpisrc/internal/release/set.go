package release

import (
	"github.com/bitswalk/rpisrc/src/common/errors"
)

// Set is the collection of releases discovered for one firmware build.
// It preserves insertion order, which downstream processing relies on,
// and holds at most one release per architecture suffix.
//
// A Set is built once per run by the enumerator and read-only afterwards.
type Set struct {
	releases []Release
	bySuffix map[Suffix]int
}

// NewSet returns an empty release set.
func NewSet() *Set {
	return &Set{bySuffix: make(map[Suffix]int)}
}

// Add appends a release to the set. Adding a second release for the same
// architecture suffix is an error.
func (s *Set) Add(r Release) error {
	if _, ok := s.bySuffix[r.Suffix]; ok {
		return errors.ErrDuplicateSuffix.WithMessagef("suffix %q already discovered", string(r.Suffix))
	}
	s.bySuffix[r.Suffix] = len(s.releases)
	s.releases = append(s.releases, r)
	return nil
}

// Len returns the number of releases in the set.
func (s *Set) Len() int {
	return len(s.releases)
}

// Releases returns the releases in insertion order.
func (s *Set) Releases() []Release {
	return s.releases
}

// BySuffix returns the release discovered for the given suffix, if any.
func (s *Set) BySuffix(suffix Suffix) (Release, bool) {
	i, ok := s.bySuffix[suffix]
	if !ok {
		return Release{}, false
	}
	return s.releases[i], true
}

// Filter returns the releases matching the given release-class label, in
// insertion order. An empty label selects every release.
func (s *Set) Filter(label string) ([]Release, error) {
	if label == "" {
		return s.releases, nil
	}
	suffix, err := ParseLabel(label)
	if err != nil {
		return nil, err
	}
	var out []Release
	for _, r := range s.releases {
		if r.Suffix == suffix {
			out = append(out, r)
		}
	}
	return out, nil
}
