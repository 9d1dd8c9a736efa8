package firmware

import (
	"context"
	"testing"

	"github.com/bitswalk/rpisrc/src/common/errors"
	"github.com/bitswalk/rpisrc/src/common/logs"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/release"
)

func quietLogger() *logs.Logger {
	return logs.New(logs.Config{Output: logs.OutputStdout, Level: "error"})
}

func TestEnumerateReleases(t *testing.T) {
	c := testServer(t, map[string]string{
		"/b1/uname_string":      "Linux version 6.12.36+ (dom@buildbot) #1805",
		"/b1/uname_string7":     "Linux version 6.12.36-v7+ (dom@buildbot) #1805",
		"/b1/uname_string7l":    "Linux version 6.12.36-v7l+ (dom@buildbot) #1805",
		"/b1/uname_string8":     "Linux version 6.12.36-v8+ (dom@buildbot) #1805",
		"/b1/uname_string_2712": "Linux version 6.12.36-v8-16k+ (dom@buildbot) #1805",
	})

	set, err := EnumerateReleases(context.Background(), c, quietLogger(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", set.Len())
	}

	// Discovery follows the candidate order
	want := []struct {
		version string
		suffix  release.Suffix
	}{
		{"6.12.36+", release.SuffixV6},
		{"6.12.36-v7+", release.SuffixV7},
		{"6.12.36-v7l+", release.SuffixV7L},
		{"6.12.36-v8+", release.SuffixV8},
		{"6.12.36-v8-16k+", release.Suffix2712},
	}
	for i, rel := range set.Releases() {
		if rel.Version != want[i].version || rel.Suffix != want[i].suffix {
			t.Errorf("release %d = {%q %q}, want {%q %q}",
				i, rel.Version, rel.Suffix, want[i].version, want[i].suffix)
		}
	}
}

func TestEnumerateReleases_MissingVariantsSkipped(t *testing.T) {
	// Old firmware builds only ship a subset of variants
	c := testServer(t, map[string]string{
		"/b2/uname_string":  "Linux version 4.19.118+ #1311",
		"/b2/uname_string7": "Linux version 4.19.118-v7+ #1311",
	})

	set, err := EnumerateReleases(context.Background(), c, quietLogger(), "b2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	if _, ok := set.BySuffix(release.SuffixV8); ok {
		t.Error("expected v8 variant to be absent")
	}
}

func TestEnumerateReleases_UnmatchedTextSkipped(t *testing.T) {
	c := testServer(t, map[string]string{
		"/b3/uname_string":  "not a uname string at all",
		"/b3/uname_string8": "Linux version 6.6.31-v8+ #1762",
	})

	set, err := EnumerateReleases(context.Background(), c, quietLogger(), "b3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	if _, ok := set.BySuffix(release.SuffixV8); !ok {
		t.Error("expected v8 variant to be present")
	}
}

func TestEnumerateReleases_Empty(t *testing.T) {
	c := testServer(t, nil)

	_, err := EnumerateReleases(context.Background(), c, quietLogger(), "b4")
	if err == nil {
		t.Fatal("expected error for empty release set")
	}
	if !errors.Is(err, errors.ErrNoReleases) {
		t.Errorf("expected ErrNoReleases, got %v", err)
	}
}
