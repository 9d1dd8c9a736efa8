package release

import (
	"testing"

	"github.com/bitswalk/rpisrc/src/common/errors"
)

func testSet(t *testing.T) *Set {
	t.Helper()
	set := NewSet()
	for _, r := range []Release{
		{Version: "6.12.36+", Suffix: SuffixV6},
		{Version: "6.12.36-v7+", Suffix: SuffixV7},
		{Version: "6.12.36-v7l+", Suffix: SuffixV7L},
		{Version: "6.12.36-v8+", Suffix: SuffixV8},
	} {
		if err := set.Add(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return set
}

func TestSetPreservesInsertionOrder(t *testing.T) {
	set := testSet(t)

	want := []Suffix{SuffixV6, SuffixV7, SuffixV7L, SuffixV8}
	got := set.Releases()
	if len(got) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.Suffix != want[i] {
			t.Errorf("release %d has suffix %q, want %q", i, r.Suffix, want[i])
		}
	}
}

func TestSetRejectsDuplicateSuffix(t *testing.T) {
	set := testSet(t)

	err := set.Add(Release{Version: "6.12.37-v7+", Suffix: SuffixV7})
	if err == nil {
		t.Fatal("expected error for duplicate suffix")
	}
	if !errors.Is(err, errors.ErrDuplicateSuffix) {
		t.Errorf("expected ErrDuplicateSuffix, got %v", err)
	}
	if set.Len() != 4 {
		t.Errorf("Len() = %d after rejected add, want 4", set.Len())
	}
}

func TestSetBySuffix(t *testing.T) {
	set := testSet(t)

	r, ok := set.BySuffix(SuffixV7L)
	if !ok {
		t.Fatal("expected v7l release to be present")
	}
	if r.Version != "6.12.36-v7l+" {
		t.Errorf("BySuffix(v7l) version = %q", r.Version)
	}

	if _, ok := set.BySuffix(Suffix2712); ok {
		t.Error("expected 2712 release to be absent")
	}
}

func TestSetFilter(t *testing.T) {
	set := testSet(t)

	t.Run("restricting to v7l selects exactly one", func(t *testing.T) {
		got, err := set.Filter("v7l")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Filter(v7l) returned %d releases, want 1", len(got))
		}
		if got[0].Suffix != SuffixV7L {
			t.Errorf("Filter(v7l) returned suffix %q", got[0].Suffix)
		}
	})

	t.Run("empty label selects all", func(t *testing.T) {
		got, err := set.Filter("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != set.Len() {
			t.Errorf("Filter(\"\") returned %d releases, want %d", len(got), set.Len())
		}
	})

	t.Run("undiscovered class selects nothing", func(t *testing.T) {
		got, err := set.Filter("2712")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Filter(2712) returned %d releases, want 0", len(got))
		}
	})

	t.Run("unknown label is an error", func(t *testing.T) {
		if _, err := set.Filter("v9"); err == nil {
			t.Error("expected error for unknown release class")
		}
	})
}
