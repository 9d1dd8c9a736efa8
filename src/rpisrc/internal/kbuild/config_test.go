package kbuild

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigMode(t *testing.T) {
	for _, valid := range []string{"module", "proc", "skip"} {
		mode, err := ParseConfigMode(valid)
		if err != nil {
			t.Errorf("ParseConfigMode(%q) unexpected error: %v", valid, err)
		}
		if string(mode) != valid {
			t.Errorf("ParseConfigMode(%q) = %q", valid, mode)
		}
	}

	if _, err := ParseConfigMode("defconfig"); err == nil {
		t.Error("expected error for unknown config mode")
	}
}

func TestParsePrepMode(t *testing.T) {
	for _, valid := range []string{"raspios", "generic"} {
		if _, err := ParsePrepMode(valid); err != nil {
			t.Errorf("ParsePrepMode(%q) unexpected error: %v", valid, err)
		}
	}

	if _, err := ParsePrepMode("debian"); err == nil {
		t.Error("expected error for unknown preparation mode")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".config"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func readConfig(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, ".config"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestPatchLocalVersion_ReplacesExisting(t *testing.T) {
	dir := writeConfig(t, "CONFIG_ARM64=y\nCONFIG_LOCALVERSION=\"\"\nCONFIG_MODULES=y\n")

	if err := PatchLocalVersion(dir, "-v8"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := readConfig(t, dir)
	if !strings.Contains(got, "CONFIG_LOCALVERSION=\"-v8\"\n") {
		t.Errorf("CONFIG_LOCALVERSION not replaced:\n%s", got)
	}
	if strings.Count(got, "CONFIG_LOCALVERSION") != 1 {
		t.Errorf("expected exactly one CONFIG_LOCALVERSION line:\n%s", got)
	}
}

func TestPatchLocalVersion_ReplacesUnsetMarker(t *testing.T) {
	dir := writeConfig(t, "# CONFIG_LOCALVERSION is not set\nCONFIG_MODULES=y\n")

	if err := PatchLocalVersion(dir, "-v7l"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := readConfig(t, dir)
	if !strings.Contains(got, "CONFIG_LOCALVERSION=\"-v7l\"\n") {
		t.Errorf("unset marker not replaced:\n%s", got)
	}
	if strings.Contains(got, "is not set") {
		t.Errorf("unset marker still present:\n%s", got)
	}
}

func TestPatchLocalVersion_AppendsWhenMissing(t *testing.T) {
	dir := writeConfig(t, "CONFIG_MODULES=y\n")

	if err := PatchLocalVersion(dir, "+rpt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := readConfig(t, dir)
	if !strings.HasSuffix(got, "CONFIG_LOCALVERSION=\"+rpt\"\n") {
		t.Errorf("option not appended:\n%s", got)
	}
}

func TestPatchLocalVersion_MissingConfig(t *testing.T) {
	if err := PatchLocalVersion(t.TempDir(), "-v8"); err == nil {
		t.Error("expected error when .config is absent")
	}
}
