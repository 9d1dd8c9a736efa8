package release

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLayoutPlan(t *testing.T) {
	layout := Layout{
		DestRoot:      "/opt/stage",
		ExtraVersion:  "+rpt-rpi",
		CreateSymlink: true,
	}
	rel := Release{Version: "6.12.36-v8-16k+", Suffix: Suffix2712}

	p, err := layout.Plan(rel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.DirName != "6.12.36+rpt-rpi-2712" {
		t.Errorf("DirName = %q", p.DirName)
	}
	if p.SourceDir != "/opt/stage/usr/src/6.12.36+rpt-rpi-2712" {
		t.Errorf("SourceDir = %q", p.SourceDir)
	}
	if p.ModuleDir != "/opt/stage/lib/modules/6.12.36+rpt-rpi-2712" {
		t.Errorf("ModuleDir = %q", p.ModuleDir)
	}
	if p.BuildLink != filepath.Join(p.ModuleDir, "build") {
		t.Errorf("BuildLink = %q", p.BuildLink)
	}
}

func TestLayoutPlan_NoSymlink(t *testing.T) {
	layout := Layout{DestRoot: "/", CreateSymlink: false}
	p, err := layout.Plan(Release{Version: "6.1.21-v7+", Suffix: SuffixV7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BuildLink != "" {
		t.Errorf("expected empty BuildLink, got %q", p.BuildLink)
	}
}

func TestLayoutMaterialize(t *testing.T) {
	layout := Layout{
		DestRoot:      t.TempDir(),
		CreateSymlink: true,
	}
	rel := Release{Version: "6.12.36-v8+", Suffix: SuffixV8}

	p, err := layout.Plan(rel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := layout.Materialize(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info, err := os.Stat(p.SourceDir); err != nil || !info.IsDir() {
		t.Errorf("source directory not created: %v", err)
	}
	target, err := os.Readlink(p.BuildLink)
	if err != nil {
		t.Fatalf("build link not created: %v", err)
	}
	if target != p.SourceDir {
		t.Errorf("build link points at %q, want %q", target, p.SourceDir)
	}
}

func TestLayoutMaterialize_Idempotent(t *testing.T) {
	layout := Layout{
		DestRoot:      t.TempDir(),
		CreateSymlink: true,
	}
	rel := Release{Version: "6.12.36-v7l+", Suffix: SuffixV7L}

	p, err := layout.Plan(rel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := layout.Materialize(p); err != nil {
		t.Fatalf("first materialize: %v", err)
	}
	if err := layout.Materialize(p); err != nil {
		t.Fatalf("second materialize: %v", err)
	}

	target, err := os.Readlink(p.BuildLink)
	if err != nil {
		t.Fatalf("build link missing after re-run: %v", err)
	}
	if target != p.SourceDir {
		t.Errorf("build link points at %q, want %q", target, p.SourceDir)
	}
}

func TestLayoutMaterialize_ReplacesStaleLink(t *testing.T) {
	layout := Layout{
		DestRoot:      t.TempDir(),
		CreateSymlink: true,
	}
	rel := Release{Version: "6.12.36-v8+", Suffix: SuffixV8}

	p, err := layout.Plan(rel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Pre-create a link pointing somewhere stale
	if err := os.MkdirAll(p.ModuleDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("/nonexistent/old-tree", p.BuildLink); err != nil {
		t.Fatal(err)
	}

	if err := layout.Materialize(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target, err := os.Readlink(p.BuildLink)
	if err != nil {
		t.Fatal(err)
	}
	if target != p.SourceDir {
		t.Errorf("build link points at %q, want %q", target, p.SourceDir)
	}
}
