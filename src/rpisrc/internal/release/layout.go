package release

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitswalk/rpisrc/src/common/paths"
)

// Layout describes the destination directory convention for extracted
// kernel sources.
type Layout struct {
	// DestRoot is the destination root, "/" for a live system
	DestRoot string

	// ExtraVersion is inserted between the base version and the
	// architecture label in the directory name
	ExtraVersion string

	// CreateSymlink controls creation of the lib/modules build symlink
	CreateSymlink bool
}

// Paths holds the planned filesystem destinations for one release.
type Paths struct {
	// DirName is the per-release directory name, e.g. "6.12.36+rpt-rpi-v8"
	DirName string

	// SourceDir is <dest>/usr/src/<DirName>
	SourceDir string

	// ModuleDir is <dest>/lib/modules/<DirName>; only materialized when
	// symlink creation is enabled
	ModuleDir string

	// BuildLink is the "build" symlink inside ModuleDir pointing back at
	// SourceDir; empty when symlink creation is disabled
	BuildLink string
}

// Plan computes the destination paths for a release. Pure computation,
// no filesystem access.
func (l Layout) Plan(r Release) (Paths, error) {
	dirName, err := r.DirName(l.ExtraVersion)
	if err != nil {
		return Paths{}, err
	}

	p := Paths{
		DirName:   dirName,
		SourceDir: filepath.Join(l.DestRoot, "usr", "src", dirName),
		ModuleDir: filepath.Join(l.DestRoot, "lib", "modules", dirName),
	}
	if l.CreateSymlink {
		p.BuildLink = filepath.Join(p.ModuleDir, "build")
	}
	return p, nil
}

// Materialize creates the planned directories and, when enabled, the
// build symlink. It is idempotent: re-running with the same plan leaves
// the filesystem in the same state and does not fail.
func (l Layout) Materialize(p Paths) error {
	if err := paths.EnsureDirPath(p.SourceDir); err != nil {
		return fmt.Errorf("failed to create source directory: %w", err)
	}

	if !l.CreateSymlink {
		return nil
	}

	if err := paths.EnsureDirPath(p.ModuleDir); err != nil {
		return fmt.Errorf("failed to create module directory: %w", err)
	}

	return replaceSymlink(p.SourceDir, p.BuildLink)
}

// replaceSymlink points link at target, atomically replacing any
// pre-existing link of the same name.
func replaceSymlink(target, link string) error {
	tmp := link + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear stale symlink: %w", err)
	}
	if err := os.Symlink(target, tmp); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}
	if err := os.Rename(tmp, link); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace symlink: %w", err)
	}
	return nil
}
