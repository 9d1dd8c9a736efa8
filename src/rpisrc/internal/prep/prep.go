// Package prep orchestrates the full source preparation pipeline:
// resolve commit, enumerate releases, then per release plan paths,
// fetch, extract, configure and run the kernel module preparation.
package prep

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bitswalk/rpisrc/src/common/logs"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/extract"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/fetch"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/firmware"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/kbuild"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/release"
)

// Options configures one preparation run.
type Options struct {
	// BuildID is the firmware build identifier
	BuildID string

	// DestRoot is the destination root directory
	DestRoot string

	// WorkDir holds downloaded archives between runs
	WorkDir string

	// ExtraVersion is inserted into the per-release directory name
	ExtraVersion string

	// LocalVersion, when non-empty, is patched into CONFIG_LOCALVERSION
	LocalVersion string

	// ReleaseClass restricts processing to one release class; empty
	// processes every discovered release
	ReleaseClass string

	// ConfigMode selects .config acquisition
	ConfigMode kbuild.ConfigMode

	// PrepMode selects the make preparation sequence
	PrepMode kbuild.PrepMode

	// CreateSymlink controls the lib/modules build symlink
	CreateSymlink bool
}

// Runner executes preparation runs. Strictly sequential: releases are
// processed one at a time and the first failure aborts the whole run.
type Runner struct {
	client     *firmware.Client
	downloader *fetch.Downloader
	builder    *kbuild.Builder
	log        *logs.Logger
}

// NewRunner creates a Runner.
func NewRunner(client *firmware.Client, downloader *fetch.Downloader, log *logs.Logger) *Runner {
	return &Runner{
		client:     client,
		downloader: downloader,
		builder:    kbuild.NewBuilder(log),
		log:        log,
	}
}

// Run executes the pipeline for one firmware build.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	// Commit resolution happens before any directory is created, so a
	// malformed upstream hash leaves the filesystem untouched.
	commit, err := firmware.ResolveCommit(ctx, r.client, opts.BuildID)
	if err != nil {
		return err
	}
	r.log.Info("Resolved kernel commit", "build", opts.BuildID, "commit", commit)

	set, err := firmware.EnumerateReleases(ctx, r.client, r.log, opts.BuildID)
	if err != nil {
		return err
	}

	selected, err := set.Filter(opts.ReleaseClass)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		r.log.Warn("No discovered release matches the requested class",
			"class", opts.ReleaseClass)
		return nil
	}

	// All releases of one build share a single source commit, so the
	// archive is downloaded once and reused per release.
	archivePath := filepath.Join(opts.WorkDir, fmt.Sprintf("linux-%s.tar.gz", commit))
	if _, err := r.downloader.FetchFileCached(ctx, r.client.ArchiveURL(commit), archivePath); err != nil {
		return err
	}

	layout := release.Layout{
		DestRoot:      opts.DestRoot,
		ExtraVersion:  opts.ExtraVersion,
		CreateSymlink: opts.CreateSymlink,
	}
	host := kbuild.DetectHostArch()

	for _, rel := range selected {
		if err := r.prepareRelease(ctx, opts, layout, host, rel, archivePath); err != nil {
			return err
		}
	}

	r.log.Info("All releases prepared", "build", opts.BuildID, "count", len(selected))
	return nil
}

func (r *Runner) prepareRelease(ctx context.Context, opts Options, layout release.Layout, host kbuild.HostArch, rel release.Release, archivePath string) error {
	paths, err := layout.Plan(rel)
	if err != nil {
		return err
	}
	r.log.Info("Preparing release",
		"version", rel.Version, "dir", paths.SourceDir)

	// The cross-compile decision comes before the fetch/extract work for
	// this release: a missing compiler should fail before touching the
	// network or unpacking half a gigabyte of sources.
	family, err := rel.Suffix.Family()
	if err != nil {
		return err
	}
	toolchain, err := kbuild.GetToolchain(host, family)
	if err != nil {
		return err
	}
	if err := toolchain.Validate(); err != nil {
		return err
	}

	if err := layout.Materialize(paths); err != nil {
		return err
	}

	if err := extract.Archive(ctx, archivePath, paths.SourceDir, true); err != nil {
		return err
	}

	if err := r.acquireConfig(ctx, opts, rel, paths.SourceDir); err != nil {
		return err
	}

	symversURL := r.client.SymversURL(opts.BuildID, rel.Suffix)
	symversPath := filepath.Join(paths.SourceDir, "Module.symvers")
	if _, err := r.downloader.FetchFile(ctx, symversURL, symversPath); err != nil {
		return err
	}

	if err := r.builder.ModulesPrepare(ctx, paths.SourceDir, toolchain, opts.PrepMode); err != nil {
		return err
	}

	r.log.Info("Release prepared", "version", rel.Version, "dir", paths.SourceDir)
	return nil
}

func (r *Runner) acquireConfig(ctx context.Context, opts Options, rel release.Release, srcDir string) error {
	configPath := filepath.Join(srcDir, ".config")

	switch opts.ConfigMode {
	case kbuild.ConfigModule:
		if _, err := r.downloader.FetchFile(ctx, r.client.ConfigURL(opts.BuildID, rel), configPath); err != nil {
			return err
		}
	case kbuild.ConfigProc:
		if err := kbuild.WriteProcConfig(srcDir); err != nil {
			return err
		}
	case kbuild.ConfigSkip:
		r.log.Debug("Skipping configuration acquisition", "version", rel.Version)
		return nil
	}

	if opts.LocalVersion != "" {
		if err := kbuild.PatchLocalVersion(srcDir, opts.LocalVersion); err != nil {
			return err
		}
	}
	return nil
}
