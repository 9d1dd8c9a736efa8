package kbuild

import (
	"context"
	"os"
	"os/exec"

	"github.com/bitswalk/rpisrc/src/common/errors"
	"github.com/bitswalk/rpisrc/src/common/logs"
)

// PrepMode selects the preparation sequence for the source tree.
type PrepMode string

const (
	// PrepRaspiOS refreshes the configuration with olddefconfig before
	// preparing modules, matching how Raspberry Pi OS kernels are built
	PrepRaspiOS PrepMode = "raspios"
	// PrepGeneric runs modules_prepare against the .config as-is
	PrepGeneric PrepMode = "generic"
)

// ParsePrepMode validates a --prep flag value.
func ParsePrepMode(s string) (PrepMode, error) {
	switch PrepMode(s) {
	case PrepRaspiOS, PrepGeneric:
		return PrepMode(s), nil
	default:
		return "", errors.ErrInvalidPrepMode.WithMessagef("unknown preparation mode %q", s)
	}
}

// Builder invokes the kernel build system.
type Builder struct {
	log *logs.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(log *logs.Logger) *Builder {
	return &Builder{log: log}
}

// ModulesPrepare runs the kernel build system's module preparation in
// srcDir with the given toolchain. make output passes straight through
// to the user's terminal.
func (b *Builder) ModulesPrepare(ctx context.Context, srcDir string, tc Toolchain, mode PrepMode) error {
	if mode == PrepRaspiOS {
		if err := b.runMake(ctx, srcDir, tc, "olddefconfig"); err != nil {
			return err
		}
	}
	return b.runMake(ctx, srcDir, tc, "modules_prepare")
}

func (b *Builder) runMake(ctx context.Context, srcDir string, tc Toolchain, target string) error {
	b.log.Info("Running make", "target", target, "dir", srcDir,
		"arch", tc.MakeArch, "cross_compile", tc.CrossCompilePrefix)

	cmd := exec.CommandContext(ctx, "make", target)
	cmd.Dir = srcDir
	cmd.Env = os.Environ()
	for k, v := range tc.EnvVars() {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.ErrModulesPrepareFailed.WithMessagef("make %s failed", target).WithCause(err)
	}
	return nil
}
