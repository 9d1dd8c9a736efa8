// Package kbuild drives the kernel build system: cross-compile toolchain
// selection, .config acquisition and the modules_prepare step.
package kbuild

import (
	"os/exec"
	"runtime"

	"github.com/bitswalk/rpisrc/src/common/errors"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/release"
)

// HostArch represents the detected host machine architecture
type HostArch string

const (
	HostArchX86_64  HostArch = "x86_64"
	HostArchAARCH64 HostArch = "aarch64"
	HostArchARM     HostArch = "armv7l"
)

// Toolchain describes the compiler setup for one host-to-target
// combination. An empty CrossCompilePrefix means a native build.
type Toolchain struct {
	CrossCompilePrefix string // e.g. "aarch64-linux-gnu-"
	MakeArch           string // value for the kernel ARCH= variable
	Pkg                string // informational: distro package providing the compiler
}

// ArchPair is the key for toolchain lookup: host -> target family
type ArchPair struct {
	Host   HostArch
	Target release.Family
}

// toolchainRegistry maps host/target pairs to their toolchain
// configuration. Pairs not listed here cannot be built.
var toolchainRegistry = map[ArchPair]Toolchain{
	// Native builds (empty CrossCompilePrefix)
	{HostArchARM, release.FamilyARM}:       {MakeArch: "arm"},
	{HostArchAARCH64, release.FamilyARM64}: {MakeArch: "arm64"},

	// Cross-compilation builds
	{HostArchX86_64, release.FamilyARM}: {
		CrossCompilePrefix: "arm-linux-gnueabihf-",
		MakeArch:           "arm",
		Pkg:                "gcc-arm-linux-gnueabihf",
	},
	{HostArchX86_64, release.FamilyARM64}: {
		CrossCompilePrefix: "aarch64-linux-gnu-",
		MakeArch:           "arm64",
		Pkg:                "gcc-aarch64-linux-gnu",
	},
	{HostArchAARCH64, release.FamilyARM}: {
		CrossCompilePrefix: "arm-linux-gnueabihf-",
		MakeArch:           "arm",
		Pkg:                "gcc-arm-linux-gnueabihf",
	},
}

// DetectHostArch returns the architecture of the machine running rpisrc
func DetectHostArch() HostArch {
	switch runtime.GOARCH {
	case "arm64":
		return HostArchAARCH64
	case "arm":
		return HostArchARM
	default:
		// Treat every other host as a cross-compiling x86_64 box
		return HostArchX86_64
	}
}

// GetToolchain returns the Toolchain for a host/target-family pair.
// Native pairs return an empty CrossCompilePrefix.
func GetToolchain(host HostArch, target release.Family) (Toolchain, error) {
	tc, ok := toolchainRegistry[ArchPair{Host: host, Target: target}]
	if !ok {
		return Toolchain{}, errors.ErrUnsupportedArchPair.WithMessagef(
			"no toolchain for host=%s target=%s", string(host), string(target))
	}
	return tc, nil
}

// IsCross reports whether the toolchain cross-compiles.
func (t Toolchain) IsCross() bool {
	return t.CrossCompilePrefix != ""
}

// Validate checks that the toolchain's compiler (and make itself) can be
// located in PATH. Called before any build activity so a missing cross
// compiler fails fast.
func (t Toolchain) Validate() error {
	if _, err := exec.LookPath("make"); err != nil {
		return errors.ErrModulesPrepareFailed.WithMessage("make not found in PATH")
	}
	if !t.IsCross() {
		return nil
	}
	compiler := t.CrossCompilePrefix + "gcc"
	if _, err := exec.LookPath(compiler); err != nil {
		return errors.ErrCrossCompilerMissing.WithMessagef(
			"%s not found in PATH (install %s)", compiler, t.Pkg)
	}
	return nil
}

// EnvVars returns the environment variables to pass to make.
func (t Toolchain) EnvVars() map[string]string {
	env := map[string]string{
		"ARCH": t.MakeArch,
	}
	if t.IsCross() {
		env["CROSS_COMPILE"] = t.CrossCompilePrefix
	}
	return env
}
