package kbuild

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitswalk/rpisrc/src/common/errors"
)

// ConfigMode selects how the kernel .config is acquired.
type ConfigMode string

const (
	// ConfigModule downloads the packaged configuration shipped with the
	// firmware build's modules
	ConfigModule ConfigMode = "module"
	// ConfigProc reads the running kernel's /proc/config.gz
	ConfigProc ConfigMode = "proc"
	// ConfigSkip leaves the source tree without a .config
	ConfigSkip ConfigMode = "skip"
)

// ParseConfigMode validates a --config flag value.
func ParseConfigMode(s string) (ConfigMode, error) {
	switch ConfigMode(s) {
	case ConfigModule, ConfigProc, ConfigSkip:
		return ConfigMode(s), nil
	default:
		return "", errors.ErrInvalidConfigMode.WithMessagef("unknown config mode %q", s)
	}
}

// procConfigPath is the running kernel's compressed configuration.
const procConfigPath = "/proc/config.gz"

// WriteProcConfig decompresses /proc/config.gz into <srcDir>/.config.
// Requires the configs module to be loaded on the running system.
func WriteProcConfig(srcDir string) error {
	in, err := os.Open(procConfigPath)
	if err != nil {
		return fmt.Errorf("failed to open %s (is the configs module loaded?): %w", procConfigPath, err)
	}
	defer in.Close()

	gzReader, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", procConfigPath, err)
	}
	defer gzReader.Close()

	out, err := os.Create(filepath.Join(srcDir, ".config"))
	if err != nil {
		return fmt.Errorf("failed to create .config: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, gzReader); err != nil {
		return fmt.Errorf("failed to write .config: %w", err)
	}
	return out.Close()
}

// PatchLocalVersion sets CONFIG_LOCALVERSION in <srcDir>/.config so the
// prepared tree reports the same release string as the running kernel.
// An existing CONFIG_LOCALVERSION line (set or commented out) is
// replaced; otherwise the option is appended.
func PatchLocalVersion(srcDir, localVersion string) error {
	configPath := filepath.Join(srcDir, ".config")

	in, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open .config: %w", err)
	}

	line := fmt.Sprintf("CONFIG_LOCALVERSION=%q", localVersion)
	var out strings.Builder
	replaced := false

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		if strings.HasPrefix(text, "CONFIG_LOCALVERSION=") ||
			strings.HasPrefix(text, "# CONFIG_LOCALVERSION is not set") {
			if !replaced {
				out.WriteString(line + "\n")
				replaced = true
			}
			continue
		}
		out.WriteString(text + "\n")
	}
	if err := scanner.Err(); err != nil {
		in.Close()
		return fmt.Errorf("failed to read .config: %w", err)
	}
	in.Close()

	if !replaced {
		out.WriteString(line + "\n")
	}

	if err := os.WriteFile(configPath, []byte(out.String()), 0644); err != nil {
		return fmt.Errorf("failed to rewrite .config: %w", err)
	}
	return nil
}
