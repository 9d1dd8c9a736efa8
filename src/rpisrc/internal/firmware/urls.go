package firmware

import (
	"fmt"

	"github.com/bitswalk/rpisrc/src/rpisrc/internal/release"
)

// Upstream resource paths, each keyed by the firmware build identifier
// and, where applicable, the architecture suffix or release name.

// GitHashPath is the path of the kernel source commit hash for a build.
func GitHashPath(buildID string) string {
	return fmt.Sprintf("/%s/git_hash", buildID)
}

// UnamePath is the path of the uname string for one architecture variant.
func UnamePath(buildID string, suffix release.Suffix) string {
	return fmt.Sprintf("/%s/uname_string%s", buildID, string(suffix))
}

// SymversPath is the path of the Module.symvers file for one variant.
func SymversPath(buildID string, suffix release.Suffix) string {
	return fmt.Sprintf("/%s/Module%s.symvers", buildID, string(suffix))
}

// ConfigPath is the path of the packaged kernel configuration shipped
// with the build's modules, keyed by the release version string.
func ConfigPath(buildID string, rel release.Release) string {
	return fmt.Sprintf("/%s/modules/%s/build/.config", buildID, rel.Version)
}

// ArchiveURL is the full URL of the kernel source archive for a commit.
func (c *Client) ArchiveURL(commit string) string {
	return fmt.Sprintf("%s/%s.tar.gz", c.ArchiveBaseURL, commit)
}

// SymversURL is the full URL of the Module.symvers file for one variant.
func (c *Client) SymversURL(buildID string, suffix release.Suffix) string {
	return c.BaseURL + SymversPath(buildID, suffix)
}

// ConfigURL is the full URL of the packaged kernel configuration.
func (c *Client) ConfigURL(buildID string, rel release.Release) string {
	return c.BaseURL + ConfigPath(buildID, rel)
}
