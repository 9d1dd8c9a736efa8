package firmware

import (
	"context"

	semver "github.com/Masterminds/semver/v3"

	"github.com/bitswalk/rpisrc/src/common/errors"
	"github.com/bitswalk/rpisrc/src/common/logs"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/release"
)

// EnumerateReleases probes the uname string of every architecture suffix
// candidate and builds the release set for the firmware build.
//
// A candidate whose uname resource is absent, or whose text contains no
// release version token, is skipped: not every firmware build ships every
// variant. Only an entirely empty result is an error.
func EnumerateReleases(ctx context.Context, c *Client, log *logs.Logger, buildID string) (*release.Set, error) {
	set := release.NewSet()

	for _, suffix := range release.Candidates {
		uname, err := c.FetchText(ctx, UnamePath(buildID, suffix))
		if err != nil {
			if errors.Is(err, errors.ErrResourceNotFound) {
				log.Debug("No uname string for variant", "suffix", string(suffix))
				continue
			}
			return nil, err
		}

		version, ok := release.ExtractVersion(uname)
		if !ok {
			log.Debug("No release version in uname string", "suffix", string(suffix), "uname", uname)
			continue
		}

		rel := release.Release{Version: version, Suffix: suffix}

		// The numeric prefix must be a well-formed kernel version
		if _, err := semver.NewVersion(rel.BaseVersion()); err != nil {
			log.Debug("Skipping release with unparseable base version",
				"version", version, "base", rel.BaseVersion(), "error", err)
			continue
		}

		if err := set.Add(rel); err != nil {
			return nil, err
		}
		log.Debug("Discovered release", "version", version, "suffix", string(suffix))
	}

	if set.Len() == 0 {
		return nil, errors.ErrNoReleases.WithMessagef("no architecture variant resolved for build %q", buildID)
	}

	return set, nil
}
