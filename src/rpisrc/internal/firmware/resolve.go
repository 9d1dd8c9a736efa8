package firmware

import (
	"context"
	"regexp"

	"github.com/bitswalk/rpisrc/src/common/errors"
)

// commitPattern is the required shape of an upstream kernel commit hash.
var commitPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// ResolveCommit fetches the kernel source commit hash recorded for a
// firmware build. The fetched value must be a 40-character lowercase hex
// string; anything else is treated as missing or malformed upstream
// metadata. A single fetch attempt, no retry.
func ResolveCommit(ctx context.Context, c *Client, buildID string) (string, error) {
	hash, err := c.FetchText(ctx, GitHashPath(buildID))
	if err != nil {
		if errors.Is(err, errors.ErrResourceNotFound) {
			return "", errors.ErrBadCommit.WithMessagef("no kernel commit recorded for build %q", buildID)
		}
		return "", errors.ErrBadCommit.WithCause(err)
	}

	if !commitPattern.MatchString(hash) {
		return "", errors.ErrBadCommit.WithMessagef("fetched commit hash %q is not a 40-character hex string", hash)
	}

	return hash, nil
}
