package prep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitswalk/rpisrc/src/common/errors"
	"github.com/bitswalk/rpisrc/src/common/logs"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/fetch"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/firmware"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/kbuild"
)

func quietLogger() *logs.Logger {
	return logs.New(logs.Config{Output: logs.OutputStdout, Level: "error"})
}

func testRunner(t *testing.T, resources map[string]string) *Runner {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := resources[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := firmware.New(srv.URL)
	log := quietLogger()
	return NewRunner(client, fetch.NewDownloader(nil, log), log)
}

func baseOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		BuildID:       "b1",
		DestRoot:      filepath.Join(t.TempDir(), "dest"),
		WorkDir:       t.TempDir(),
		ConfigMode:    kbuild.ConfigSkip,
		PrepMode:      kbuild.PrepGeneric,
		CreateSymlink: true,
	}
}

func TestRun_MalformedCommitFailsBeforeAnyDirectory(t *testing.T) {
	r := testRunner(t, map[string]string{
		"/b1/git_hash":     "not-a-commit-hash",
		"/b1/uname_string": "Linux version 6.12.36+ #1805",
	})
	opts := baseOptions(t)

	err := r.Run(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for malformed commit hash")
	}
	if !errors.Is(err, errors.ErrBadCommit) {
		t.Errorf("expected ErrBadCommit, got %v", err)
	}

	if _, statErr := os.Stat(opts.DestRoot); !os.IsNotExist(statErr) {
		t.Error("destination directory was created despite the resolve failure")
	}
}

func TestRun_EmptyReleaseSetFails(t *testing.T) {
	r := testRunner(t, map[string]string{
		"/b1/git_hash": "3f9ee1bbf0f7f1c1c0a3e9e6b1d35b77c1f0a2d4",
	})
	opts := baseOptions(t)

	err := r.Run(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for empty release set")
	}
	if !errors.Is(err, errors.ErrNoReleases) {
		t.Errorf("expected ErrNoReleases, got %v", err)
	}
}

func TestRun_NoMatchingClassIsNotAnError(t *testing.T) {
	r := testRunner(t, map[string]string{
		"/b1/git_hash":     "3f9ee1bbf0f7f1c1c0a3e9e6b1d35b77c1f0a2d4",
		"/b1/uname_string": "Linux version 6.12.36+ #1805",
	})
	opts := baseOptions(t)
	opts.ReleaseClass = "2712"

	if err := r.Run(context.Background(), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nothing selected means nothing planned or downloaded
	if _, statErr := os.Stat(opts.DestRoot); !os.IsNotExist(statErr) {
		t.Error("destination directory was created for an empty selection")
	}
}

func TestRun_UnknownClassIsAnError(t *testing.T) {
	r := testRunner(t, map[string]string{
		"/b1/git_hash":     "3f9ee1bbf0f7f1c1c0a3e9e6b1d35b77c1f0a2d4",
		"/b1/uname_string": "Linux version 6.12.36+ #1805",
	})
	opts := baseOptions(t)
	opts.ReleaseClass = "armv9"

	if err := r.Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for unknown release class")
	}
}
