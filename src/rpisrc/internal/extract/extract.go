// Package extract unpacks kernel source archives into a destination
// directory.
package extract

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Archive extracts a tar archive (optionally gzip, xz or bzip2
// compressed, detected by extension) into destDir.
//
// GitHub source archives wrap everything in a single top-level directory
// named after the repository and commit; stripTopLevel drops that leading
// path component so the kernel tree lands directly in destDir.
func Archive(ctx context.Context, archivePath, destDir string, stripTopLevel bool) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file

	switch {
	case strings.HasSuffix(archivePath, ".tar.gz") || strings.HasSuffix(archivePath, ".tgz"):
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader

	case strings.HasSuffix(archivePath, ".tar.xz") || strings.HasSuffix(archivePath, ".txz"):
		xzReader, err := xz.NewReader(file)
		if err != nil {
			return fmt.Errorf("failed to create xz reader: %w", err)
		}
		reader = xzReader

	case strings.HasSuffix(archivePath, ".tar.bz2") || strings.HasSuffix(archivePath, ".tbz2"):
		reader = bzip2.NewReader(file)

	case strings.HasSuffix(archivePath, ".tar"):
		// Plain tar, no decompression needed

	default:
		return fmt.Errorf("unsupported archive format: %s", archivePath)
	}

	tarReader := tar.NewReader(reader)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		name := header.Name
		if stripTopLevel {
			var ok bool
			name, ok = stripLeadingComponent(name)
			if !ok {
				continue
			}
		}

		target := filepath.Join(destDir, name)

		// Prevent path traversal out of destDir
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("invalid tar path: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}
			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("failed to create file: %w", err)
			}
			if _, err := io.Copy(outFile, tarReader); err != nil {
				outFile.Close()
				return fmt.Errorf("failed to write file: %w", err)
			}
			outFile.Close()

		case tar.TypeSymlink:
			if err := checkLinkTarget(destDir, target, header.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to clear existing symlink: %w", err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink: %w", err)
			}

		case tar.TypeLink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}
			linkName := header.Linkname
			if stripTopLevel {
				if stripped, ok := stripLeadingComponent(linkName); ok {
					linkName = stripped
				}
			}
			linkTarget := filepath.Join(destDir, linkName)
			if !strings.HasPrefix(filepath.Clean(linkTarget), filepath.Clean(destDir)+string(os.PathSeparator)) {
				return fmt.Errorf("invalid link target: %s", header.Linkname)
			}
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to clear existing hard link: %w", err)
			}
			if err := os.Link(linkTarget, target); err != nil {
				return fmt.Errorf("failed to create hard link: %w", err)
			}
		}
	}

	return nil
}

// checkLinkTarget rejects symlink targets that resolve outside destDir:
// absolute targets and relative ones that climb past the destination.
// The entry-name guard does not cover link targets.
func checkLinkTarget(destDir, linkPath, linkTarget string) error {
	if filepath.IsAbs(linkTarget) {
		return fmt.Errorf("invalid link target: %s", linkTarget)
	}
	resolved := filepath.Join(filepath.Dir(linkPath), linkTarget)
	if !strings.HasPrefix(filepath.Clean(resolved)+string(os.PathSeparator), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("link target escapes destination: %s", linkTarget)
	}
	return nil
}

// stripLeadingComponent drops the first path component of a tar entry
// name. Entries that ARE the top-level directory itself report false.
func stripLeadingComponent(name string) (string, bool) {
	name = strings.TrimPrefix(name, "./")
	i := strings.IndexByte(name, '/')
	if i < 0 {
		return "", false
	}
	rest := name[i+1:]
	if rest == "" {
		return "", false
	}
	return rest, true
}
