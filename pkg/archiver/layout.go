package archiver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// entryName maps a file under root to its archive entry name: the path
// relative to root, slash separated. The root's own name never appears.
func entryName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve entry name for %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}

// walkFunc is called once per regular file, in lexical order.
type walkFunc func(name, path string, info fs.FileInfo) error

// walkSource visits every regular file below root. Symlinks to regular files
// are followed; symlinks to directories are not descended. Other non-regular
// files are skipped. Files for which skip returns true are ignored.
func walkSource(root string, skip func(fs.FileInfo) bool, fn walkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}

		info, err := resolveEntry(path, d)
		if err != nil {
			return err
		}
		if info == nil || skip(info) {
			return nil
		}

		name, err := entryName(root, path)
		if err != nil {
			return err
		}
		return fn(name, path, info)
	})
}

// resolveEntry returns the info describing the content at path, or nil when
// the entry does not produce an archive entry.
func resolveEntry(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to follow symlink %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return info, nil
	}
	if !d.Type().IsRegular() {
		return nil, nil
	}
	info, err := d.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info, nil
}
