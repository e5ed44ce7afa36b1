package archiver

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/mrhapile/distzip/pkg/types"
)

// ZipWriter streams files from disk into a deflate-compressed zip archive.
type ZipWriter struct {
	f      *os.File
	zw     *zip.Writer
	ts     time.Time // overrides entry modification times when non-zero
	closed bool
}

// CreateZipWriter creates (or truncates) the archive at path.
func CreateZipWriter(path string, ts time.Time) (*ZipWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}
	return &ZipWriter{f: f, zw: zip.NewWriter(f), ts: ts}, nil
}

// Stat returns the file info of the archive being written.
func (w *ZipWriter) Stat() (fs.FileInfo, error) {
	return w.f.Stat()
}

// AddFile copies the file at diskPath into the archive under name.
// info must describe the file content (symlinks already resolved).
func (w *ZipWriter) AddFile(name, diskPath string, info fs.FileInfo) (types.FileEntry, error) {
	src, err := os.Open(diskPath)
	if err != nil {
		return types.FileEntry{}, fmt.Errorf("failed to open %s: %w", diskPath, err)
	}
	defer src.Close()

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return types.FileEntry{}, fmt.Errorf("failed to build header for %s: %w", name, err)
	}
	header.Name = name
	header.Method = zip.Deflate
	if !w.ts.IsZero() {
		header.Modified = w.ts
	}

	dst, err := w.zw.CreateHeader(header)
	if err != nil {
		return types.FileEntry{}, fmt.Errorf("failed to write header for %s: %w", name, err)
	}

	hasher := sha256.New()
	n, err := io.Copy(io.MultiWriter(dst, hasher), src)
	if err != nil {
		return types.FileEntry{}, fmt.Errorf("failed to write content for %s: %w", name, err)
	}

	return types.FileEntry{
		Path:   name,
		Size:   n,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Close finalizes the central directory and closes the file. It is safe to
// call more than once.
func (w *ZipWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return errors.Join(w.zw.Close(), w.f.Close())
}
