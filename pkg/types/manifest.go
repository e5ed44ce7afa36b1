package types

import "time"

// ArchiveManifest describes the contents of the generated archive.
type ArchiveManifest struct {
	// Version is the schema version of the manifest layout.
	Version string `json:"version" yaml:"version"`

	// GeneratedAt is the timestamp when the archive was created.
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`

	// SourceDir is the directory whose contents were archived.
	SourceDir string `json:"sourceDir" yaml:"sourceDir"`

	// TotalFiles is the count of entries in the archive.
	TotalFiles int `json:"totalFiles" yaml:"totalFiles"`

	// Files lists all entries in archive order.
	Files []FileEntry `json:"files" yaml:"files"`

	// ContentHash is the SHA256 over the concatenated per-entry hashes.
	ContentHash string `json:"contentHash" yaml:"contentHash"`
}

// FileEntry represents a single entry inside the archive.
type FileEntry struct {
	// Path is the entry name, relative to the source directory, slash separated.
	Path string `json:"path" yaml:"path"`

	// Size is the uncompressed size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SHA256 is the checksum of the entry content.
	SHA256 string `json:"sha256" yaml:"sha256"`
}
