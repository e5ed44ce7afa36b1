package archiver

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/mrhapile/distzip/pkg/types"
)

// ManifestVersion is the schema version stamped on every manifest.
const ManifestVersion = "v1"

type ManifestBuilder struct {
	manifest types.ArchiveManifest
}

func NewManifestBuilder(version string, ts time.Time, sourceDir string) *ManifestBuilder {
	return &ManifestBuilder{
		manifest: types.ArchiveManifest{
			Version:     version,
			GeneratedAt: ts,
			SourceDir:   sourceDir,
			Files:       []types.FileEntry{},
		},
	}
}

// AddEntry records an entry whose content hash was computed while it was written.
func (mb *ManifestBuilder) AddEntry(entry types.FileEntry) {
	mb.manifest.Files = append(mb.manifest.Files, entry)
	mb.manifest.TotalFiles++
}

func (mb *ManifestBuilder) Build() types.ArchiveManifest {
	hasher := sha256.New()
	for _, f := range mb.manifest.Files {
		hasher.Write([]byte(f.SHA256))
	}
	mb.manifest.ContentHash = hex.EncodeToString(hasher.Sum(nil))
	return mb.manifest
}
