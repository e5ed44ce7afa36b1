package archiver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mrhapile/distzip/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// DefaultSourceDir is the build output directory archived when no other is given.
	DefaultSourceDir = "dist"
	// DefaultArchivePath is the archive written when no other is given.
	DefaultArchivePath = "dist.zip"
)

// Option configures the archiving process.
type Option func(*config)

type config struct {
	checkSourceFirst bool
	timestamp        time.Time
	fixedTime        bool
	observer         Observer
	logger           zerolog.Logger
}

// WithCheckSourceFirst verifies the source directory before deleting the
// previous archive, so a missing source leaves the old archive in place.
// Without it the old archive is removed first.
func WithCheckSourceFirst() Option {
	return func(c *config) {
		c.checkSourceFirst = true
	}
}

// WithTimestamp sets the manifest timestamp and the modification time of
// every entry, making the archive reproducible across runs.
func WithTimestamp(t time.Time) Option {
	return func(c *config) {
		c.timestamp = t
		c.fixedTime = !t.IsZero()
	}
}

// WithObserver registers an observer for progress events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Archive writes every regular file under sourceDir into a new deflate
// compressed zip at archivePath. Entry names are relative to sourceDir.
//
// A pre-existing archive is always deleted. A missing source directory yields
// an error wrapping ErrSourceNotFound and no archive is created.
func Archive(sourceDir, archivePath string, opts ...Option) (result *types.ArchiveResult, err error) {
	if sourceDir == "" || archivePath == "" {
		return nil, ErrEmptyPath
	}

	cfg := &config{
		timestamp: time.Now(),
		observer:  nopObserver{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger.With().Str("source", sourceDir).Str("archive", archivePath).Logger()

	// 1. Remove the previous archive and check the source, in configured order
	var removed bool
	if cfg.checkSourceFirst {
		if err := cfg.checkSource(sourceDir, archivePath); err != nil {
			return nil, err
		}
		if removed, err = cfg.removePrevious(sourceDir, archivePath); err != nil {
			return nil, err
		}
	} else {
		if removed, err = cfg.removePrevious(sourceDir, archivePath); err != nil {
			return nil, err
		}
		if err := cfg.checkSource(sourceDir, archivePath); err != nil {
			return nil, err
		}
	}

	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}
	walkRoot, err := filepath.EvalSymlinks(absSource)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive path: %w", err)
	}

	// 2. Open the archive; it is finalized on every return path
	var entryTime time.Time
	if cfg.fixedTime {
		entryTime = cfg.timestamp
	}
	zw, err := CreateZipWriter(absArchive, entryTime)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := zw.Close(); cerr != nil && err == nil {
			result = nil
			err = fmt.Errorf("failed to finalize archive: %w", cerr)
		}
	}()

	self, err := zw.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}
	skipSelf := func(info fs.FileInfo) bool {
		return os.SameFile(info, self)
	}

	cfg.observer.Observe(Event{Kind: EventStarted, SourceDir: sourceDir, ArchivePath: archivePath})
	log.Debug().Str("root", walkRoot).Msg("archiving source directory")

	// 3. Walk the source and stream each file into the archive
	manifest := NewManifestBuilder(ManifestVersion, cfg.timestamp, absSource)
	var totalSize int64
	err = walkSource(walkRoot, skipSelf, func(name, path string, info fs.FileInfo) error {
		entry, err := zw.AddFile(name, path, info)
		if err != nil {
			return err
		}
		manifest.AddEntry(entry)
		totalSize += entry.Size
		log.Debug().Str("entry", name).Int64("size", entry.Size).Msg("added entry")
		cfg.observer.Observe(Event{
			Kind:        EventFileAdded,
			SourceDir:   sourceDir,
			ArchivePath: archivePath,
			Entry:       name,
			Size:        entry.Size,
		})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("archiving failed")
		return nil, err
	}

	// 4. Finalize before reporting so the archive on disk is complete
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	m := manifest.Build()
	cfg.observer.Observe(Event{
		Kind:        EventCompleted,
		SourceDir:   sourceDir,
		ArchivePath: absArchive,
		Count:       m.TotalFiles,
	})
	log.Info().Int("files", m.TotalFiles).Int64("bytes", totalSize).Msg("archive written")

	return &types.ArchiveResult{
		ArchivePath:     absArchive,
		SourceDir:       absSource,
		FileCount:       m.TotalFiles,
		SizeBytes:       totalSize,
		RemovedPrevious: removed,
		Manifest:        m,
	}, nil
}

func (c *config) removePrevious(sourceDir, archivePath string) (bool, error) {
	info, err := os.Lstat(archivePath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &RemoveError{Path: archivePath, Err: err}
	}
	if info.IsDir() {
		return false, &RemoveError{Path: archivePath, Err: errors.New("path is a directory")}
	}
	if err := os.Remove(archivePath); err != nil {
		return false, &RemoveError{Path: archivePath, Err: err}
	}
	c.logger.Debug().Str("archive", archivePath).Msg("removed previous archive")
	c.observer.Observe(Event{Kind: EventRemovedPrevious, SourceDir: sourceDir, ArchivePath: archivePath})
	return true, nil
}

// checkSource reports any stat failure (ENOENT, ENOTDIR, EACCES on a parent)
// as the soft missing-source outcome; the OS error stays in the chain.
func (c *config) checkSource(sourceDir, archivePath string) error {
	info, err := os.Stat(sourceDir)
	switch {
	case err != nil:
		c.observer.Observe(Event{Kind: EventMissingSource, SourceDir: sourceDir, ArchivePath: archivePath})
		return fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	case !info.IsDir():
		c.observer.Observe(Event{Kind: EventMissingSource, SourceDir: sourceDir, ArchivePath: archivePath})
		return fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, sourceDir)
	}
	return nil
}
