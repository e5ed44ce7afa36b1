package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"github.com/mrhapile/distzip/pkg/archiver"
)

// DefaultFile is the optional config file looked up in the working directory.
const DefaultFile = ".distzip.yaml"

// Config holds the settings for one archiving run.
type Config struct {
	Source           string `yaml:"source"`
	Output           string `yaml:"output"`
	CheckSourceFirst bool   `yaml:"check_source_first"`
	Strict           bool   `yaml:"strict"`
	Manifest         string `yaml:"manifest,omitempty"`
	Quiet            bool   `yaml:"quiet"`
	Verbose          bool   `yaml:"verbose"`
}

// Default returns the settings of a zero-argument run: dist -> dist.zip.
func Default() Config {
	return Config{
		Source: archiver.DefaultSourceDir,
		Output: archiver.DefaultArchivePath,
	}
}

// Load reads the YAML file at path on top of Default. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that both paths are set and that the manifest is not
// written into the directory being archived.
func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("source directory must not be empty")
	}
	if c.Output == "" {
		return errors.New("output archive must not be empty")
	}
	if c.Manifest != "" && within(c.Source, c.Manifest) {
		return fmt.Errorf("manifest %s must not be inside source directory %s", c.Manifest, c.Source)
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Options translates the config into archiver options.
func (c Config) Options() []archiver.Option {
	var opts []archiver.Option
	if c.CheckSourceFirst {
		opts = append(opts, archiver.WithCheckSourceFirst())
	}
	return opts
}
