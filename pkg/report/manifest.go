package report

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/mrhapile/distzip/pkg/types"
)

// WriteManifest writes m as YAML to path, replacing any existing file.
func WriteManifest(path string, m types.ArchiveManifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
