// Package projectconfig provides the ProjectConfig struct and loader for
// .loadcsv.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spboyer/loadcsv/internal/dataset"
	"github.com/spboyer/loadcsv/internal/models"
	"github.com/spboyer/loadcsv/internal/utils"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file looked up from the working directory.
const FileName = ".loadcsv.yaml"

// Default values for project configuration. These are the single source of
// truth: New() references them and no other code should duplicate them.
const (
	DefaultSourceDir = "../load_testing_api/scenarios/results/2025-05-16"
	DefaultOutputDir = "./processed_data/load_testing_results"

	DefaultMode       = string(dataset.ModeTruncate)
	DefaultSummaryKey = models.DefaultSummaryKey
)

// PathsConfig holds the source and output roots.
type PathsConfig struct {
	Source string `yaml:"source,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// OutputConfig holds CSV output settings.
type OutputConfig struct {
	Mode string `yaml:"mode,omitempty"`
}

// ExtractConfig holds report extraction settings.
type ExtractConfig struct {
	SummaryKey string `yaml:"summary_key,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .loadcsv.yaml.
type ProjectConfig struct {
	Paths   PathsConfig   `yaml:"paths,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Extract ExtractConfig `yaml:"extract,omitempty"`

	// File is the config file that was loaded, empty when defaults are used.
	File string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Source: DefaultSourceDir,
			Output: DefaultOutputDir,
		},
		Output: OutputConfig{
			Mode: DefaultMode,
		},
		Extract: ExtractConfig{
			SummaryKey: DefaultSummaryKey,
		},
	}
}

// Load finds .loadcsv.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults. Relative paths
// in the file are resolved against the file's directory.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	if fileCfg.Paths.Source != "" {
		fileCfg.Paths.Source = utils.ResolvePath(fileCfg.Paths.Source, baseDir)
	}
	if fileCfg.Paths.Output != "" {
		fileCfg.Paths.Output = utils.ResolvePath(fileCfg.Paths.Output, baseDir)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.File = path
	return cfg, nil
}

// findConfigFile walks up from dir looking for .loadcsv.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Paths.Source != "" {
		dst.Paths.Source = src.Paths.Source
	}
	if src.Paths.Output != "" {
		dst.Paths.Output = src.Paths.Output
	}
	if src.Output.Mode != "" {
		dst.Output.Mode = src.Output.Mode
	}
	if src.Extract.SummaryKey != "" {
		dst.Extract.SummaryKey = src.Extract.SummaryKey
	}
}
