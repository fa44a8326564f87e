// Package config loads the apriltag-mcp configuration file.
//
// The file selects the default tag family, tunes the detector and names
// extra codebook files to register alongside the compiled-in families.
//
// Config file locations (priority order):
//  1. $APRILTAG_MCP_CONFIG
//  2. ./apriltag-mcp.yaml
//  3. $XDG_CONFIG_HOME/apriltag-mcp/config.yaml
//  4. ~/.config/apriltag-mcp/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/apriltag-mcp/internal/detection"
	"github.com/ironsheep/apriltag-mcp/internal/tagfamily"
)

// DefaultFamily is used when the file does not name one. It is the largest
// builtin whose compiled-in codebook is complete.
const DefaultFamily = "tag25h9"

// ErrDuplicateFamily is returned when a codebook file reuses a family name.
var ErrDuplicateFamily = errors.New("duplicate tag family")

// Config is the on-disk configuration.
//
//	version: 1
//	family: tag36h11
//	family_files:
//	  - ./families/tag36h11_full.yaml  # replaces the partial builtin table
//	detection:
//	  max_hamming_distance: 1
//	  workers: 4
//	server:
//	  overlay_line_width: 3
type Config struct {
	Version int    `yaml:"version"`
	Family  string `yaml:"family"`

	// FamilyFiles are YAML codebooks (see tagfamily.Parse). Relative paths
	// are resolved against the directory of the config file.
	FamilyFiles []string `yaml:"family_files"`

	Detection detection.Config `yaml:"detection"`
	Server    ServerConfig     `yaml:"server"`
}

// ServerConfig holds MCP server options.
type ServerConfig struct {
	// OverlayLineWidth is the outline width used by apriltag_overlay.
	OverlayLineWidth int `yaml:"overlay_line_width"`

	// RectifySize is the default edge length of apriltag_crop_tag images.
	RectifySize int `yaml:"rectify_size"`
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Options missing from the
// file keep their defaults.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	dir := filepath.Dir(path)
	for i, f := range cfg.FamilyFiles {
		if !filepath.IsAbs(f) {
			cfg.FamilyFiles[i] = filepath.Join(dir, f)
		}
	}

	if err := cfg.Detection.Validate(); err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		Family:    DefaultFamily,
		Detection: detection.DefaultConfig(),
		Server: ServerConfig{
			OverlayLineWidth: 2,
			RectifySize:      200,
		},
	}
}

// applyDefaults fills in values the file set to zero.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Family == "" {
		c.Family = DefaultFamily
	}
	if c.Server.OverlayLineWidth <= 0 {
		c.Server.OverlayLineWidth = 2
	}
	if c.Server.RectifySize <= 0 {
		c.Server.RectifySize = 200
	}
}

// Families returns the compiled-in families plus those loaded from
// FamilyFiles, keyed by name. A file may replace a compiled-in family (to
// supply a complete codebook) but two files may not define the same name.
func (c *Config) Families() (map[string]*tagfamily.Family, error) {
	fams := make(map[string]*tagfamily.Family)
	for _, f := range tagfamily.Builtins() {
		fams[f.Name()] = f
	}

	loaded := make(map[string]string)
	for _, path := range c.FamilyFiles {
		f, err := tagfamily.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := loaded[f.Name()]; ok {
			return nil, fmt.Errorf("%w: %s defined in %s and %s", ErrDuplicateFamily, f.Name(), prev, path)
		}
		loaded[f.Name()] = path
		fams[f.Name()] = f
	}

	if _, err := FamilyByName(fams, c.Family); err != nil {
		return nil, fmt.Errorf("default family: %w", err)
	}
	return fams, nil
}

// FamilyByName finds a family in fams. Case and surrounding space are
// ignored and the "tag" prefix is optional, so "16h5", "TAG16H5" and
// "tag16h5" all select tag16h5. An exact name wins over a prefixed one.
func FamilyByName(fams map[string]*tagfamily.Family, name string) (*tagfamily.Family, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	names := FamilyNames(fams)
	for _, want := range []string{key, "tag" + key} {
		for _, n := range names {
			if strings.ToLower(n) == want {
				return fams[n], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", tagfamily.ErrUnknownFamily, name, strings.Join(names, ", "))
}

// FamilyNames returns the sorted keys of a family map.
func FamilyNames(fams map[string]*tagfamily.Family) []string {
	names := make([]string, 0, len(fams))
	for n := range fams {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
