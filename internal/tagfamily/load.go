package tagfamily

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Code is a codebook entry as written in YAML. Hex (0x...), octal (0o...),
// binary (0b...) and decimal spellings are accepted.
type Code uint64

// UnmarshalYAML parses a scalar node into a code.
func (c *Code) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: code must be a scalar", node.Line)
	}
	v, err := strconv.ParseUint(node.Value, 0, 64)
	if err != nil {
		return fmt.Errorf("line %d: parse code %q: %w", node.Line, node.Value, err)
	}
	*c = Code(v)
	return nil
}

// MarshalYAML writes codes in hex.
func (c Code) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%#x", uint64(c)), nil
}

// Definition is the on-disk form of a family.
//
//	name: tag36h11
//	dimension: 6
//	black_border: 1
//	min_hamming: 11
//	codes: [0xd5d628584, 0xd97f18b49, ...]
type Definition struct {
	Name        string `yaml:"name"`
	Dimension   int    `yaml:"dimension"`
	BlackBorder int    `yaml:"black_border"`
	MinHamming  int    `yaml:"min_hamming"`
	Codes       []Code `yaml:"codes"`
}

// Parse decodes a YAML family definition. A missing black_border defaults to 1.
func Parse(data []byte) (*Family, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse family: %w", err)
	}
	if def.BlackBorder == 0 {
		def.BlackBorder = 1
	}
	codes := make([]uint64, len(def.Codes))
	for i, c := range def.Codes {
		codes[i] = uint64(c)
	}
	return New(def.Name, def.Dimension, def.BlackBorder, def.MinHamming, codes)
}

// LoadFile reads a YAML family definition from disk.
func LoadFile(path string) (*Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read family: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Definition returns the serializable form of the family.
func (f *Family) Definition() Definition {
	codes := make([]Code, len(f.codes))
	for i, c := range f.codes {
		codes[i] = Code(c)
	}
	return Definition{
		Name:        f.name,
		Dimension:   f.dimension,
		BlackBorder: f.blackBorder,
		MinHamming:  f.minHamming,
		Codes:       codes,
	}
}
