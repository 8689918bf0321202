package tariff

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/default.yaml
var defaultTable []byte

// Default returns the tariff table shipped with the binary.
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// LoadFile reads a YAML tariff table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tariff table: %w", err)
	}
	return Parse(data)
}

// Parse decodes and builds a YAML tariff table.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding tariff table: %w", err)
	}
	if err := t.Build(); err != nil {
		return nil, fmt.Errorf("invalid tariff table: %w", err)
	}
	return &t, nil
}
