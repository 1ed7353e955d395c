package override

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a corrections file:
//
//	corrections:
//	  Nipon: Japan
//	  Andra: Russia
type File struct {
	Corrections map[string]string `yaml:"corrections"`
}

// LoadFile reads corrections from a YAML file. Unknown top-level keys are
// rejected so typos do not silently drop corrections.
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes corrections YAML.
func Parse(data []byte) (map[string]string, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}
	if f.Corrections == nil {
		return map[string]string{}, nil
	}
	return f.Corrections, nil
}
