// Package config loads an optional YAML overlay over the documented
// Options defaults, so a host process can ship a screencap.yaml
// instead of constructing screencap.Options by hand. Nothing in this
// package is required: a caller that never touches it still gets the
// same defaults Open applies on its own.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a screencap.yaml overlay. Every field
// is optional; a field absent from the file leaves the corresponding
// Options field untouched.
type File struct {
	CompressionLevel *int    `yaml:"compression_level"`
	Display          *string `yaml:"display"`
	MaxDisplays      *int    `yaml:"max_displays"`
	WithCursor       *bool   `yaml:"with_cursor"`
	Backend          *string `yaml:"backend"`
}

// Load reads and parses the YAML overlay at path. A missing file is
// not an error (it simply means no overlay is applied), but a
// present, malformed file is.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
