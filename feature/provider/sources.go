package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the parsed sources file: the scrape sources and the fixed
// per-region UTC offset table.
type File struct {
	// Timezones maps a region code (state) to its fixed UTC offset in hours.
	Timezones map[string]int `yaml:"timezones"`
	// Sources are the configured external sources.
	Sources []Source `yaml:"sources"`
}

// LoadSources reads and validates the sources YAML file.
func LoadSources(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i, src := range f.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("source %d: missing name", i)
		}
		if src.Type == "" {
			return nil, fmt.Errorf("source %s: missing type", src.Name)
		}
		if src.URL == "" {
			return nil, fmt.Errorf("source %s: missing url", src.Name)
		}
	}

	return &f, nil
}
