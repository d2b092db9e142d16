package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Options is the project configuration loaded from vela.yaml. Zero
// values mean "use the compiled-in default".
type Options struct {
	Entry                   string   `yaml:"entry"`
	SearchPaths             []string `yaml:"search_paths"`
	MaxSpecializationRounds int      `yaml:"max_specialization_rounds"`
	Color                   string   `yaml:"color"` // auto, always, never
}

func DefaultOptions() *Options {
	return &Options{
		MaxSpecializationRounds: MaxSpecializationRounds,
		Color:                   "auto",
	}
}

// LoadOptions reads a project file. A missing file is not an error;
// the defaults are returned.
func LoadOptions(path string) (*Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opts, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, err
	}
	if opts.MaxSpecializationRounds <= 0 {
		opts.MaxSpecializationRounds = MaxSpecializationRounds
	}
	if opts.Color == "" {
		opts.Color = "auto"
	}
	return opts, nil
}

// FindProjectFile walks from dir upward looking for vela.yaml.
func FindProjectFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
