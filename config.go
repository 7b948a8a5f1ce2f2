package fdb

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the two values Open/OpenWithPageSize take. The core itself
// is only ever configured through Open/OpenWithPageSize — Config exists for
// embedders that want to load these two values from a file, mirroring the
// teacher's engine.Config. cmd/fdb-demo does not use it: it takes the path
// as a command argument and opens with DefaultPageSize.
type Config struct {
	Path     string `yaml:"path"`
	PageSize uint16 `yaml:"page_size"`
}

// LoadConfig reads and parses a YAML config file, defaulting PageSize to
// DefaultPageSize when the file omits it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	return cfg, nil
}
