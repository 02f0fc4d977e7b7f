// Package config reads mutmapper.yaml into domain.Config.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/varontron/mutation-mapper/internal/domain"
)

// FileName is the workspace marker and configuration file.
const FileName = "mutmapper.yaml"

// LoadConfig loads mutmapper.yaml from the workspace root and applies it on
// top of domain.DefaultConfig. On error the defaults are returned with it.
func LoadConfig(root string) (domain.Config, error) {
	path := filepath.Join(root, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return Parse(path, b)
}

// Parse decodes and validates a mutmapper.yaml document.
func Parse(path string, b []byte) (domain.Config, error) {
	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return MapConfig(path, dto)
}
