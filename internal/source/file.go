package source

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadFile reads a source list from a YAML file with a top-level `sources`
// key. Site markup drifts independently of releases, so operators can swap
// selector chains without a rebuild; the builtin Catalog is only the default.
func LoadFile(path string) ([]Source, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	var wrapper struct {
		Sources []Source `mapstructure:"sources"`
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal sources file: %w", err)
	}
	if err := Validate(wrapper.Sources); err != nil {
		return nil, err
	}
	return wrapper.Sources, nil
}

// Resolve returns the sources from path when set, otherwise the builtin
// catalog.
func Resolve(path string) ([]Source, error) {
	if path == "" {
		return Catalog(), nil
	}
	return LoadFile(path)
}
