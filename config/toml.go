package config

import (
	"github.com/pelletier/go-toml/v2"
)

// TOML is a koanf parser for TOML documents backed by go-toml
type TOML struct{}

// TOMLParser returns a TOML parser for koanf.Load
func TOMLParser() *TOML {
	return &TOML{}
}

// Unmarshal parses a TOML document into a nested map
func (p *TOML) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal renders a nested map as TOML
func (p *TOML) Marshal(o map[string]any) ([]byte, error) {
	return toml.Marshal(o)
}
