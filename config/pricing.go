package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"scanquote/services"
)

//go:embed default_pricing.yaml
var defaultPricingYAML []byte

// DefaultPricingConfig returns the built-in pricing configuration.
func DefaultPricingConfig() (services.PricingConfig, error) {
	cfg, err := ParsePricingConfig(bytes.NewReader(defaultPricingYAML))
	if err != nil {
		return services.PricingConfig{}, fmt.Errorf("default pricing: %w", err)
	}
	return cfg, nil
}

// LoadPricingConfig reads and validates a YAML pricing configuration file.
func LoadPricingConfig(path string) (services.PricingConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return services.PricingConfig{}, fmt.Errorf("open pricing config: %w", err)
	}
	defer f.Close()

	cfg, err := ParsePricingConfig(f)
	if err != nil {
		return services.PricingConfig{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// ParsePricingConfig decodes a YAML pricing configuration. Unknown keys are
// rejected so a misspelled rate never silently falls back to zero.
func ParsePricingConfig(r io.Reader) (services.PricingConfig, error) {
	var cfg services.PricingConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return services.PricingConfig{}, fmt.Errorf("decode pricing config: %w", err)
	}
	if err := services.ValidatePricingConfig(cfg); err != nil {
		return services.PricingConfig{}, err
	}
	return cfg, nil
}

// LoadPricingConfigOrDefault loads path when it is set and otherwise returns
// the built-in configuration.
func LoadPricingConfigOrDefault(path string) (services.PricingConfig, error) {
	if path == "" {
		return DefaultPricingConfig()
	}
	return LoadPricingConfig(path)
}
