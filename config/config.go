package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// Config is the application configuration.
type Config struct {
	LogLevel       string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	MetricsAddress string        `yaml:"metrics_address" validate:"omitempty,hostname_port"`
	GenesisMessage string        `yaml:"genesis_message" validate:"required"`
	Seed           []SeedProduct `yaml:"seed" validate:"dive"`
}

// SeedProduct is a product registered at startup, optionally followed by
// custody transitions.
type SeedProduct struct {
	Name         string           `yaml:"name" validate:"required"`
	Manufacturer string           `yaml:"manufacturer" validate:"required"`
	Type         string           `yaml:"type"`
	Transitions  []SeedTransition `yaml:"transitions" validate:"dive"`
}

// SeedTransition moves a seeded product to its next stage.
type SeedTransition struct {
	Stage      string `yaml:"stage" validate:"required"`
	Entity     string `yaml:"entity" validate:"required"`
	Successful bool   `yaml:"successful"`
}

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	// The embedded file is part of the binary, so a decoding failure is a bug.
	err := yaml.Unmarshal(defaultConfig, &cfg)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded configuration: %v", err))
	}
	return cfg
}

// Load reads the YAML file at path on top of the default configuration and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not open configuration: %w", err)
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("could not decode configuration %s: %w", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field and reports all violations at once.
func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("could not validate configuration: %w", err)
	}

	var merr *multierror.Error
	for _, fe := range verrs {
		merr = multierror.Append(merr, fmt.Errorf("invalid configuration: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return merr.ErrorOrNil()
}
