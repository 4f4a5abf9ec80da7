package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestDefault verifies that the embedded configuration is valid and seeds the demo products.
func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddress)
	require.Len(t, cfg.Seed, 3)
	assert.Equal(t, SeedProduct{Name: "Apple Watch", Manufacturer: "Apple Inc.", Type: "electronics"}, cfg.Seed[0])
}

// TestLoad verifies that a file overrides the defaults it mentions and keeps the rest.
func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
metrics_address: "localhost:9090"
seed:
  - name: Patike
    manufacturer: Buzz
    type: shoes
    transitions:
      - stage: distributor
        entity: Sport Logistics
        successful: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:9090", cfg.MetricsAddress)
	assert.Equal(t, Default().GenesisMessage, cfg.GenesisMessage)
	require.Len(t, cfg.Seed, 1)
	assert.Equal(t, []SeedTransition{{Stage: "distributor", Entity: "Sport Logistics", Successful: true}}, cfg.Seed[0].Transitions)
}

// TestLoadInvalid verifies that every violation is reported.
func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, `
log_level: verbose
seed:
  - name: ""
    manufacturer: Buzz
`)

	_, err := Load(path)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
}

// TestLoadMissing verifies that a missing file is reported.
func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestLoadMalformed verifies that a file that is not YAML is rejected.
func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "log_level: [unterminated")

	_, err := Load(path)
	assert.Error(t, err)
}
