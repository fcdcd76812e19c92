package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
base_url: https://example.atlassian.net
email: dev@example.com
api_token: secret
severity:
  field_id: customfield_10042
  value_type: option
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.atlassian.net", cfg.BaseURL)
	assert.Equal(t, "dev@example.com", cfg.Email)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 30, cfg.TimeoutSec)
	assert.True(t, cfg.Severity.Configured())
	assert.Equal(t, "customfield_10042", cfg.Severity.FieldID)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfigFile(t, `
base_url: https://example.atlassian.net
api_token: from-file
`)
	t.Setenv("JIRALENS_API_TOKEN", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIToken)
}

func TestLoadConfigRejectsMissingBaseURL(t *testing.T) {
	path := writeConfigFile(t, `api_token: secret`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestValidateSeverityValueType(t *testing.T) {
	cfg := &Config{
		BaseURL:  "https://example.atlassian.net",
		APIToken: "secret",
		Severity: SeverityConfig{ValueType: "enum"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value_type")
}

func TestValidateDefaultsTimeout(t *testing.T) {
	cfg := &Config{
		BaseURL:  "https://example.atlassian.net",
		APIToken: "secret",
		Severity: SeverityConfig{ValueType: SeverityValueOption},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30, cfg.TimeoutSec)
}
