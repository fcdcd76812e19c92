package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/nhle/jira-lens/internal/credential"
)

// Severity value types accepted by SeverityConfig.ValueType.
const (
	SeverityValueOption = "option"
	SeverityValueString = "string"
	SeverityValueNumber = "number"
)

// SeverityConfig describes the custom field used for issue severity.
// Severity is not a built-in Jira field, so the adapter has to be told
// which custom field carries it and how values are shaped on the wire.
type SeverityConfig struct {
	// FieldID is the custom field identifier (e.g., "customfield_10042").
	FieldID string `mapstructure:"field_id" yaml:"field_id"`

	// JQLField is the identifier used in JQL clauses. When empty, the
	// FieldID is rewritten to the cf[<n>] form automatically.
	JQLField string `mapstructure:"jql_field" yaml:"jql_field"`

	// ValueType selects the wire shape of severity values:
	// "option" ({"value": ...}), "string", or "number".
	ValueType string `mapstructure:"value_type" yaml:"value_type"`
}

// Configured reports whether a severity field has been set up.
func (s SeverityConfig) Configured() bool {
	return s.FieldID != ""
}

// Config is the immutable adapter configuration. It is constructed once
// at startup and only read afterwards.
type Config struct {
	// BaseURL is the root URL of the Jira instance
	// (e.g., https://example.atlassian.net).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Email is the account email for basic authentication. When set
	// together with APIToken, requests use basic auth; otherwise the
	// token is sent as a Bearer credential.
	Email string `mapstructure:"email" yaml:"email"`

	// APIToken is the Jira API token or Personal Access Token. When
	// absent from the file and environment it is read from the system
	// keyring entry "jira-api-token".
	APIToken string `mapstructure:"api_token" yaml:"api_token"`

	// TimeoutSec bounds every outbound request. Defaults to 30.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// Severity configures the severity custom field, if any.
	Severity SeverityConfig `mapstructure:"severity" yaml:"severity"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/jira-lens/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jira-lens", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		TimeoutSec: 30,
		Severity:   SeverityConfig{ValueType: SeverityValueOption},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. Environment variables prefixed with JIRALENS_ override file
// values (e.g., JIRALENS_BASE_URL, JIRALENS_API_TOKEN). A missing file
// is not an error; defaults plus environment are used.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("JIRALENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("timeout_sec", 30)
	v.SetDefault("severity.value_type", SeverityValueOption)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Viper's AutomaticEnv does not populate Unmarshal for unset file
	// keys; read the common overrides explicitly.
	if s := v.GetString("base_url"); s != "" {
		cfg.BaseURL = s
	}
	if s := v.GetString("email"); s != "" {
		cfg.Email = s
	}
	if s := v.GetString("api_token"); s != "" {
		cfg.APIToken = s
	}

	if cfg.APIToken == "" {
		if token, err := credential.Get(credential.APITokenKey); err == nil {
			cfg.APIToken = token
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural requirements of the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("config: base_url is required")
	}
	if strings.TrimSpace(c.APIToken) == "" {
		return fmt.Errorf("config: api_token is required (file, JIRALENS_API_TOKEN, or keyring)")
	}
	switch c.Severity.ValueType {
	case SeverityValueOption, SeverityValueString, SeverityValueNumber:
	default:
		return fmt.Errorf(
			"config: severity.value_type must be %q, %q, or %q; got %q",
			SeverityValueOption, SeverityValueString, SeverityValueNumber,
			c.Severity.ValueType,
		)
	}
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = 30
	}
	return nil
}
