package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tgcloud/internal/client/client"
	"github.com/dmitrijs2005/tgcloud/internal/common"
)

// Storage backends.
const (
	BackendTelegram = "telegram"
	BackendS3       = "s3"
)

// Config holds runtime settings for the tgcloud client.
//
// Fields:
//   - Backend: where uploads go, BackendTelegram or BackendS3.
//   - APIID, APIHash: Telegram application credentials.
//   - SessionFile: persisted Telegram session; created after the first login.
//   - StorePath: JSON snapshot of the upload history.
//   - Phone: default phone number for the auth command.
//   - LogLevel: debug, info, warn or error.
//   - S3: bucket settings for BackendS3.
type Config struct {
	Backend     string
	APIID       int
	APIHash     string
	SessionFile string
	StorePath   string
	Phone       string
	LogLevel    string
	S3          client.S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendTelegram
	c.SessionFile = "telegram_cloud.session"
	c.StorePath = "telegram_cloud.json"
	c.LogLevel = "info"
	c.S3.Prefix = "tgcloud"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if -c/-config is given), the environment (with .env as a fallback)
// and command-line flags. Later sources take precedence over earlier ones.
// args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfig, err)
	}

	lookup, err := envLookup(dotEnvFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfig, err)
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfig, err)
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing or malformed settings for the chosen backend.
// Errors wrap common.ErrConfig.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendTelegram:
		if c.APIID <= 0 {
			errs = append(errs, errors.New("API_ID must be a positive number"))
		}
		if c.APIHash == "" {
			errs = append(errs, errors.New("API_HASH is required"))
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required"))
		}
		if strings.Trim(c.S3.Prefix, "/") == "" {
			errs = append(errs, errors.New("S3_PREFIX must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	if c.StorePath == "" {
		errs = append(errs, errors.New("store path is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrConfig, errors.Join(errs...))
	}
	return nil
}

// Credentials returns the inputs for Dialer.Connect.
func (c *Config) Credentials() client.Credentials {
	return client.Credentials{
		AppID:       c.APIID,
		AppHash:     c.APIHash,
		SessionPath: c.SessionFile,
	}
}
