package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jxo-me/dduckdns/consts"
	"github.com/pkg/errors"
)

var (
	ErrNoConfigFile  = errors.New("config file not found")
	ErrInvalidConfig = errors.New("invalid config")
)

type Config struct {
	// TokenCommand prints the Duck DNS token on stdout, e.g. ["pass", "show", "duckdns"].
	TokenCommand    []string                  `mapstructure:"token_command" yaml:"token_command" json:"token_command" toml:"token_command"`
	Endpoint        string                    `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint" toml:"endpoint"`
	IPv6URL         string                    `mapstructure:"ipv6_url" yaml:"ipv6_url" json:"ipv6_url" toml:"ipv6_url"`
	Timeout         Duration                  `mapstructure:"timeout" yaml:"timeout" json:"timeout" toml:"timeout"`
	Concurrency     int                       `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency" toml:"concurrency"`
	VerboseResponse bool                      `mapstructure:"verbose_response" yaml:"verbose_response" json:"verbose_response" toml:"verbose_response"`
	Domains         map[string]DomainSettings `mapstructure:"domains" yaml:"domains" json:"domains" toml:"domains"`
	Log             *LogConfig                `mapstructure:"log" yaml:"log,omitempty" json:"log,omitempty" toml:"log,omitempty"`
	Webhook         *Webhook                  `mapstructure:"webhook" yaml:"webhook,omitempty" json:"webhook,omitempty" toml:"webhook,omitempty"`
}

// Duration is a time.Duration written as "10s" in config files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Validate checks everything a run depends on, so that a bad config fails
// before the credential command runs.
func (c *Config) Validate() error {
	if len(c.TokenCommand) == 0 || strings.TrimSpace(c.TokenCommand[0]) == "" {
		return errors.Wrap(ErrInvalidConfig, "token_command must name an executable")
	}
	if err := validateURL("endpoint", c.Endpoint); err != nil {
		return err
	}
	if err := validateURL("ipv6_url", c.IPv6URL); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "timeout must be positive, got %s", time.Duration(c.Timeout))
	}
	if c.Concurrency < 1 {
		return errors.Wrapf(ErrInvalidConfig, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	for name, settings := range c.Domains {
		if err := validateDomain(name, settings); err != nil {
			return err
		}
	}
	if c.Log != nil {
		if err := c.Log.Validate(); err != nil {
			return err
		}
	}
	if c.Webhook != nil && c.Webhook.WebhookURL == "" {
		return errors.Wrap(ErrInvalidConfig, "webhook.url must be set when [webhook] is present")
	}
	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%s: %s", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(ErrInvalidConfig, "%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// GetConfigFilePath 获得配置文件路径
func GetConfigFilePath() string {
	if p := os.Getenv(consts.ConfigFilePathENV); p != "" {
		return p
	}
	return GetConfigFilePathDefault()
}

// GetConfigFilePathDefault 获得默认的配置文件路径
func GetConfigFilePathDefault() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return consts.ConfigFileName
	}
	return filepath.Join(dir, consts.AppName, consts.ConfigFileName)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{domains: %d, endpoint: %s, timeout: %s, concurrency: %d}",
		len(c.Domains), c.Endpoint, time.Duration(c.Timeout), c.Concurrency)
}
