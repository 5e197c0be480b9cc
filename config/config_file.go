package config

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jxo-me/dduckdns/consts"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ReadConfigFunc loads and validates a config file.
type ReadConfigFunc func(configPath string, log *zerolog.Logger) (*Config, error)

var _ ReadConfigFunc = ReadConfigFile

func newViper() *viper.Viper {
	// domain labels are map keys; keep "." out of the key path
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigType("toml")
	v.SetEnvPrefix(consts.EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("endpoint", consts.DuckDNSEndpoint)
	v.SetDefault("ipv6_url", consts.IPv6EchoURL)
	v.SetDefault("timeout", consts.DefaultHTTPTimeout.String())
	v.SetDefault("concurrency", consts.DefaultConcurrency)
	v.SetDefault("verbose_response", false)
	return v
}

// ReadConfigFile reads the TOML file at configPath. Unknown keys are an
// error, as is any value Validate rejects.
func ReadConfigFile(configPath string, log *zerolog.Logger) (*Config, error) {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	f, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoConfigFile, "%s", configPath)
		}
		return nil, errors.Wrap(err, "opening config file")
	}
	defer f.Close()

	log.Debug().Msgf("reading config file %s", configPath)
	cfg, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	log.Debug().Msgf("loaded %s", cfg)
	return cfg, nil
}

// Read parses a TOML document from r and validates it.
func Read(r io.Reader) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, errors.Wrap(err, "parsing TOML")
	}

	cfg := &Config{}
	err := v.UnmarshalExact(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	// viper flattens keys and loses empty tables, but a bare
	// [domains.<label>] is a domain with both addresses unset
	if raw, ok := v.Get("domains").(map[string]any); ok {
		if cfg.Domains == nil {
			cfg.Domains = make(map[string]DomainSettings, len(raw))
		}
		for name := range raw {
			if _, ok := cfg.Domains[name]; !ok {
				cfg.Domains[name] = DomainSettings{}
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write dumps the effective config in the given format: yaml, json or toml.
func (c *Config) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(c)
	case "toml":
		return toml.NewEncoder(w).Encode(c)
	default:
		return errors.Errorf("unsupported output format %q", format)
	}
}
