package config

import (
	"github.com/jxo-me/dduckdns/core/logger"
	"github.com/pkg/errors"
)

type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size" yaml:"max_size" json:"max_size" toml:"max_size"`
	MaxAge     int  `mapstructure:"max_age" yaml:"max_age" json:"max_age" toml:"max_age"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups" json:"max_backups" toml:"max_backups"`
	LocalTime  bool `mapstructure:"local_time" yaml:"local_time" json:"local_time" toml:"local_time"`
	Compress   bool `mapstructure:"compress" yaml:"compress" json:"compress" toml:"compress"`
}

type LogConfig struct {
	// stderr (default), stdout, none, or a file path
	Output   string             `mapstructure:"output" yaml:",omitempty" json:"output,omitempty" toml:"output,omitempty"`
	Level    string             `mapstructure:"level" yaml:",omitempty" json:"level,omitempty" toml:"level,omitempty"`
	Format   string             `mapstructure:"format" yaml:",omitempty" json:"format,omitempty" toml:"format,omitempty"`
	Rotation *LogRotationConfig `mapstructure:"rotation" yaml:",omitempty" json:"rotation,omitempty" toml:"rotation,omitempty"`
}

func (c *LogConfig) Validate() error {
	switch logger.LogLevel(c.Level) {
	case "", logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel, logger.FatalLevel:
	default:
		return errors.Wrapf(ErrInvalidConfig, "log.level %q is not one of debug, info, warn, error, fatal", c.Level)
	}
	switch logger.LogFormat(c.Format) {
	case "", logger.TextFormat, logger.JSONFormat:
	default:
		return errors.Wrapf(ErrInvalidConfig, "log.format %q is not one of text, json", c.Format)
	}
	return nil
}
