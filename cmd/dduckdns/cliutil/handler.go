package cliutil

import (
	"github.com/jxo-me/dduckdns/config"
	"github.com/jxo-me/dduckdns/pkg/logger"
	"github.com/urfave/cli/v2"
)

const (
	errorExitCode = 1

	ConfigFlag = "config"
)

// ConfiguredActionFunc is an action that needs the parsed config file.
type ConfiguredActionFunc func(c *cli.Context, cfg *config.Config) error

func Action(actionFunc cli.ActionFunc) cli.ActionFunc {
	return WithErrorHandler(actionFunc)
}

// ConfiguredAction reads the config file named by --config before calling
// actionFunc. A missing or invalid file fails the command.
func ConfiguredAction(actionFunc ConfiguredActionFunc) cli.ActionFunc {
	return WithErrorHandler(func(c *cli.Context) error {
		cfg, err := readConfigFile(c)
		if err != nil {
			return err
		}
		return actionFunc(c, cfg)
	})
}

func readConfigFile(c *cli.Context) (*config.Config, error) {
	log := logger.CreateLoggerFromContext(c, logger.EnableTerminalLog)
	configPath := c.String(ConfigFlag)
	if configPath == "" {
		configPath = config.GetConfigFilePath()
	}
	cfg, err := config.ReadConfigFile(configPath, log)
	if err != nil {
		log.Err(err).Msg("Cannot load config file")
		return nil, cli.Exit(err, errorExitCode)
	}
	return cfg, nil
}

// WithErrorHandler turns any error into exit status 1.
func WithErrorHandler(actionFunc cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		err := actionFunc(c)
		if err == nil {
			return nil
		}
		if _, ok := err.(cli.ExitCoder); ok {
			return err
		}
		return cli.Exit(err, errorExitCode)
	}
}
