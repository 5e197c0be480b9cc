package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jxo-me/dduckdns/cmd/dduckdns/cliutil"
	"github.com/jxo-me/dduckdns/config"
	"github.com/jxo-me/dduckdns/consts"
	corelogger "github.com/jxo-me/dduckdns/core/logger"
	"github.com/jxo-me/dduckdns/pkg/logger"
	xlogger "github.com/jxo-me/dduckdns/sdk/logger"
	"github.com/urfave/cli/v2"
)

const (
	errorExitCode = 1

	outputFlag  = "output"
	versionText = "Print the version"
)

var (
	Version   = "DEV"
	BuildTime = "unknown"
)

func init() {
	corelogger.SetDefault(xlogger.NewLogger())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(errorExitCode)
	}
}

func newApp() *cli.App {
	// -v is --verbose, so the version flag moves to -V
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   versionText,
	}

	app := &cli.App{}
	app.Name = consts.AppName
	app.Usage = "Duck DNS dynamic DNS update client"
	app.UsageText = "dduckdns [global options] [command]"
	app.Version = fmt.Sprintf("%s (built %s, %s %s/%s)", Version, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Description = `dduckdns resolves a Duck DNS token with an external command and pushes
	one update per configured domain, then exits. Schedule it with cron or a
	systemd timer.

	The exit status is 1 when the config or the token cannot be loaded, or
	when any domain fails to update.`
	app.Flags = flags()
	app.Action = cliutil.ConfiguredAction(update)
	app.Commands = commands(cli.ShowVersion)
	return app
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    cliutil.ConfigFlag,
			Aliases: []string{"c"},
			Usage:   "path of the TOML config file",
			EnvVars: []string{consts.ConfigFilePathENV},
			Value:   config.GetConfigFilePathDefault(),
		},
		&cli.BoolFlag{
			Name:    logger.VerboseFlag,
			Aliases: []string{"v"},
			Usage:   "log at debug level",
		},
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"O"},
			Usage:   "print the effective config as `FORMAT` (yaml, json, toml) and exit",
		},
	}
}

func commands(version func(c *cli.Context)) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "update",
			Action: cliutil.ConfiguredAction(update),
			Usage:  "Push one update per configured domain",
			Description: `Runs the token command, looks up the IPv6 address once if any domain
uses ipv6 = "auto", and sends one update request per domain.`,
		},
		{
			Name: "version",
			Action: cliutil.Action(func(c *cli.Context) (err error) {
				version(c)
				return nil
			}),
			Usage:       versionText,
			Description: versionText,
		},
	}
}

func update(c *cli.Context, cfg *config.Config) error {
	if format := c.String(outputFlag); format != "" {
		return cfg.Write(c.App.Writer, format)
	}

	log := logFromConfig(cfg.Log, c.Bool(logger.VerboseFlag))
	corelogger.SetDefault(log)

	report, err := buildService(cfg, log).RunOnce(c.Context)
	if err != nil {
		return cli.Exit(err, errorExitCode)
	}
	if err := report.Err(); err != nil {
		return cli.Exit(err, errorExitCode)
	}
	return nil
}
