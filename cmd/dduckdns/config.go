package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jxo-me/dduckdns/config"
	"github.com/jxo-me/dduckdns/core/logger"
	"github.com/jxo-me/dduckdns/internal/util"
	"github.com/jxo-me/dduckdns/sdk/cache"
	"github.com/jxo-me/dduckdns/sdk/credential"
	"github.com/jxo-me/dduckdns/sdk/ddns/duckdns"
	"github.com/jxo-me/dduckdns/sdk/hook"
	xlogger "github.com/jxo-me/dduckdns/sdk/logger"
	"github.com/jxo-me/dduckdns/sdk/resolver"
	"github.com/jxo-me/dduckdns/sdk/service"
	"gopkg.in/natefinch/lumberjack.v2"
)

func buildService(cfg *config.Config, log logger.ILogger) *service.DDNSService {
	timeout := time.Duration(cfg.Timeout)
	client := util.CreateHTTPClient(timeout)

	engine := duckdns.NewDuckDNS(cfg.Endpoint, cfg.VerboseResponse, client, log)
	ipv6Cache := cache.NewAddrCache(resolver.NewWebResolver(cfg.IPv6URL, timeout, log), log)
	svc := service.NewDDNS(engine, credential.NewCommand(cfg.TokenCommand, log), ipv6Cache, cfg.DomainList(), log).
		WithConcurrency(cfg.Concurrency)
	if cfg.Webhook != nil {
		svc.WithHook(hook.NewHook(cfg.Webhook, client, log))
	}
	return svc
}

func logFromConfig(cfg *config.LogConfig, verbose bool) logger.ILogger {
	if cfg == nil {
		cfg = &config.LogConfig{}
	}
	level := logger.LogLevel(cfg.Level)
	if verbose {
		level = logger.DebugLevel
	}
	opts := []xlogger.LoggerOption{
		xlogger.FormatLoggerOption(logger.LogFormat(cfg.Format)),
		xlogger.LevelLoggerOption(level),
	}

	var out io.Writer = os.Stderr
	switch cfg.Output {
	case "none", "null":
		return xlogger.Nop()
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	default:
		if cfg.Rotation != nil {
			out = &lumberjack.Logger{
				Filename:   cfg.Output,
				MaxSize:    cfg.Rotation.MaxSize,
				MaxAge:     cfg.Rotation.MaxAge,
				MaxBackups: cfg.Rotation.MaxBackups,
				LocalTime:  cfg.Rotation.LocalTime,
				Compress:   cfg.Rotation.Compress,
			}
		} else {
			_ = os.MkdirAll(filepath.Dir(cfg.Output), 0755)
			f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				logger.Default().Warn(err)
			} else {
				out = f
			}
		}
	}
	opts = append(opts, xlogger.OutputLoggerOption(out))

	return xlogger.NewLogger(opts...)
}
