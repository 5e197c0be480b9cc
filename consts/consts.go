package consts

import "time"

// UpdateStatusType 更新状态
type UpdateStatusType string

const (
	// UpdatedNothing 未改变
	UpdatedNothing UpdateStatusType = "UnChanged"
	// UpdatedFailed 更新失败
	UpdatedFailed UpdateStatusType = "Failure"
	// UpdatedSuccess 更新成功
	UpdatedSuccess UpdateStatusType = "Success"
)

const (
	DuckDNSEndpoint = "https://www.duckdns.org/update"
	IPv6EchoURL     = "https://ipv6.icanhazip.com"
	AppName         = "dduckdns"
)

// Provider response sentinels.
const (
	ResponseOK       = "OK"
	ResponseKO       = "KO"
	ResponseUpdated  = "UPDATED"
	ResponseNoChange = "NOCHANGE"
)

const (
	AutoAddress        = "auto"
	DefaultHTTPTimeout = 10 * time.Second
	DefaultConcurrency = 1
	MaxResponseSize    = 64 << 10
	RedactedValue      = "redacted"
)

const (
	ConfigFilePathENV = "DDUCKDNS_CONFIG_FILE_PATH"
	EnvPrefix         = "DDUCKDNS"
	ConfigFileName    = "config.toml"
)
