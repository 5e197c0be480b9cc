package config

// Webhook Webhook
type Webhook struct {
	// 支持的变量 #{result}=本次运行结果: UnChanged Failure Success,
	// #{domains}=全部域名, 多个以,分割,
	// #{successDomains}=更新成功的域名,
	// #{failedDomains}=更新失败的域名,
	// #{ipv6Addr}=自动获取的IPv6地址
	WebhookURL string `mapstructure:"url" yaml:"url" json:"url" toml:"url"`
	// 如 RequestBody 为空则为 GET 请求，否则为 POST 请求。支持的变量同上
	WebhookRequestBody string `mapstructure:"request_body" yaml:"request_body,omitempty" json:"request_body,omitempty" toml:"request_body,omitempty"`
	// 一行一个Header, 如：Authorization: Bearer API_KEY
	WebhookHeaders string `mapstructure:"headers" yaml:"headers,omitempty" json:"headers,omitempty" toml:"headers,omitempty"`
}
