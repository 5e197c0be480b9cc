package hook

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jxo-me/dduckdns/config"
	"github.com/jxo-me/dduckdns/consts"
	"github.com/jxo-me/dduckdns/core/ddns"
	"github.com/jxo-me/dduckdns/core/hook"
	"github.com/jxo-me/dduckdns/core/logger"
	"github.com/jxo-me/dduckdns/internal/util"
	jsoniter "github.com/json-iterator/go"
)

const (
	Code = "webhook"
)

// Webhook Webhook
type Webhook struct {
	WebhookURL         string
	WebhookRequestBody string
	WebhookHeaders     string
	client             *http.Client
	logger             logger.ILogger
}

var _ hook.IHook = (*Webhook)(nil)

// hasJSONPrefix returns true if the string starts with a JSON open brace.
func hasJSONPrefix(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

func NewHook(conf *config.Webhook, client *http.Client, log logger.ILogger) *Webhook {
	return &Webhook{
		WebhookURL:         conf.WebhookURL,
		WebhookRequestBody: conf.WebhookRequestBody,
		WebhookHeaders:     conf.WebhookHeaders,
		client:             client,
		logger:             log,
	}
}

func (w *Webhook) String() string {
	return Code
}

// ExecHook 有域名更新成功或失败时触发, 返回本次运行结果
func (w *Webhook) ExecHook(ctx context.Context, results []ddns.Result, ipv6Addr string) consts.UpdateStatusType {
	status := ddns.AggregateStatus(results)
	if w.WebhookURL == "" || !hasChange(results) {
		return status
	}

	// 成功和失败都要触发webhook
	method := http.MethodGet
	postPara := ""
	contentType := "application/x-www-form-urlencoded"
	if w.WebhookRequestBody != "" {
		method = http.MethodPost
		postPara = w.replacePara(results, w.WebhookRequestBody, status, ipv6Addr)
		if jsoniter.Valid([]byte(postPara)) {
			contentType = "application/json"
			// 如果 RequestBody 的 JSON 无效但前缀为 JSON 括号则为 JSON
		} else if hasJSONPrefix(postPara) {
			w.logger.Warn("webhook request_body looks like JSON but is not valid JSON")
		}
	}

	requestURL := w.replacePara(results, w.WebhookURL, status, ipv6Addr)
	u, err := url.Parse(requestURL)
	if err != nil {
		w.logger.Errorf("webhook url is invalid: %s", err)
		return status
	}
	u.RawQuery = u.Query().Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(postPara))
	if err != nil {
		w.logger.Errorf("creating webhook request: %s", err)
		return status
	}
	for key, value := range w.CheckParseHeaders(w.WebhookHeaders) {
		req.Header.Add(key, value)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := w.client.Do(req)
	body, err := util.GetHTTPResponseOrg(resp, u.Redacted(), err)
	if err == nil {
		w.logger.Infof("webhook called, response: %q", strings.TrimSpace(string(body)))
	} else {
		w.logger.Errorf("webhook call failed: %s", err)
	}
	return status
}

// hasChange 全部未改变时不触发
func hasChange(results []ddns.Result) bool {
	for _, r := range results {
		if r.Status != consts.UpdatedNothing {
			return true
		}
	}
	return false
}

// replacePara 替换参数
func (w *Webhook) replacePara(results []ddns.Result, orgPara string, result consts.UpdateStatusType, ipv6Addr string) string {
	var all, success, failed []string
	for _, r := range results {
		all = append(all, r.Domain)
		switch r.Status {
		case consts.UpdatedSuccess:
			success = append(success, r.Domain)
		case consts.UpdatedFailed:
			failed = append(failed, r.Domain)
		}
	}

	orgPara = strings.ReplaceAll(orgPara, "#{successDomains}", strings.Join(success, ","))
	orgPara = strings.ReplaceAll(orgPara, "#{failedDomains}", strings.Join(failed, ","))
	orgPara = strings.ReplaceAll(orgPara, "#{domains}", strings.Join(all, ","))
	orgPara = strings.ReplaceAll(orgPara, "#{result}", string(result))
	orgPara = strings.ReplaceAll(orgPara, "#{ipv6Addr}", ipv6Addr)
	return orgPara
}

// CheckParseHeaders 一行一个Header
func (w *Webhook) CheckParseHeaders(headerStr string) (headers map[string]string) {
	headers = make(map[string]string)
	for _, line := range strings.Split(headerStr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) == "" {
			w.logger.Warnf("ignoring malformed webhook header %q", line)
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}
