package service

import (
	"context"
	"strings"

	"github.com/jxo-me/dduckdns/consts"
	"github.com/jxo-me/dduckdns/core/ddns"
	"github.com/pkg/errors"
)

type IDDNSService interface {
	String() string
	// RunOnce 执行一次更新. 只有在无法开始更新时才返回 error
	RunOnce(ctx context.Context) (*Report, error)
}

// Report 本次运行结果, 顺序与域名顺序一致
type Report struct {
	Results  []ddns.Result
	IPv6Addr string
}

func (r *Report) Failed() []ddns.Result {
	var failed []ddns.Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) Status() consts.UpdateStatusType {
	return ddns.AggregateStatus(r.Results)
}

// Err summarizes the failed domains, or returns nil.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(failed))
	for _, res := range failed {
		if res.Err != nil {
			msgs = append(msgs, res.Err.Error())
		} else {
			msgs = append(msgs, res.Domain+": failed")
		}
	}
	return errors.Errorf("%d of %d domains failed: %s", len(failed), len(r.Results), strings.Join(msgs, "; "))
}
