package hook

import (
	"context"

	"github.com/jxo-me/dduckdns/consts"
	"github.com/jxo-me/dduckdns/core/ddns"
)

type IHook interface {
	String() string
	ExecHook(ctx context.Context, results []ddns.Result, ipv6Addr string) consts.UpdateStatusType
}
