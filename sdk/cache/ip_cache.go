package cache

import (
	"context"
	"sync"

	iCache "github.com/jxo-me/dduckdns/core/cache"
	"github.com/jxo-me/dduckdns/core/logger"
	"github.com/jxo-me/dduckdns/core/resolver"
)

// AddrCache 本次运行的地址缓存, 最多查询一次
type AddrCache struct {
	resolver resolver.IAddrResolver
	logger   logger.ILogger

	once sync.Once
	addr string // 缓存地址
	err  error
}

var _ iCache.IAddrCache = (*AddrCache)(nil)

func NewAddrCache(r resolver.IAddrResolver, log logger.ILogger) *AddrCache {
	return &AddrCache{
		resolver: r,
		logger:   log,
	}
}

// Get resolves on the first call. Concurrent callers wait for that lookup
// and all see its outcome, including a failure.
func (c *AddrCache) Get(ctx context.Context) (string, error) {
	c.once.Do(func() {
		c.addr, c.err = c.resolver.Resolve(ctx)
		if c.err != nil {
			c.logger.Warnf("%s address lookup failed: %s", c.resolver, c.err)
		}
	})
	return c.addr, c.err
}

// GetAddr must not race with Get.
func (c *AddrCache) GetAddr() string {
	if c.err != nil {
		return ""
	}
	return c.addr
}
