package cache

import "context"

// IAddrCache memoizes one address lookup per run.
type IAddrCache interface {
	Get(ctx context.Context) (string, error)
	// GetAddr returns the resolved address, or "" if no lookup succeeded
	GetAddr() string
}
