package service

import (
	"context"

	"github.com/jxo-me/dduckdns/config"
	"github.com/jxo-me/dduckdns/consts"
	iCache "github.com/jxo-me/dduckdns/core/cache"
	"github.com/jxo-me/dduckdns/core/credential"
	"github.com/jxo-me/dduckdns/core/ddns"
	"github.com/jxo-me/dduckdns/core/hook"
	"github.com/jxo-me/dduckdns/core/logger"
	"github.com/jxo-me/dduckdns/core/service"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type DDNSService struct {
	DDNS        ddns.IDDNS
	Token       credential.ITokenSource
	IPv6Cache   iCache.IAddrCache
	Hook        hook.IHook
	Domains     []config.Domain
	Concurrency int
	logger      logger.ILogger
}

var _ service.IDDNSService = (*DDNSService)(nil)

func NewDDNS(d ddns.IDDNS, token credential.ITokenSource, ipv6Cache iCache.IAddrCache,
	domains []config.Domain, log logger.ILogger) *DDNSService {
	return &DDNSService{
		DDNS:        d,
		Token:       token,
		IPv6Cache:   ipv6Cache,
		Domains:     domains,
		Concurrency: consts.DefaultConcurrency,
		logger:      log,
	}
}

// WithHook sets the hook run after every domain is done. nil disables it.
func (s *DDNSService) WithHook(h hook.IHook) *DDNSService {
	s.Hook = h
	return s
}

// WithConcurrency bounds how many domains are updated at once.
func (s *DDNSService) WithConcurrency(n int) *DDNSService {
	s.Concurrency = n
	return s
}

func (s *DDNSService) String() string {
	return s.DDNS.String()
}

// RunOnce resolves the token, then updates every domain once. A failing
// domain never stops the others; only a token failure aborts the run,
// before any request is sent.
func (s *DDNSService) RunOnce(ctx context.Context) (*service.Report, error) {
	token, err := s.Token.Token(ctx)
	if err != nil {
		s.logger.Errorf("%s", err)
		return nil, errors.WithMessage(err, "resolving token")
	}

	results := make([]ddns.Result, len(s.Domains))
	limit := s.Concurrency
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, domain := range s.Domains {
		i, domain := i, domain
		g.Go(func() error {
			results[i] = s.updateDomain(ctx, domain, token)
			return nil
		})
	}
	_ = g.Wait()

	report := &service.Report{
		Results:  results,
		IPv6Addr: s.IPv6Cache.GetAddr(),
	}
	s.logSummary(report)

	// webhook
	if s.Hook != nil {
		s.Hook.ExecHook(ctx, report.Results, report.IPv6Addr)
	}
	return report, nil
}

func (s *DDNSService) updateDomain(ctx context.Context, domain config.Domain, token string) ddns.Result {
	var autoIPv6 *string
	if domain.NeedsAutoIPv6() {
		addr, err := s.IPv6Cache.Get(ctx)
		if err != nil {
			updateErr := &ddns.UpdateError{
				Domain: domain.Name,
				Kind:   ddns.KindAddress,
				Reason: "auto IPv6 lookup failed",
				Err:    err,
			}
			s.logger.Errorf("%s", updateErr)
			return ddns.Result{Domain: domain.Name, Status: consts.UpdatedFailed, Err: updateErr}
		}
		autoIPv6 = &addr
	}
	return s.DDNS.Update(ctx, domain, token, autoIPv6)
}

func (s *DDNSService) logSummary(report *service.Report) {
	for _, res := range report.Results {
		log := s.logger.WithFields(map[string]any{
			"domain": res.Domain,
			"status": string(res.Status),
		})
		if res.OK() {
			log.Debug("done")
		} else {
			log.Warnf("failed: %s", res.Err)
		}
	}
	failed := len(report.Failed())
	if failed > 0 {
		s.logger.Warnf("%d of %d domains failed", failed, len(report.Results))
		return
	}
	s.logger.Infof("%d domains up to date", len(report.Results))
}
