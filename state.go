package netpipe

import (
	"context"
	"errors"

	"github.com/joy-dx/netpipe/client/httpclient"
	"github.com/joy-dx/netpipe/dto"
	"github.com/joy-dx/netpipe/relays"
)

func (s *Service) State() *dto.SvcState {
	return &dto.SvcState{
		ExtraHeaders:             s.cfg.ExtraHeaders,
		RequestTimeout:           s.cfg.RequestTimeout,
		UserAgent:                s.cfg.UserAgent,
		BlacklistDomains:         s.cfg.BlacklistDomains,
		WhitelistDomains:         s.cfg.WhitelistDomains,
		DownloadCallbackInterval: s.cfg.DownloadCallbackInterval,
		TransfersStatus:          s.transferState.GetAll(),
	}
}

// Hydrate validates the configuration and registers the default HTTP
// transport. Call once after New, before serving requests.
func (s *Service) Hydrate(ctx context.Context) error {
	if s.cfg == nil {
		return errors.New("no pipeline config")
	}
	if s.relay == nil {
		return errors.New("no relay implementation")
	}

	defaultClientCfg := httpclient.DefaultHTTPClientConfig()
	defaultClient := httpclient.NewHTTPClient(dto.DefaultClientRef, s.cfg, &defaultClientCfg)
	s.clients[dto.DefaultClientRef] = defaultClient

	s.relay.Debug(relays.RlyNetLog{Msg: "Request pipeline ready"})
	return nil
}
