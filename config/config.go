package config

import (
	"time"

	relayDTO "github.com/joy-dx/relay/dto"

	"github.com/joy-dx/netpipe/dto"
)

// SvcConfig carries everything the pipeline service depends on.
// Collaborators (relay, probe, refresh handler, converters) are
// injected here at construction time; there is no process-global
// registry, so tests can build fully isolated services.
type SvcConfig struct {
	relay relayDTO.RelayInterface

	ExtraHeaders             dto.ExtraHeaders
	RequestTimeout           time.Duration
	UserAgent                string
	BlacklistDomains         []string
	WhitelistDomains         []string
	DownloadCallbackInterval time.Duration

	// Probe gates every send; nil means assume online.
	Probe dto.ConnectivityProbe
	// RefreshHandler services 401s on authorized calls; nil disables
	// refresh entirely.
	RefreshHandler dto.RefreshHandler
	Converters     *dto.ConverterRegistry
}

func DefaultSvcConfig() SvcConfig {
	return SvcConfig{
		ExtraHeaders:             dto.ExtraHeaders{},
		RequestTimeout:           20 * time.Second,
		UserAgent:                "netpipe/1.0",
		DownloadCallbackInterval: 2 * time.Second,
		Converters:               dto.NewConverterRegistry(),
	}
}

func (c *SvcConfig) Relay() relayDTO.RelayInterface {
	return c.relay
}

func (c *SvcConfig) WithRelay(relay relayDTO.RelayInterface) *SvcConfig {
	c.relay = relay
	return c
}

func (c *SvcConfig) WithExtraHeaders(headers dto.ExtraHeaders) *SvcConfig {
	c.ExtraHeaders = headers
	return c
}

func (c *SvcConfig) WithRequestTimeout(d time.Duration) *SvcConfig {
	c.RequestTimeout = d
	return c
}

func (c *SvcConfig) WithUserAgent(ua string) *SvcConfig {
	c.UserAgent = ua
	return c
}

func (c *SvcConfig) WithBlacklistDomains(domains []string) *SvcConfig {
	c.BlacklistDomains = domains
	return c
}

func (c *SvcConfig) WithWhitelistDomains(domains []string) *SvcConfig {
	c.WhitelistDomains = domains
	return c
}

func (c *SvcConfig) WithDownloadCallbackInterval(d time.Duration) *SvcConfig {
	c.DownloadCallbackInterval = d
	return c
}

func (c *SvcConfig) WithProbe(probe dto.ConnectivityProbe) *SvcConfig {
	c.Probe = probe
	return c
}

func (c *SvcConfig) WithRefreshHandler(handler dto.RefreshHandler) *SvcConfig {
	c.RefreshHandler = handler
	return c
}

func (c *SvcConfig) WithConverters(registry *dto.ConverterRegistry) *SvcConfig {
	c.Converters = registry
	return c
}
