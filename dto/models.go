package dto

import (
	"net/http"
	"time"
)

type ClientType string

// DefaultClientRef is the ref under which Hydrate registers the
// standard HTTP transport.
const DefaultClientRef = "netpipe.client.default"

// ClientInfo is the static identity of a registered transport.
type ClientInfo struct {
	Name        string     `json:"name" yaml:"name"`
	Ref         string     `json:"ref" yaml:"ref"`
	ClientType  ClientType `json:"client_type" yaml:"client_type"`
	Description string     `json:"description" yaml:"description"`
}

// Response is one buffered attempt result: status, headers, raw body.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

type TransferStatus string

const (
	IN_PROGRESS TransferStatus = "in_progress"
	COMPLETE    TransferStatus = "complete"
	ERROR       TransferStatus = "error"
	STOPPED     TransferStatus = "stopped"
)

type TransferNotification struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	Status      TransferStatus `json:"status" yaml:"status"`
	// Percentage completion status as a percentage
	Percentage float64 `json:"percentage" yaml:"percentage"`
	// TotalSize length content in bytes. The value -1 indicates that the length is unknown
	TotalSize int64 `json:"total_size,omitempty" yaml:"total_size,omitempty"`
	// Downloaded downloaded body length in bytes
	Downloaded int64 `json:"downloaded,omitempty" yaml:"downloaded,omitempty"`
}

type SvcState struct {
	ExtraHeaders             ExtraHeaders  `json:"net_extra_headers,omitempty" yaml:"net_extra_headers,omitempty"`
	RequestTimeout           time.Duration `json:"net_request_timeout,omitempty" yaml:"net_request_timeout,omitempty"`
	UserAgent                string        `json:"net_user_agent,omitempty" yaml:"net_user_agent,omitempty"`
	BlacklistDomains         []string      `json:"net_blacklist_domains,omitempty" yaml:"net_blacklist_domains,omitempty"`
	WhitelistDomains         []string      `json:"net_whitelist_domains,omitempty" yaml:"net_whitelist_domains,omitempty"`
	DownloadCallbackInterval time.Duration `json:"net_download_callback_interval,omitempty" yaml:"net_download_callback_interval,omitempty"`
	TransfersStatus          map[string]TransferNotification `json:"net_transfers_status,omitempty" yaml:"net_transfers_status,omitempty"`
}

type DownloadFileConfig struct {
	URL      string
	Checksum string
	// DestinationFolder Used if path not set appending
	DestinationFolder string
	OutputFileName    string
	// Resume continues a partial download via a byte-range request
	// when the destination file already exists.
	Resume bool
	// ClientRef overrides the transport used for the download.
	ClientRef string
}
