package relays

import (
	"fmt"
	"log/slog"

	relayDTO "github.com/joy-dx/relay/dto"

	"github.com/joy-dx/netpipe/dto"
)

const ChannelNet relayDTO.EventChannel = "netpipe"

const (
	RefNetLog      relayDTO.EventRef = "netpipe.log"
	RefNetRequest  relayDTO.EventRef = "netpipe.request"
	RefNetTransfer relayDTO.EventRef = "netpipe.transfer"
)

// RlyNetLog is a general service lifecycle message.
type RlyNetLog struct {
	Msg string
}

func (e RlyNetLog) RelayChannel() relayDTO.EventChannel { return ChannelNet }
func (e RlyNetLog) RelayType() relayDTO.EventRef        { return RefNetLog }
func (e RlyNetLog) Message() string                     { return e.Msg }
func (e RlyNetLog) ToSlog() []slog.Attr {
	return []slog.Attr{slog.String("msg", e.Msg)}
}

// RlyNetRequest records one executed request attempt.
type RlyNetRequest struct {
	Method   string
	URL      string
	Status   int
	Category dto.StatusCategory
	Attempt  int
	Msg      string
}

func (e RlyNetRequest) RelayChannel() relayDTO.EventChannel { return ChannelNet }
func (e RlyNetRequest) RelayType() relayDTO.EventRef        { return RefNetRequest }
func (e RlyNetRequest) Message() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Msg)
	}
	return fmt.Sprintf("%s %s -> %d (%s)", e.Method, e.URL, e.Status, e.Category)
}
func (e RlyNetRequest) ToSlog() []slog.Attr {
	return []slog.Attr{
		slog.String("method", e.Method),
		slog.String("url", e.URL),
		slog.Int("status", e.Status),
		slog.String("category", string(e.Category)),
		slog.Int("attempt", e.Attempt),
	}
}

// RlyNetTransfer records file transfer progress and completion.
type RlyNetTransfer struct {
	Source      string
	Destination string
	Status      dto.TransferStatus
	Percentage  float64
	Msg         string
}

func (e RlyNetTransfer) RelayChannel() relayDTO.EventChannel { return ChannelNet }
func (e RlyNetTransfer) RelayType() relayDTO.EventRef        { return RefNetTransfer }
func (e RlyNetTransfer) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s -> %s [%s %.0f%%]", e.Source, e.Destination, e.Status, e.Percentage)
}
func (e RlyNetTransfer) ToSlog() []slog.Attr {
	return []slog.Attr{
		slog.String("source", e.Source),
		slog.String("destination", e.Destination),
		slog.String("status", string(e.Status)),
		slog.Float64("percentage", e.Percentage),
	}
}
