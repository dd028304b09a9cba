package netpipe

import (
	"sync"

	"github.com/joy-dx/lockablemap"
	relayDTO "github.com/joy-dx/relay/dto"

	"github.com/joy-dx/netpipe/config"
	"github.com/joy-dx/netpipe/dto"
)

// Service is the request pipeline orchestrator. It owns the registered
// transport backends, the single-flight refresh coordinator, and the
// transfer notification state. Build one per configuration with New;
// there is deliberately no package-level instance.
type Service struct {
	cfg            *config.SvcConfig
	relay          relayDTO.RelayInterface
	refresh        *RefreshCoordinator
	clients        map[string]dto.TransportInterface
	transferState  lockablemap.LockableMap[string, dto.TransferNotification]
	muListeners    sync.Mutex
	listenersByURL map[string][]chan dto.TransferNotification
}

func New(cfg *config.SvcConfig) *Service {
	s := &Service{
		cfg:            cfg,
		refresh:        NewRefreshCoordinator(nil),
		clients:        make(map[string]dto.TransportInterface),
		transferState:  *lockablemap.NewLockableMap[string, dto.TransferNotification](),
		listenersByURL: make(map[string][]chan dto.TransferNotification),
	}
	if cfg != nil {
		s.relay = cfg.Relay()
		s.refresh = NewRefreshCoordinator(cfg.RefreshHandler)
	}
	return s
}

func (s *Service) RegisterClient(ref string, client dto.TransportInterface) {
	s.clients[ref] = client
}

// TransferListener returns a channel of updates for a particular URL
func (s *Service) TransferListener(sourceURL string) (<-chan dto.TransferNotification, func()) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()

	ch := make(chan dto.TransferNotification, 10)
	s.listenersByURL[sourceURL] = append(s.listenersByURL[sourceURL], ch)

	unsub := func() {
		s.muListeners.Lock()
		defer s.muListeners.Unlock()

		chans := s.listenersByURL[sourceURL]
		out := chans[:0]
		for _, c := range chans {
			if c != ch {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			delete(s.listenersByURL, sourceURL)
		} else {
			s.listenersByURL[sourceURL] = out
		}
		close(ch)
	}

	return ch, unsub
}

// TransferListenerClose closes all channels for a given URL manually
func (s *Service) TransferListenerClose(sourceURL string) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()
	if chans, ok := s.listenersByURL[sourceURL]; ok {
		for _, c := range chans {
			close(c)
		}
		delete(s.listenersByURL, sourceURL)
	}
}
