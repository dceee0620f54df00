package aggregate

import (
	"log/slog"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/ports"
	"github.com/netgauge/wifitel/internal/telemetry"
)

// AddOnWifiUsabilityListener registers a listener for every usability poll
// entry. Re-registering the same ID replaces the previous registration.
func (s *Store) AddOnWifiUsabilityListener(l ports.UsabilityListener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.listeners {
		if existing.ID() == l.ID() {
			s.listeners[i] = l
			return
		}
	}
	s.listeners = append(s.listeners, l)
}

// RemoveOnWifiUsabilityListener deregisters the listener with the given ID.
// Unknown IDs are a no-op.
func (s *Store) RemoveOnWifiUsabilityListener(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeListenerLocked(id)
}

func (s *Store) removeListenerLocked(id string) {
	for i, l := range s.listeners {
		if l.ID() == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered usability listeners.
func (s *Store) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// deliverUsability fans an entry out to the given listeners. A listener whose
// callback fails is deregistered and delivery continues with the rest; one
// dead listener never blocks or drops delivery to the others.
func (s *Store) deliverUsability(targets []ports.UsabilityListener, seq int, sameSession bool, entry domain.UsabilityStatsEntry) {
	for _, l := range targets {
		if err := l.OnUsabilityStats(seq, sameSession, entry); err != nil {
			slog.Warn("removing dead usability listener", "listener", l.ID(), "error", err)
			s.mu.Lock()
			s.removeListenerLocked(l.ID())
			s.mu.Unlock()
			telemetry.ListenersDropped.Inc()
		}
	}
}
