package aggregate

import (
	"github.com/google/uuid"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/telemetry"
)

// Snapshot freezes the live store into an immutable snapshot and clears it,
// keeping the sticky allow-list (blocklist/notification configuration,
// feature flags) and every still-active connection session. The mobility
// list in the snapshot includes the in-progress duration of the current
// state; post-clear the store always retains one entry for the current state
// with zero duration.
func (s *Store) Snapshot(mode domain.DumpMode) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMillis()
	s.rollMobilityLocked(now)

	snap := domain.Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: s.clock.Now(),

		Counters: s.counters,
		Sticky:   s.sticky,

		RSSIPoll:           s.rssiPoll.Entries(),
		WifiScore:          s.wifiScore.Entries(),
		AlertReason:        s.alertReason.Entries(),
		ConnectionDuration: s.connectionDuration.Entries(),
		LinkSpeed:          s.linkSpeed.Entries(),
		ChannelUtilization: s.channelUtilization.Entries(),
		Throughput:         s.throughput.Entries(),
		LockHeldDuration:   s.lockHeldDuration.Entries(),
		SoftApDuration:     s.softApDuration.Entries(),

		PasspointProvisionFailures: s.passpointProvisionFailures.Entries(),
		DisconnectReasons:          s.disconnectReasons.Entries(),

		Sessions:        append([]domain.ConnectionSession(nil), s.sessions...),
		StaEvents:       s.staEvents.Items(),
		LinkProbeEvents: s.linkProbes.Items(),
		UnusableEvents:  s.unusableEvents.Items(),
		Mobility:        s.mobilityEntriesLocked(),
		Captures:        s.captures.Items(),
	}

	s.clearLocked(now)
	telemetry.Dumps.WithLabelValues(dumpModeLabel(mode)).Inc()
	return snap
}

// ActiveSessions returns copies of the not-yet-finalized sessions. They are
// reported alongside a snapshot but never cleared by it.
func (s *Store) ActiveSessions() []domain.ConnectionSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.ActiveSessions()
}

func (s *Store) mobilityEntriesLocked() []domain.MobilityDuration {
	out := make([]domain.MobilityDuration, 0, len(s.mobility))
	for _, m := range s.mobility {
		out = append(out, *m)
	}
	return out
}

// clearLocked resets everything except the sticky fields, the active
// sessions, and the listener registry. The mobility map is reseeded with the
// current state at zero duration so it is never empty. Caller holds s.mu.
func (s *Store) clearLocked(now int64) {
	s.counters = domain.Counters{}

	s.rssiPoll.Clear()
	s.wifiScore.Clear()
	s.alertReason.Clear()
	s.connectionDuration.Clear()
	s.linkSpeed.Clear()
	s.channelUtilization.Clear()
	s.throughput.Clear()
	s.lockHeldDuration.Clear()
	s.softApDuration.Clear()

	s.passpointProvisionFailures.Clear()
	s.disconnectReasons.Clear()

	s.sessions = nil
	s.staEvents.Clear()
	s.linkProbes.Clear()
	s.unusableEvents.Clear()
	s.captures.Clear()
	s.usability.Clear()

	s.hasDataStall = false
	s.lastUnusableType = domain.UnusableUnknown

	s.mobility = map[domain.MobilityState]*domain.MobilityDuration{
		s.currentMobility: {State: s.currentMobility},
	}
	s.mobilityEnteredMillis = now
}

func dumpModeLabel(mode domain.DumpMode) string {
	switch mode {
	case domain.DumpStructuredClean:
		return "structured-clean"
	case domain.DumpStructuredVerbose:
		return "structured-verbose"
	}
	return "verbose"
}
