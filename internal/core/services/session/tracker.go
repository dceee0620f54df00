// Package session tracks the per-interface connection-attempt state machine:
// Idle -> Active -> Finalized. Producers call opportunistically; every form
// of misuse (end without start, setter on an unknown interface) is an
// explicit no-op.
package session

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/ports"
)

// StartParams carries the arguments of a connection-attempt start.
type StartParams struct {
	NetworkID         int
	ConfigFingerprint string
	SSID              string
	RoamType          domain.RoamType
	Nominator         domain.Nominator
	CarrierID         int
}

// EndParams carries the arguments of a connection-attempt end.
type EndParams struct {
	FailureCode             domain.FailureCode
	HLFBitmask              uint32
	FailureReason           int
	CandidateFrequencyMhz   int
	StatusCode              int
	ConsecutiveFailureCount int
}

// Tracker owns the active (unfinalized) session per interface. It is not
// safe for concurrent use on its own; the aggregation store serializes calls.
type Tracker struct {
	clock  ports.Clock
	active map[string]*domain.ConnectionSession
}

// NewTracker returns a tracker with no active sessions.
func NewTracker(clock ports.Clock) *Tracker {
	return &Tracker{
		clock:  clock,
		active: make(map[string]*domain.ConnectionSession),
	}
}

// Start opens a new Active session on iface. A prior Active session on the
// same interface is superseded: finalized as abandoned and returned so the
// caller can log it. The returned overlap is the elapsed time in milliseconds
// since the most recent still-active session on a different interface
// started, or 0 when there is no such overlap.
func (t *Tracker) Start(iface string, p StartParams) (overlapMillis int64, abandoned *domain.ConnectionSession) {
	now := t.clock.ElapsedSinceBoot().Milliseconds()

	for otherIface, s := range t.active {
		if otherIface == iface {
			continue
		}
		if d := now - s.StartElapsedMillis; d > overlapMillis {
			overlapMillis = d
		}
	}

	if prev, ok := t.active[iface]; ok {
		prev.Finalized = true
		prev.Abandoned = true
		prev.EndElapsedMillis = now
		prev.DurationMillis = now - prev.StartElapsedMillis
		prev.FailureCode = domain.FailureNewConnectionAttempt
		prev.Router = routerFingerprint(prev)
		abandoned = prev
		slog.Info("superseding active session", "iface", iface, "session", prev.ID)
	}

	t.active[iface] = &domain.ConnectionSession{
		ID:                 uuid.NewString(),
		Interface:          iface,
		NetworkID:          p.NetworkID,
		ConfigFingerprint:  p.ConfigFingerprint,
		SSID:               p.SSID,
		RoamType:           p.RoamType,
		Nominator:          p.Nominator,
		CarrierID:          p.CarrierID,
		StartElapsedMillis: now,
		StartWall:          t.clock.Now(),
	}
	return overlapMillis, abandoned
}

// SetScanDetail records the router metadata for iface's Active session.
// No-op without one.
func (t *Tracker) SetScanDetail(iface string, detail domain.ScanDetail) {
	if s, ok := t.active[iface]; ok {
		s.Scan = detail
		s.HasScanDetail = true
	}
}

// SetPmkCache flags PMK caching for iface's Active session. No-op without one.
func (t *Tracker) SetPmkCache(iface string, enabled bool) {
	if s, ok := t.active[iface]; ok {
		s.PmkCacheEnabled = enabled
	}
}

// SetMaxSupportedLinkSpeed records the max supported tx/rx link speeds for
// iface's Active session. No-op without one.
func (t *Tracker) SetMaxSupportedLinkSpeed(iface string, txMbps, rxMbps int) {
	if s, ok := t.active[iface]; ok {
		s.MaxSupportedTxLinkSpeedMbps = txMbps
		s.MaxSupportedRxLinkSpeedMbps = rxMbps
	}
}

// SetChannelWidth records the operating channel width for iface's Active
// session. No-op without one.
func (t *Tracker) SetChannelWidth(iface string, widthMhz int) {
	if s, ok := t.active[iface]; ok {
		s.Scan.ChannelWidthMhz = widthMhz
	}
}

// End finalizes iface's Active session and returns it. Only the first End
// after a Start is effective: without an Active session it logs and returns
// nil, so a double End can never produce a second finalized session.
func (t *Tracker) End(iface string, p EndParams) *domain.ConnectionSession {
	s, ok := t.active[iface]
	if !ok {
		slog.Info("connection end without active session", "iface", iface)
		return nil
	}
	delete(t.active, iface)

	now := t.clock.ElapsedSinceBoot().Milliseconds()
	s.Finalized = true
	s.EndElapsedMillis = now
	s.DurationMillis = now - s.StartElapsedMillis
	s.FailureCode = p.FailureCode
	s.HLFBitmask = p.HLFBitmask
	s.FailureReason = p.FailureReason
	s.CandidateFrequencyMhz = p.CandidateFrequencyMhz
	s.StatusCode = p.StatusCode
	s.ConsecutiveFailureCount = p.ConsecutiveFailureCount
	s.Router = routerFingerprint(s)
	return s
}

// Active returns iface's Active session, or nil. The caller must not retain
// the pointer across tracker calls.
func (t *Tracker) Active(iface string) *domain.ConnectionSession {
	return t.active[iface]
}

// ActiveSessions returns copies of all currently Active sessions. Used by the
// dump path, which must report but not clear them.
func (t *Tracker) ActiveSessions() []domain.ConnectionSession {
	out := make([]domain.ConnectionSession, 0, len(t.active))
	for _, s := range t.active {
		out = append(out, *s)
	}
	return out
}

// routerFingerprint folds the retained scan detail and setter state into the
// immutable router summary of a finalized session.
func routerFingerprint(s *domain.ConnectionSession) domain.RouterFingerprint {
	fp := domain.RouterFingerprint{
		PmkCacheEnabled:    s.PmkCacheEnabled,
		MaxSupportedTxMbps: s.MaxSupportedTxLinkSpeedMbps,
		MaxSupportedRxMbps: s.MaxSupportedRxLinkSpeedMbps,
	}
	if s.HasScanDetail {
		fp.AuthType = s.Scan.AuthType
		fp.EapMethod = s.Scan.EapMethod
		fp.DTIMPeriod = s.Scan.DTIMPeriod
		fp.FrequencyMhz = s.Scan.FrequencyMhz
		fp.ChannelWidthMhz = s.Scan.ChannelWidthMhz
		fp.Hidden = s.Scan.Hidden
		fp.IsPasspoint = s.Scan.IsPasspoint
		fp.IsHomeProvider = s.Scan.IsHomeProvider
	}
	return fp
}
