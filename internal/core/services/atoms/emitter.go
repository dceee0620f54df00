// Package atoms turns completed sessions and discrete events into outbound
// telemetry records. Emission is a pure function of the arguments plus the
// enabled gate; all dedup state lives with the callers (the session tracker
// guarantees at most one end per attempt).
package atoms

import (
	"log/slog"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/ports"
)

// ConnectionContext is the device-side context consulted when classifying a
// finalized connection attempt.
type ConnectionContext struct {
	FirstSinceBoot    bool
	HasPrevious       bool
	PreviousNetworkID int
	// Elapsed-since-boot millis when the previous session ended. Ignored
	// when HasPrevious is false.
	PreviousEndElapsedMillis int64
	LastRSSI                 int
	IsCarrierNetwork         bool
	HasNeverConnected        bool
}

// Emitter writes atoms to the configured sink. A nil sink or a disabled
// emitter silently drops everything; producers never see a failure.
type Emitter struct {
	sink    ports.AtomSink
	enabled bool
}

// NewEmitter returns an emitter writing to sink. Emission starts enabled.
func NewEmitter(sink ports.AtomSink) *Emitter {
	return &Emitter{sink: sink, enabled: true}
}

// SetEnabled gates all emission, used when the reporting consent flag flips.
func (e *Emitter) SetEnabled(enabled bool) { e.enabled = enabled }

func (e *Emitter) write(a domain.Atom) {
	if !e.enabled || e.sink == nil {
		return
	}
	if err := e.sink.Write(a); err != nil {
		slog.Warn("atom sink write failed", "type", a.AtomType(), "error", err)
	}
}

// ClassifyTrigger derives the connection-trigger class. Precedence: a manual
// nominator always wins; then the first connection since boot; then a target
// matching the previous session's network id; everything else is an
// autoconnect to a configured network.
func ClassifyTrigger(nominator domain.Nominator, firstSinceBoot bool, hasPrevious bool, previousNetworkID, networkID int) domain.ConnectionTrigger {
	switch {
	case nominator == domain.NominatorManual:
		return domain.TriggerManual
	case firstSinceBoot:
		return domain.TriggerBootAutoconnect
	case hasPrevious && previousNetworkID == networkID:
		return domain.TriggerReconnectSameNetwork
	}
	return domain.TriggerAutoconnectConfigured
}

// TimeSinceLastConnectionSecs computes (thisStart - previousEnd) in whole
// seconds, 0 when there is no prior session.
func TimeSinceLastConnectionSecs(startElapsedMillis int64, ctx ConnectionContext) int64 {
	if !ctx.HasPrevious {
		return 0
	}
	return (startElapsedMillis - ctx.PreviousEndElapsedMillis) / 1000
}

// OnConnectionEnd emits the connection-result atom for a finalized session.
// The tracker's once-only end semantics make this emit exactly once per
// logical attempt.
func (e *Emitter) OnConnectionEnd(s domain.ConnectionSession, ctx ConnectionContext) {
	e.write(domain.ConnectionResultAtom{
		Success:                 s.Succeeded(),
		FailureCode:             s.FailureCode,
		FailureReason:           s.FailureReason,
		RSSI:                    ctx.LastRSSI,
		DurationMillis:          s.DurationMillis,
		AuthType:                s.Router.AuthType,
		Trigger:                 s.Trigger,
		HasNeverConnected:       ctx.HasNeverConnected,
		IsCarrierNetwork:        ctx.IsCarrierNetwork,
		FrequencyMhz:            s.Router.FrequencyMhz,
		TimeSinceLastConnSecs:   s.TimeSinceLastConnSecs,
		ConsecutiveFailureCount: s.ConsecutiveFailureCount,
		Nominator:               s.Nominator,
		RoamType:                s.RoamType,
		NetworkID:               s.NetworkID,
	})
	if s.HasScanDetail && s.Succeeded() {
		e.write(domain.ApCapabilitiesAtom{
			ChannelWidthMhz: s.Router.ChannelWidthMhz,
			FrequencyMhz:    s.Router.FrequencyMhz,
			DTIMPeriod:      s.Router.DTIMPeriod,
			IsPasspoint:     s.Router.IsPasspoint,
		})
	}
}

// OnDisconnect emits the disconnect atom.
func (e *Emitter) OnDisconnect(reason int, connectedSecs int64, entry domain.UsabilityStatsEntry, lastUnusable domain.UnusableEventType) {
	e.write(domain.DisconnectAtom{
		Reason:           reason,
		ConnectedSecs:    connectedSecs,
		RSSI:             entry.RSSI,
		LinkSpeedMbps:    entry.LinkSpeedMbps,
		LastScore:        entry.WifiScore,
		UnusableCategory: lastUnusable.Category(),
		FrequencyMhz:     entry.Frequency,
	})
}

// OnUsabilityStateReport emits the scorer-prediction atom. With no external
// scorer registered the atom is still emitted but attributed to the default
// principal rather than the caller.
func (e *Emitter) OnUsabilityStateReport(principal string, hasExternalScorer bool, usable bool, score, rssi int) {
	if !hasExternalScorer {
		principal = domain.DefaultScorerPrincipal
	}
	e.write(domain.ScorerPredictionAtom{
		Principal: principal,
		Usable:    usable,
		WifiScore: score,
		RSSI:      rssi,
	})
}

// OnHealthPoll emits the periodic wifi-health atom from the latest poll
// sample and the deltas accumulated since the previous one.
func (e *Emitter) OnHealthPoll(connected bool, entry domain.UsabilityStatsEntry, txBadDelta, txSuccessDelta, rxSuccessDelta int64) {
	e.write(domain.HealthStatAtom{
		Connected:      connected,
		RSSI:           entry.RSSI,
		LinkSpeedMbps:  entry.LinkSpeedMbps,
		WifiScore:      entry.WifiScore,
		TxBadDelta:     txBadDelta,
		TxSuccessDelta: txSuccessDelta,
		RxSuccessDelta: rxSuccessDelta,
		FrequencyMhz:   entry.Frequency,
	})
}

// OnStateChanged emits the client state transition atom.
func (e *Emitter) OnStateChanged(state int, iface string, connected bool) {
	e.write(domain.StateChangedAtom{State: state, Interface: iface, Connected: connected})
}

// OnScanReported emits the scan-reported atom.
func (e *Emitter) OnScanReported(oneshot bool, resultCount int) {
	e.write(domain.ScanReportedAtom{Oneshot: oneshot, ResultCount: resultCount, Empty: resultCount == 0})
}

// OnLockAcquired emits the lock-acquired atom.
func (e *Emitter) OnLockAcquired(mode int, lowLatency bool) {
	e.write(domain.LockAtom{Acquired: true, Mode: mode, LowLatency: lowLatency})
}

// OnLockReleased emits the lock-released atom with the held duration.
func (e *Emitter) OnLockReleased(mode int, heldMillis int64, lowLatency bool) {
	e.write(domain.LockAtom{Acquired: false, Mode: mode, HeldMillis: heldMillis, LowLatency: lowLatency})
}

// OnConfigSaved emits the config-saved atom.
func (e *Emitter) OnConfigSaved(auth domain.AuthType, hidden, metered bool, totalSaved int) {
	e.write(domain.ConfigSavedAtom{AuthType: auth, IsHidden: hidden, IsMetered: metered, TotalSaved: totalSaved})
}

// OnAirplaneModeSession emits the airplane-mode toggle atom.
func (e *Emitter) OnAirplaneModeSession(enabled bool, wifiOnBeforeMillis int64, wifiStayedOn bool) {
	e.write(domain.AirplaneModeSessionAtom{Enabled: enabled, WifiOnBeforeMillis: wifiOnBeforeMillis, WifiStayedOn: wifiStayedOn})
}
