// Package aggregate owns the full telemetry aggregation state: counters,
// histograms, bounded logs, the usability ring buffer, per-interface session
// tracking, and the snapshot-and-selective-clear dump protocol. One Store
// instance is shared by every producer in the process; a single mutex guards
// all state. Producer-facing methods are infallible: documented misuse is an
// explicit no-op, never an error or a panic.
package aggregate

import (
	"sync"
	"time"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/ports"
	"github.com/netgauge/wifitel/internal/core/services/atoms"
	"github.com/netgauge/wifitel/internal/core/services/buffer"
	"github.com/netgauge/wifitel/internal/core/services/histogram"
	"github.com/netgauge/wifitel/internal/core/services/session"
	"github.com/netgauge/wifitel/internal/telemetry"
)

// Histogram domains. RSSI and score samples outside these bounds are
// dropped; firmware alert reasons are clamped onto the bounds instead.
const (
	rssiMin = -127
	rssiMax = 0

	scoreMin = 0
	scoreMax = 60

	alertReasonMin = 1
	alertReasonMax = 64

	maxRSSIBuckets = 128
)

// Cut-points for the interval histograms, in their native units.
var (
	connectionDurationCutsMs = []int64{0, 1000, 5000, 10000, 30000, 60000, 300000, 1800000, 3600000}
	linkSpeedCutsMbps        = []int64{0, 6, 24, 54, 150, 300, 600, 1200, 2400}
	channelUtilizationCuts   = []int64{0, 10, 25, 50, 75, 90}
	throughputCutsKbps       = []int64{0, 1000, 5000, 10000, 25000, 50000, 100000, 500000}
	lockHeldCutsMs           = []int64{0, 100, 1000, 10000, 60000, 600000}
	softApDurationCutsMs     = []int64{0, 60000, 600000, 3600000, 14400000}
)

// Config carries the store's capacity and throttle knobs.
type Config struct {
	UsabilityRingCapacity    int
	StaEventLogCapacity      int
	LinkProbeLogCapacity     int
	UnusableEventLogCapacity int
	CaptureLogCapacity       int
	UnusableEventThrottle    time.Duration
}

// DefaultConfig returns the production capacities.
func DefaultConfig() Config {
	return Config{
		UsabilityRingCapacity:    120,
		StaEventLogCapacity:      1000,
		LinkProbeLogCapacity:     200,
		UnusableEventLogCapacity: 20,
		CaptureLogCapacity:       10,
		UnusableEventThrottle:    30 * time.Second,
	}
}

// Store is the process-wide aggregation state. Construct one at wiring time
// and share it; it is never recreated.
type Store struct {
	mu      sync.Mutex
	clock   ports.Clock
	emitter *atoms.Emitter
	cfg     Config

	counters domain.Counters
	sticky   domain.StickyFields

	rssiPoll    *histogram.IntHistogram
	wifiScore   *histogram.IntHistogram
	alertReason *histogram.IntHistogram

	connectionDuration *histogram.BoundaryHistogram
	linkSpeed          *histogram.BoundaryHistogram
	channelUtilization *histogram.BoundaryHistogram
	throughput         *histogram.BoundaryHistogram
	lockHeldDuration   *histogram.BoundaryHistogram
	softApDuration     *histogram.BoundaryHistogram

	passpointProvisionFailures *histogram.KeyedCounter
	disconnectReasons          *histogram.KeyedCounter

	tracker  *session.Tracker
	sessions []domain.ConnectionSession

	staEvents      *buffer.BoundedLog[domain.StaEvent]
	linkProbes     *buffer.BoundedLog[domain.LinkProbeEvent]
	unusableEvents *buffer.BoundedLog[domain.UnusableEvent]
	captures       *buffer.BoundedLog[domain.TrainingCapture]
	usability      *buffer.RingBuffer[domain.UsabilityStatsEntry]

	// Connection-attempt classification context.
	firstConnectionDone bool
	lastFinalized       *domain.ConnectionSession
	hasLastFinalized    bool
	everConnected       bool

	// Poll context for deltas and disconnect attribution.
	lastPollEntry    domain.UsabilityStatsEntry
	hasLastPoll      bool
	lastUnusableType domain.UnusableEventType

	// Data-stall family throttle window.
	lastDataStallMillis int64
	hasDataStall        bool

	// Device mobility accounting for PNO scans. Never empty: the current
	// state always has an entry.
	mobility              map[domain.MobilityState]*domain.MobilityDuration
	currentMobility       domain.MobilityState
	mobilityEnteredMillis int64

	// External scorer registration for usability-state attribution.
	externalScorerPrincipal string
	hasExternalScorer       bool

	// Wi-Fi lock accounting, acquire timestamp per lock mode.
	lockAcquired map[int]int64

	// SoftAP accounting.
	softApStartedMillis int64
	softApRunning       bool

	// Usability-stats listener registry.
	listeners             []ports.UsabilityListener
	seq                   int
	lastNotifiedSessionID string
}

// NewStore returns a store with empty state and the current mobility state
// unknown.
func NewStore(clock ports.Clock, emitter *atoms.Emitter, cfg Config) *Store {
	s := &Store{
		clock:   clock,
		emitter: emitter,
		cfg:     cfg,

		rssiPoll:    histogram.NewIntHistogram(rssiMin, rssiMax, histogram.Drop, maxRSSIBuckets),
		wifiScore:   histogram.NewIntHistogram(scoreMin, scoreMax, histogram.Drop, 0),
		alertReason: histogram.NewIntHistogram(alertReasonMin, alertReasonMax, histogram.Clamp, 0),

		connectionDuration: histogram.NewBoundaryHistogram(connectionDurationCutsMs),
		linkSpeed:          histogram.NewBoundaryHistogram(linkSpeedCutsMbps),
		channelUtilization: histogram.NewBoundaryHistogram(channelUtilizationCuts),
		throughput:         histogram.NewBoundaryHistogram(throughputCutsKbps),
		lockHeldDuration:   histogram.NewBoundaryHistogram(lockHeldCutsMs),
		softApDuration:     histogram.NewBoundaryHistogram(softApDurationCutsMs),

		passpointProvisionFailures: histogram.NewKeyedCounter(),
		disconnectReasons:          histogram.NewKeyedCounter(),

		tracker: session.NewTracker(clock),

		staEvents:      buffer.NewBoundedLog[domain.StaEvent](cfg.StaEventLogCapacity),
		linkProbes:     buffer.NewBoundedLog[domain.LinkProbeEvent](cfg.LinkProbeLogCapacity),
		unusableEvents: buffer.NewBoundedLog[domain.UnusableEvent](cfg.UnusableEventLogCapacity),
		captures:       buffer.NewBoundedLog[domain.TrainingCapture](cfg.CaptureLogCapacity),
		usability: buffer.NewRingBuffer[domain.UsabilityStatsEntry](cfg.UsabilityRingCapacity,
			func(e domain.UsabilityStatsEntry) int64 { return e.TimeStampMillis }),

		mobility:     make(map[domain.MobilityState]*domain.MobilityDuration),
		lockAcquired: make(map[int]int64),
	}
	s.currentMobility = domain.MobilityUnknown
	s.mobilityEnteredMillis = clock.ElapsedSinceBoot().Milliseconds()
	s.mobility[s.currentMobility] = &domain.MobilityDuration{State: s.currentMobility}
	return s
}

func (s *Store) nowMillis() int64 { return s.clock.ElapsedSinceBoot().Milliseconds() }

// StartConnectionEvent opens a connection attempt on iface, superseding any
// prior active attempt there. It returns the overlap in milliseconds against
// still-active attempts on other interfaces (0 when none).
func (s *Store) StartConnectionEvent(iface string, p session.StartParams) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	overlap, abandoned := s.tracker.Start(iface, p)
	if abandoned != nil {
		s.finalizeLocked(abandoned)
	}
	telemetry.SessionsStarted.WithLabelValues(iface).Inc()
	return overlap
}

// SetConnectionScanDetail records router metadata for iface's active attempt.
func (s *Store) SetConnectionScanDetail(iface string, detail domain.ScanDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.SetScanDetail(iface, detail)
}

// SetConnectionPmkCache flags PMK caching for iface's active attempt.
func (s *Store) SetConnectionPmkCache(iface string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.SetPmkCache(iface, enabled)
}

// SetConnectionMaxSupportedLinkSpeedMbps records the supported link speeds
// for iface's active attempt.
func (s *Store) SetConnectionMaxSupportedLinkSpeedMbps(iface string, txMbps, rxMbps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.SetMaxSupportedLinkSpeed(iface, txMbps, rxMbps)
}

// SetConnectionChannelWidth records the channel width for iface's active
// attempt.
func (s *Store) SetConnectionChannelWidth(iface string, widthMhz int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.SetChannelWidth(iface, widthMhz)
}

// EndConnectionEvent finalizes iface's active attempt. Without one this is a
// logged no-op; the connection-result atom is emitted exactly once per
// attempt.
func (s *Store) EndConnectionEvent(iface string, p session.EndParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	finalized := s.tracker.End(iface, p)
	if finalized == nil {
		return
	}
	s.finalizeLocked(finalized)
}

// finalizeLocked records a finalized session, classifies it, and emits its
// connection-result atom. Caller holds s.mu.
func (s *Store) finalizeLocked(fin *domain.ConnectionSession) {
	ctx := atoms.ConnectionContext{
		FirstSinceBoot:    !s.firstConnectionDone,
		HasPrevious:       s.hasLastFinalized,
		HasNeverConnected: !s.everConnected,
	}
	if s.hasLastFinalized {
		ctx.PreviousNetworkID = s.lastFinalized.NetworkID
		ctx.PreviousEndElapsedMillis = s.lastFinalized.EndElapsedMillis
	}
	if s.hasLastPoll {
		ctx.LastRSSI = s.lastPollEntry.RSSI
	}
	ctx.IsCarrierNetwork = fin.CarrierID != 0

	fin.Trigger = atoms.ClassifyTrigger(fin.Nominator, ctx.FirstSinceBoot, ctx.HasPrevious, ctx.PreviousNetworkID, fin.NetworkID)
	fin.TimeSinceLastConnSecs = atoms.TimeSinceLastConnectionSecs(fin.StartElapsedMillis, ctx)

	s.sessions = append(s.sessions, *fin)
	s.firstConnectionDone = true
	copyFin := *fin
	s.lastFinalized = &copyFin
	s.hasLastFinalized = true

	outcome := "failure"
	if fin.Succeeded() {
		outcome = "success"
		s.everConnected = true
		s.connectionDuration.Record(fin.DurationMillis)
	} else if fin.Abandoned {
		outcome = "abandoned"
	}
	telemetry.SessionsFinalized.WithLabelValues(fin.Interface, outcome).Inc()

	s.emitter.OnConnectionEnd(*fin, ctx)
}

// NoteDisconnect records a teardown of the current connection and emits the
// disconnect atom.
func (s *Store) NoteDisconnect(iface string, reason int, connectedSecs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disconnectReasons.Increment(reason)
	s.staEvents.Append(domain.StaEvent{
		Type:            domain.StaEventDisconnect,
		TimeStampMillis: s.nowMillis(),
		Interface:       iface,
		Reason:          reason,
	})
	s.emitter.OnDisconnect(reason, connectedSecs, s.lastPollEntry, s.lastUnusableType)
}

// UpdateWifiUsabilityStatsEntries ingests one radio-link-layer poll sample:
// it lands in the ring buffer, feeds the RSSI and score histograms, and fans
// out to registered usability listeners.
func (s *Store) UpdateWifiUsabilityStatsEntries(iface string, entry domain.UsabilityStatsEntry) {
	s.mu.Lock()

	if entry.TimeStampMillis == 0 {
		entry.TimeStampMillis = s.nowMillis()
	}
	s.usability.Push(entry)
	s.rssiPoll.Record(entry.RSSI)
	s.wifiScore.Record(entry.WifiScore)
	s.linkSpeed.Record(int64(entry.LinkSpeedMbps))
	if entry.Link.OnTimeMillis > 0 {
		s.channelUtilization.Record(entry.Link.CCABusyMillis * 100 / entry.Link.OnTimeMillis)
	}
	s.lastPollEntry = entry
	s.hasLastPoll = true

	s.seq++
	seq := s.seq
	sameSession := false
	if active := s.tracker.Active(iface); active != nil {
		sameSession = active.ID == s.lastNotifiedSessionID
		s.lastNotifiedSessionID = active.ID
	} else {
		s.lastNotifiedSessionID = ""
	}
	targets := make([]ports.UsabilityListener, len(s.listeners))
	copy(targets, s.listeners)
	s.mu.Unlock()

	// Delivery happens outside the lock; listener callbacks may do I/O.
	s.deliverUsability(targets, seq, sameSession, entry)
}

// RecordThroughput feeds one measured throughput sample in kbps.
func (s *Store) RecordThroughput(kbps int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.throughput.Record(kbps)
}

// LogWifiIsUnusableEvent records a discrete link-degraded report. The three
// data-stall subtypes share one minimum inter-arrival throttle window;
// firmware-alert and ip-reachability-lost reports are exempt.
func (s *Store) LogWifiIsUnusableEvent(eventType domain.UnusableEventType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMillis()
	if eventType.IsDataStall() {
		if s.hasDataStall && now-s.lastDataStallMillis < s.cfg.UnusableEventThrottle.Milliseconds() {
			s.counters.UnusableEventsThrottled++
			telemetry.UnusableEvents.WithLabelValues("throttled").Inc()
			return
		}
		s.lastDataStallMillis = now
		s.hasDataStall = true
	}

	ev := domain.UnusableEvent{
		Type:            eventType,
		TimeStampMillis: now,
	}
	if s.hasLastPoll {
		ev.TxSuccessDelta = s.lastPollEntry.Link.TxSuccess
		ev.TxRetriesDelta = s.lastPollEntry.Link.TxRetries
		ev.TxBadDelta = s.lastPollEntry.Link.TxBad
		ev.RxSuccessDelta = s.lastPollEntry.Link.RxSuccess
		ev.LastScore = s.lastPollEntry.WifiScore
		ev.LastLinkSpeedMbps = s.lastPollEntry.LinkSpeedMbps
	}
	s.unusableEvents.Append(ev)
	s.counters.UnusableEventsAccepted++
	s.lastUnusableType = eventType
	if eventType == domain.UnusableIPReachabilityLost {
		s.counters.IPReachabilityLost++
	}
	telemetry.UnusableEvents.WithLabelValues("accepted").Inc()
}

// LogFirmwareAlert records a firmware alert reason. Out-of-range reasons are
// clamped onto the domain bounds rather than dropped.
func (s *Store) LogFirmwareAlert(iface string, reason int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters.FirmwareAlerts++
	s.alertReason.Record(reason)
	s.staEvents.Append(domain.StaEvent{
		Type:            domain.StaEventFirmwareAlert,
		TimeStampMillis: s.nowMillis(),
		Interface:       iface,
		Reason:          reason,
	})
}

// LogStaEvent appends one entry to the general station event log
// (first-N-win).
func (s *Store) LogStaEvent(ev domain.StaEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.TimeStampMillis == 0 {
		ev.TimeStampMillis = s.nowMillis()
	}
	s.staEvents.Append(ev)
}

// LogLinkProbeSuccess records a successful link probe round trip. The probe
// log is capped independently of the general event log.
func (s *Store) LogLinkProbeSuccess(elapsedMicros, sinceTxSuccessMs int64, rssi, linkSpeedMbps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.LinkProbeSuccesses++
	s.linkProbes.Append(domain.LinkProbeEvent{
		TimeStampMillis:  s.nowMillis(),
		Success:          true,
		ElapsedMicros:    elapsedMicros,
		RSSI:             rssi,
		LinkSpeedMbps:    linkSpeedMbps,
		SinceTxSuccessMs: sinceTxSuccessMs,
	})
}

// LogLinkProbeFailure records a failed link probe.
func (s *Store) LogLinkProbeFailure(failureReason int, sinceTxSuccessMs int64, rssi, linkSpeedMbps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.LinkProbeFailures++
	s.linkProbes.Append(domain.LinkProbeEvent{
		TimeStampMillis:  s.nowMillis(),
		Success:          false,
		FailureReason:    failureReason,
		RSSI:             rssi,
		LinkSpeedMbps:    linkSpeedMbps,
		SinceTxSuccessMs: sinceTxSuccessMs,
	})
}

// NoteScanComplete counts a completed scan and emits the scan-reported atom.
func (s *Store) NoteScanComplete(oneshot bool, resultCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oneshot {
		s.counters.OneshotScans++
	} else {
		s.counters.BackgroundScans++
	}
	if resultCount == 0 {
		s.counters.EmptyScanResults++
	}
	s.emitter.OnScanReported(oneshot, resultCount)
}

// NoteScanFailure counts a failed scan.
func (s *Store) NoteScanFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.ScanFailures++
	s.staEvents.Append(domain.StaEvent{Type: domain.StaEventScanFailed, TimeStampMillis: s.nowMillis()})
}

// NoteUsabilityStateReport emits the scorer-prediction atom for an external
// scorer's judgement, or for the system default when none is registered.
func (s *Store) NoteUsabilityStateReport(usable bool) {
	s.mu.Lock()
	principal := s.externalScorerPrincipal
	hasScorer := s.hasExternalScorer
	entry := s.lastPollEntry
	s.mu.Unlock()

	s.emitter.OnUsabilityStateReport(principal, hasScorer, usable, entry.WifiScore, entry.RSSI)
}

// SetExternalScorer registers the external scorer principal used for
// usability-state attribution.
func (s *Store) SetExternalScorer(principal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externalScorerPrincipal = principal
	s.hasExternalScorer = principal != ""
}

// ClearExternalScorer removes the external scorer registration.
func (s *Store) ClearExternalScorer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externalScorerPrincipal = ""
	s.hasExternalScorer = false
}

// NoteWifiHealthPoll emits the periodic wifi-health atom from the latest
// poll sample.
func (s *Store) NoteWifiHealthPoll(connected bool) {
	s.mu.Lock()
	entry := s.lastPollEntry
	s.mu.Unlock()
	s.emitter.OnHealthPoll(connected, entry, entry.Link.TxBad, entry.Link.TxSuccess, entry.Link.RxSuccess)
}

// EnterDeviceMobilityState rolls the accumulated duration of the current
// mobility state and switches to the new one.
func (s *Store) EnterDeviceMobilityState(state domain.MobilityState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMillis()
	s.rollMobilityLocked(now)
	s.currentMobility = state
	s.mobilityEnteredMillis = now
	if _, ok := s.mobility[state]; !ok {
		s.mobility[state] = &domain.MobilityDuration{State: state}
	}
}

// NotePnoScan counts one PNO scan against the current mobility state.
func (s *Store) NotePnoScan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mobility[s.currentMobility].PnoScanCount++
}

// rollMobilityLocked folds elapsed time into the current state's
// accumulated duration. Caller holds s.mu.
func (s *Store) rollMobilityLocked(now int64) {
	s.mobility[s.currentMobility].DurationMillis += now - s.mobilityEnteredMillis
	s.mobilityEnteredMillis = now
}

// NoteLockAcquired records a wifi-lock acquire and emits its atom.
func (s *Store) NoteLockAcquired(mode int, lowLatency bool) {
	s.mu.Lock()
	s.lockAcquired[mode] = s.nowMillis()
	s.mu.Unlock()
	s.emitter.OnLockAcquired(mode, lowLatency)
}

// NoteLockReleased records a wifi-lock release, folds the held duration into
// its histogram, and emits the release atom. A release without a matching
// acquire is a no-op.
func (s *Store) NoteLockReleased(mode int, lowLatency bool) {
	s.mu.Lock()
	acquired, ok := s.lockAcquired[mode]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.lockAcquired, mode)
	held := s.nowMillis() - acquired
	s.lockHeldDuration.Record(held)
	s.mu.Unlock()
	s.emitter.OnLockReleased(mode, held, lowLatency)
}

// NoteSoftApStarted counts a SoftAP start.
func (s *Store) NoteSoftApStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.SoftApStarts++
	s.softApStartedMillis = s.nowMillis()
	s.softApRunning = true
}

// NoteSoftApStopped counts a SoftAP stop and folds the run duration into its
// histogram. A stop without a running SoftAP still counts the stop.
func (s *Store) NoteSoftApStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.SoftApStops++
	if s.softApRunning {
		s.softApDuration.Record(s.nowMillis() - s.softApStartedMillis)
		s.softApRunning = false
	}
}

// NotePasspointProvision counts a Passpoint provisioning outcome; failures
// are keyed by their failure code.
func (s *Store) NotePasspointProvision(success bool, failureCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if success {
		s.counters.PasspointProvisionOK++
		return
	}
	s.passpointProvisionFailures.Increment(failureCode)
}

// NoteWifiToggle counts a wifi on/off toggle.
func (s *Store) NoteWifiToggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.WifiToggles++
}

// NoteWatchdogTrigger counts a connectivity watchdog trigger.
func (s *Store) NoteWatchdogTrigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.WatchdogTriggers++
}

// NoteStateChanged emits the client state transition atom and logs it.
func (s *Store) NoteStateChanged(state int, iface string, connected bool) {
	s.mu.Lock()
	s.staEvents.Append(domain.StaEvent{
		Type:            domain.StaEventAssociation,
		TimeStampMillis: s.nowMillis(),
		Interface:       iface,
		Reason:          state,
	})
	s.mu.Unlock()
	s.emitter.OnStateChanged(state, iface, connected)
}

// NoteConfigSaved emits the config-saved atom.
func (s *Store) NoteConfigSaved(auth domain.AuthType, hidden, metered bool, totalSaved int) {
	s.emitter.OnConfigSaved(auth, hidden, metered, totalSaved)
}

// NoteAirplaneModeSession emits the airplane-mode toggle atom.
func (s *Store) NoteAirplaneModeSession(enabled bool, wifiOnBeforeMillis int64, wifiStayedOn bool) {
	s.emitter.OnAirplaneModeSession(enabled, wifiOnBeforeMillis, wifiStayedOn)
}

// SetBlocklistSize updates the sticky notification-blocklist size.
func (s *Store) SetBlocklistSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sticky.BlocklistSize = size
}

// SetNotificationsEnabled updates the sticky notifications flag.
func (s *Store) SetNotificationsEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sticky.NotificationsEnabled = enabled
}

// SetAdaptiveConnectivityEnabled updates the sticky adaptive-connectivity
// flag.
func (s *Store) SetAdaptiveConnectivityEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sticky.AdaptiveConnectivityEnabled = enabled
}

// SessionCount returns the number of finalized sessions accumulated since
// the last dump.
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
