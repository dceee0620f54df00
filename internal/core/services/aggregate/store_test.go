package aggregate

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/services/atoms"
	"github.com/netgauge/wifitel/internal/core/services/session"
)

type fakeClock struct {
	elapsed time.Duration
	wall    time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		elapsed: 10 * time.Second,
		wall:    time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func (c *fakeClock) Now() time.Time                  { return c.wall.Add(c.elapsed) }
func (c *fakeClock) ElapsedSinceBoot() time.Duration { return c.elapsed }
func (c *fakeClock) advance(d time.Duration)         { c.elapsed += d }

type recordingSink struct {
	atoms []domain.Atom
}

func (s *recordingSink) Write(a domain.Atom) error {
	s.atoms = append(s.atoms, a)
	return nil
}

func (s *recordingSink) countByType(t domain.AtomType) int {
	n := 0
	for _, a := range s.atoms {
		if a.AtomType() == t {
			n++
		}
	}
	return n
}

func newTestStore() (*Store, *fakeClock, *recordingSink) {
	clock := newFakeClock()
	sink := &recordingSink{}
	store := NewStore(clock, atoms.NewEmitter(sink), DefaultConfig())
	return store, clock, sink
}

func TestSessionLifecycleScenario(t *testing.T) {
	store, clock, sink := newTestStore()

	// start RED, end it, end again without a start, then BLUE superseded by
	// GREEN. Exactly two finalized sessions, no crash anywhere.
	store.StartConnectionEvent("wlan0", session.StartParams{SSID: "RED"})
	clock.advance(time.Second)
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureAuthenticationFailure})
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureAuthenticationFailure})
	store.StartConnectionEvent("wlan0", session.StartParams{SSID: "BLUE"})
	clock.advance(time.Second)
	store.StartConnectionEvent("wlan0", session.StartParams{SSID: "GREEN"})

	snap := store.Snapshot(domain.DumpVerbose)
	require.Len(t, snap.Sessions, 2)
	assert.Equal(t, "RED", snap.Sessions[0].SSID)
	assert.Equal(t, "BLUE", snap.Sessions[1].SSID)
	assert.True(t, snap.Sessions[1].Abandoned)
	assert.Equal(t, domain.FailureNewConnectionAttempt, snap.Sessions[1].FailureCode)

	// One connection-result atom per finalized session, none for the double
	// end.
	assert.Equal(t, 2, sink.countByType(domain.AtomConnectionResult))
}

func TestDoubleEndEmitsOnce(t *testing.T) {
	store, _, sink := newTestStore()

	store.StartConnectionEvent("wlan0", session.StartParams{SSID: "X"})
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureNone})
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureNone})

	assert.Equal(t, 1, sink.countByType(domain.AtomConnectionResult))
	assert.Equal(t, 1, store.SessionCount())
}

func TestSettersOnUnknownInterfaceNeverPanic(t *testing.T) {
	store, _, _ := newTestStore()

	store.SetConnectionScanDetail("bogus", domain.ScanDetail{DTIMPeriod: 1})
	store.SetConnectionPmkCache("", true)
	store.SetConnectionMaxSupportedLinkSpeedMbps("\xff", 100, 100)
	store.SetConnectionChannelWidth("wlan7", 160)

	assert.Zero(t, store.SessionCount())
}

func TestTriggerClassificationAcrossSessions(t *testing.T) {
	store, clock, sink := newTestStore()

	// First connection since boot.
	store.StartConnectionEvent("wlan0", session.StartParams{NetworkID: 5, Nominator: domain.NominatorSaved})
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureNone})
	clock.advance(30 * time.Second)

	// Same network again: reconnect.
	store.StartConnectionEvent("wlan0", session.StartParams{NetworkID: 5, Nominator: domain.NominatorSaved})
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureNone})

	// Manual wins regardless of recency.
	store.StartConnectionEvent("wlan0", session.StartParams{NetworkID: 5, Nominator: domain.NominatorManual})
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureNone})

	var results []domain.ConnectionResultAtom
	for _, a := range sink.atoms {
		if r, ok := a.(domain.ConnectionResultAtom); ok {
			results = append(results, r)
		}
	}
	require.Len(t, results, 3)
	assert.Equal(t, domain.TriggerBootAutoconnect, results[0].Trigger)
	assert.Equal(t, domain.TriggerReconnectSameNetwork, results[1].Trigger)
	assert.Equal(t, domain.TriggerManual, results[2].Trigger)

	assert.Equal(t, int64(0), results[0].TimeSinceLastConnSecs)
	assert.Equal(t, int64(30), results[1].TimeSinceLastConnSecs)
}

func TestDumpRoundTrip(t *testing.T) {
	store, clock, _ := newTestStore()

	store.SetBlocklistSize(7)
	store.SetNotificationsEnabled(true)
	store.NoteScanComplete(true, 12)
	store.NoteScanComplete(false, 0)
	store.LogFirmwareAlert("wlan0", 3)
	store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{RSSI: -60, WifiScore: 50})
	clock.advance(time.Second)

	first := store.Snapshot(domain.DumpVerbose)
	assert.Equal(t, int64(1), first.Counters.OneshotScans)
	assert.Equal(t, int64(1), first.Counters.BackgroundScans)
	assert.Equal(t, int64(1), first.Counters.EmptyScanResults)
	assert.Equal(t, int64(1), first.Counters.FirmwareAlerts)
	assert.NotEmpty(t, first.RSSIPoll)
	assert.Equal(t, 7, first.Sticky.BlocklistSize)

	// A second dump with no intervening mutation: all non-sticky state is
	// zero/empty, sticky fields unchanged.
	second := store.Snapshot(domain.DumpVerbose)
	assert.Equal(t, domain.Counters{}, second.Counters)
	assert.Empty(t, second.RSSIPoll)
	assert.Empty(t, second.WifiScore)
	assert.Empty(t, second.AlertReason)
	assert.Empty(t, second.Sessions)
	assert.Empty(t, second.StaEvents)
	assert.Empty(t, second.Captures)
	assert.Equal(t, 7, second.Sticky.BlocklistSize)
	assert.True(t, second.Sticky.NotificationsEnabled)
}

func TestActiveSessionSurvivesDump(t *testing.T) {
	store, clock, _ := newTestStore()

	store.StartConnectionEvent("wlan0", session.StartParams{SSID: "KEEP"})
	first := store.Snapshot(domain.DumpVerbose)
	assert.Empty(t, first.Sessions)
	require.Len(t, store.ActiveSessions(), 1)

	clock.advance(5 * time.Second)
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureNone})

	second := store.Snapshot(domain.DumpVerbose)
	require.Len(t, second.Sessions, 1)
	assert.Equal(t, "KEEP", second.Sessions[0].SSID)
	assert.Empty(t, store.ActiveSessions())
}

func TestMobilityNeverEmptyAfterClear(t *testing.T) {
	store, clock, _ := newTestStore()

	store.EnterDeviceMobilityState(domain.MobilityStationary)
	clock.advance(10 * time.Second)
	store.NotePnoScan()

	first := store.Snapshot(domain.DumpVerbose)
	require.NotEmpty(t, first.Mobility)
	var stationary *domain.MobilityDuration
	for i := range first.Mobility {
		if first.Mobility[i].State == domain.MobilityStationary {
			stationary = &first.Mobility[i]
		}
	}
	require.NotNil(t, stationary)
	assert.Equal(t, int64(10000), stationary.DurationMillis)
	assert.Equal(t, int64(1), stationary.PnoScanCount)

	second := store.Snapshot(domain.DumpVerbose)
	require.Len(t, second.Mobility, 1)
	assert.Equal(t, domain.MobilityStationary, second.Mobility[0].State)
	assert.Zero(t, second.Mobility[0].DurationMillis)
}

func TestUnusableEventThrottle(t *testing.T) {
	store, clock, _ := newTestStore()

	store.LogWifiIsUnusableEvent(domain.UnusableDataStallBadTx)
	// Different data-stall subtype, same throttle family: suppressed.
	clock.advance(5 * time.Second)
	store.LogWifiIsUnusableEvent(domain.UnusableDataStallTxWithoutRx)
	// Firmware alerts and ip-reachability-lost bypass the window.
	store.LogWifiIsUnusableEvent(domain.UnusableFirmwareAlert)
	store.LogWifiIsUnusableEvent(domain.UnusableIPReachabilityLost)
	// Past the window the family records again.
	clock.advance(31 * time.Second)
	store.LogWifiIsUnusableEvent(domain.UnusableDataStallBoth)

	snap := store.Snapshot(domain.DumpVerbose)
	assert.Equal(t, int64(4), snap.Counters.UnusableEventsAccepted)
	assert.Equal(t, int64(1), snap.Counters.UnusableEventsThrottled)
	assert.Equal(t, int64(1), snap.Counters.IPReachabilityLost)
	require.Len(t, snap.UnusableEvents, 4)
	assert.Equal(t, domain.UnusableDataStallBadTx, snap.UnusableEvents[0].Type)
	assert.Equal(t, domain.UnusableDataStallBoth, snap.UnusableEvents[3].Type)
}

func TestFirmwareAlertClamping(t *testing.T) {
	store, _, _ := newTestStore()

	for _, reason := range []int{0, 65, 1, 1, 1, 2} {
		store.LogFirmwareAlert("wlan0", reason)
	}

	snap := store.Snapshot(domain.DumpVerbose)
	require.Len(t, snap.AlertReason, 3)
	assert.Equal(t, domain.ValueCount{Value: 1, Count: 4}, snap.AlertReason[0])
	assert.Equal(t, domain.ValueCount{Value: 2, Count: 1}, snap.AlertReason[1])
	assert.Equal(t, domain.ValueCount{Value: 64, Count: 1}, snap.AlertReason[2])
}

func TestLinkProbeLogIndependentOfStaEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinkProbeLogCapacity = 2
	clock := newFakeClock()
	store := NewStore(clock, atoms.NewEmitter(&recordingSink{}), cfg)

	store.LogLinkProbeSuccess(400, 100, -55, 433)
	store.LogLinkProbeFailure(2, 900, -70, 120)
	store.LogLinkProbeSuccess(500, 150, -56, 433) // beyond cap, dropped
	store.LogStaEvent(domain.StaEvent{Type: domain.StaEventAssociation})

	snap := store.Snapshot(domain.DumpVerbose)
	assert.Equal(t, int64(2), snap.Counters.LinkProbeSuccesses)
	assert.Equal(t, int64(1), snap.Counters.LinkProbeFailures)
	require.Len(t, snap.LinkProbeEvents, 2)
	assert.True(t, snap.LinkProbeEvents[0].Success)
	assert.False(t, snap.LinkProbeEvents[1].Success)
	assert.Len(t, snap.StaEvents, 1)
}

func TestLockAccounting(t *testing.T) {
	store, clock, sink := newTestStore()

	store.NoteLockAcquired(1, false)
	clock.advance(1500 * time.Millisecond)
	store.NoteLockReleased(1, false)
	// Release without acquire: no-op.
	store.NoteLockReleased(2, true)

	assert.Equal(t, 1, sink.countByType(domain.AtomLockAcquired))
	assert.Equal(t, 1, sink.countByType(domain.AtomLockReleased))

	snap := store.Snapshot(domain.DumpVerbose)
	require.Len(t, snap.LockHeldDuration, 1)
	assert.Equal(t, int64(1000), snap.LockHeldDuration[0].StartInclusive)
}

func TestSoftApAccounting(t *testing.T) {
	store, clock, _ := newTestStore()

	store.NoteSoftApStarted()
	clock.advance(2 * time.Minute)
	store.NoteSoftApStopped()
	store.NoteSoftApStopped() // not running, counts the stop only

	snap := store.Snapshot(domain.DumpVerbose)
	assert.Equal(t, int64(1), snap.Counters.SoftApStarts)
	assert.Equal(t, int64(2), snap.Counters.SoftApStops)
	require.Len(t, snap.SoftApDuration, 1)
	assert.Equal(t, int64(60000), snap.SoftApDuration[0].StartInclusive)
}

func TestPasspointProvisionCounters(t *testing.T) {
	store, _, _ := newTestStore()

	store.NotePasspointProvision(true, 0)
	store.NotePasspointProvision(false, 3)
	store.NotePasspointProvision(false, 3)
	store.NotePasspointProvision(false, 9)

	snap := store.Snapshot(domain.DumpVerbose)
	assert.Equal(t, int64(1), snap.Counters.PasspointProvisionOK)
	require.Len(t, snap.PasspointProvisionFailures, 2)
	assert.Equal(t, domain.KeyedCount{Key: 3, Count: 2}, snap.PasspointProvisionFailures[0])
	assert.Equal(t, domain.KeyedCount{Key: 9, Count: 1}, snap.PasspointProvisionFailures[1])
}

func TestDisconnectRecordsReasonAndAtom(t *testing.T) {
	store, _, sink := newTestStore()

	store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{RSSI: -65, WifiScore: 40, LinkSpeedMbps: 433})
	store.LogWifiIsUnusableEvent(domain.UnusableDataStallBadTx)
	store.NoteDisconnect("wlan0", 8, 120)

	require.Equal(t, 1, sink.countByType(domain.AtomDisconnect))
	var d domain.DisconnectAtom
	for _, a := range sink.atoms {
		if v, ok := a.(domain.DisconnectAtom); ok {
			d = v
		}
	}
	assert.Equal(t, 8, d.Reason)
	assert.Equal(t, -65, d.RSSI)
	assert.Equal(t, domain.CategoryDataStall, d.UnusableCategory)

	snap := store.Snapshot(domain.DumpVerbose)
	require.Len(t, snap.DisconnectReasons, 1)
	assert.Equal(t, domain.KeyedCount{Key: 8, Count: 1}, snap.DisconnectReasons[0])
}

func TestRSSIHistogramScenario(t *testing.T) {
	store, _, _ := newTestStore()

	for i := 0; i < 20; i++ {
		for n := 0; n <= i; n++ {
			store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{
				TimeStampMillis: int64(1000 + i*100 + n),
				RSSI:            -127 + i,
			})
		}
	}

	snap := store.Snapshot(domain.DumpVerbose)
	require.Len(t, snap.RSSIPoll, 20)
	for i, e := range snap.RSSIPoll {
		assert.Equal(t, -127+i, e.Value)
		assert.Equal(t, int64(i+1), e.Count)
	}
}

// failingListener fails after a configurable number of deliveries.
type failingListener struct {
	id        string
	failAfter int
	delivered int
}

func (l *failingListener) ID() string { return l.id }

func (l *failingListener) OnUsabilityStats(seq int, sameSession bool, entry domain.UsabilityStatsEntry) error {
	l.delivered++
	if l.delivered > l.failAfter {
		return errors.New("remote gone")
	}
	return nil
}

func TestDeadListenerIsRemovedOthersSurvive(t *testing.T) {
	store, _, _ := newTestStore()

	healthy := &failingListener{id: "healthy", failAfter: 1 << 30}
	dying := &failingListener{id: "dying", failAfter: 1}
	store.AddOnWifiUsabilityListener(healthy)
	store.AddOnWifiUsabilityListener(dying)
	require.Equal(t, 2, store.ListenerCount())

	store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{RSSI: -50})
	assert.Equal(t, 2, store.ListenerCount())

	// Second delivery kills the dying listener; the healthy one keeps
	// receiving.
	store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{RSSI: -51})
	assert.Equal(t, 1, store.ListenerCount())

	store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{RSSI: -52})
	assert.Equal(t, 3, healthy.delivered)
}

func TestListenerReRegistrationReplaces(t *testing.T) {
	store, _, _ := newTestStore()

	store.AddOnWifiUsabilityListener(&failingListener{id: "a"})
	store.AddOnWifiUsabilityListener(&failingListener{id: "a"})
	assert.Equal(t, 1, store.ListenerCount())

	store.RemoveOnWifiUsabilityListener("a")
	store.RemoveOnWifiUsabilityListener("never-registered")
	assert.Equal(t, 0, store.ListenerCount())
}

func TestUsabilityRingBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UsabilityRingCapacity = 5
	store := NewStore(newFakeClock(), atoms.NewEmitter(&recordingSink{}), cfg)

	for i := 0; i < 9; i++ {
		store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{
			TimeStampMillis: int64(1000 + i),
			RSSI:            -60,
		})
	}

	store.StoreCapturedData(1, true, 0, 0)
	snap := store.Snapshot(domain.DumpVerbose)
	require.Len(t, snap.Captures, 1)
	require.Len(t, snap.Captures[0].Entries, 5)
	// Last 5 pushed, in push order, offsets relative to the oldest retained.
	for i, e := range snap.Captures[0].Entries {
		assert.Equal(t, int64(i), e.TimestampOffsetMs, fmt.Sprintf("entry %d", i))
	}
}

func TestUsabilityScoreOutOfDomainDropped(t *testing.T) {
	store, _, _ := newTestStore()

	store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{RSSI: -60, WifiScore: 61})
	store.UpdateWifiUsabilityStatsEntries("wlan0", domain.UsabilityStatsEntry{RSSI: 5, WifiScore: 30})

	snap := store.Snapshot(domain.DumpVerbose)
	// Score 61 dropped, RSSI 5 dropped; the valid halves still recorded.
	require.Len(t, snap.WifiScore, 1)
	assert.Equal(t, 30, snap.WifiScore[0].Value)
	require.Len(t, snap.RSSIPoll, 1)
	assert.Equal(t, -60, snap.RSSIPoll[0].Value)
}
