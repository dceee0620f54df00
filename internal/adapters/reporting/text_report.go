// Package reporting renders dump snapshots for the three report modes: a
// verbose human-readable text report, a framed structured payload for
// log-scraper extraction, and a PDF summary.
package reporting

import (
	"fmt"
	"io"

	"github.com/netgauge/wifitel/internal/core/domain"
)

// WriteTextReport writes the verbose human-readable report for snap.
// activeSessions are the not-yet-finalized sessions that survived the dump.
func WriteTextReport(w io.Writer, snap domain.Snapshot, activeSessions []domain.ConnectionSession) error {
	p := &printer{w: w}

	p.printf("WifiTelemetry snapshot %s taken %s\n", snap.ID, snap.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	p.printf("\n-- Counters --\n")
	p.printf("oneshot scans: %d\n", snap.Counters.OneshotScans)
	p.printf("background scans: %d\n", snap.Counters.BackgroundScans)
	p.printf("empty scan results: %d\n", snap.Counters.EmptyScanResults)
	p.printf("scan failures: %d\n", snap.Counters.ScanFailures)
	p.printf("firmware alerts: %d\n", snap.Counters.FirmwareAlerts)
	p.printf("ip reachability lost: %d\n", snap.Counters.IPReachabilityLost)
	p.printf("link probes: %d ok / %d failed\n", snap.Counters.LinkProbeSuccesses, snap.Counters.LinkProbeFailures)
	p.printf("soft ap: %d starts / %d stops\n", snap.Counters.SoftApStarts, snap.Counters.SoftApStops)
	p.printf("passpoint provisions ok: %d\n", snap.Counters.PasspointProvisionOK)
	p.printf("wifi toggles: %d\n", snap.Counters.WifiToggles)
	p.printf("watchdog triggers: %d\n", snap.Counters.WatchdogTriggers)
	p.printf("unusable events: %d accepted / %d throttled\n",
		snap.Counters.UnusableEventsAccepted, snap.Counters.UnusableEventsThrottled)

	p.printf("\n-- Sticky --\n")
	p.printf("blocklist size: %d\n", snap.Sticky.BlocklistSize)
	p.printf("notifications enabled: %t\n", snap.Sticky.NotificationsEnabled)
	p.printf("adaptive connectivity enabled: %t\n", snap.Sticky.AdaptiveConnectivityEnabled)

	p.valueHistogram("RSSI poll counts", snap.RSSIPoll)
	p.valueHistogram("wifi score counts", snap.WifiScore)
	p.valueHistogram("firmware alert reasons", snap.AlertReason)
	p.rangeHistogram("connection duration ms", snap.ConnectionDuration)
	p.rangeHistogram("link speed mbps", snap.LinkSpeed)
	p.rangeHistogram("channel utilization pct", snap.ChannelUtilization)
	p.rangeHistogram("throughput kbps", snap.Throughput)
	p.rangeHistogram("lock held ms", snap.LockHeldDuration)
	p.rangeHistogram("soft ap duration ms", snap.SoftApDuration)

	p.keyedCounts("passpoint provision failures", snap.PasspointProvisionFailures)
	p.keyedCounts("disconnect reasons", snap.DisconnectReasons)

	p.printf("\n-- Mobility (%d states) --\n", len(snap.Mobility))
	for _, m := range snap.Mobility {
		p.printf("state %d: %d ms, %d pno scans\n", m.State, m.DurationMillis, m.PnoScanCount)
	}

	p.printf("\n-- Sessions (%d finalized, %d active) --\n", len(snap.Sessions), len(activeSessions))
	for _, s := range snap.Sessions {
		p.session(s)
	}
	for _, s := range activeSessions {
		p.printf("ACTIVE %s iface=%s ssid=%q started@%dms\n", s.ID, s.Interface, s.SSID, s.StartElapsedMillis)
	}

	p.printf("\n-- Event logs --\n")
	p.printf("sta events: %d\n", len(snap.StaEvents))
	p.printf("link probe events: %d\n", len(snap.LinkProbeEvents))
	p.printf("unusable events: %d\n", len(snap.UnusableEvents))
	for _, ev := range snap.UnusableEvents {
		p.printf("  unusable type=%d @%dms score=%d\n", ev.Type, ev.TimeStampMillis, ev.LastScore)
	}
	p.printf("training captures: %d\n", len(snap.Captures))
	for _, c := range snap.Captures {
		p.printf("  capture type=%d full=%t entries=%d storeOffset=%dms\n",
			c.CaptureType, c.FullCapture, len(c.Entries), c.StoreTimeOffsetMillis)
	}

	return p.err
}

// printer accumulates the first write error so report code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) valueHistogram(title string, entries []domain.ValueCount) {
	if len(entries) == 0 {
		return
	}
	p.printf("\n-- %s --\n", title)
	for _, e := range entries {
		p.printf("%d: %d\n", e.Value, e.Count)
	}
}

func (p *printer) rangeHistogram(title string, entries []domain.RangeCount) {
	if len(entries) == 0 {
		return
	}
	p.printf("\n-- %s --\n", title)
	for _, e := range entries {
		if e.Open {
			p.printf("[%d, inf): %d\n", e.StartInclusive, e.Count)
		} else {
			p.printf("[%d, %d): %d\n", e.StartInclusive, e.EndExclusive, e.Count)
		}
	}
}

func (p *printer) keyedCounts(title string, entries []domain.KeyedCount) {
	if len(entries) == 0 {
		return
	}
	p.printf("\n-- %s --\n", title)
	for _, e := range entries {
		p.printf("key %d: %d\n", e.Key, e.Count)
	}
}

func (p *printer) session(s domain.ConnectionSession) {
	outcome := "FAILED"
	if s.Succeeded() {
		outcome = "OK"
	} else if s.Abandoned {
		outcome = "ABANDONED"
	}
	p.printf("%s %s iface=%s ssid=%q net=%d dur=%dms code=%d trigger=%d nominator=%d\n",
		outcome, s.ID, s.Interface, s.SSID, s.NetworkID, s.DurationMillis,
		s.FailureCode, s.Trigger, s.Nominator)
}
