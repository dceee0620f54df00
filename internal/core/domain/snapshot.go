package domain

import "time"

// DumpMode selects the dump rendering. Unrecognized input falls back to
// DumpVerbose.
type DumpMode int

const (
	DumpVerbose DumpMode = iota
	DumpStructuredClean
	DumpStructuredVerbose
)

// ParseDumpMode maps the external mode flag onto a DumpMode, falling back to
// DumpVerbose for anything it does not recognize.
func ParseDumpMode(s string) DumpMode {
	switch s {
	case "structured-clean":
		return DumpStructuredClean
	case "structured-verbose":
		return DumpStructuredVerbose
	}
	return DumpVerbose
}

// ValueCount is one sparse histogram entry keyed by a raw sample value.
type ValueCount struct {
	Value int   `json:"value"`
	Count int64 `json:"count"`
}

// RangeCount is one sparse histogram entry keyed by a half-open interval
// [StartInclusive, EndExclusive). The top bucket has EndExclusive == 0 with
// Open == true.
type RangeCount struct {
	StartInclusive int64 `json:"start"`
	EndExclusive   int64 `json:"end"`
	Open           bool  `json:"open,omitempty"`
	Count          int64 `json:"count"`
}

// KeyedCount is one entry of an enum-keyed counter map.
type KeyedCount struct {
	Key   int   `json:"key"`
	Count int64 `json:"count"`
}

// Counters is the scalar counter block of the store. All counters reset to
// zero on dump.
type Counters struct {
	OneshotScans           int64 `json:"oneshotScans"`
	BackgroundScans        int64 `json:"backgroundScans"`
	EmptyScanResults       int64 `json:"emptyScanResults"`
	ScanFailures           int64 `json:"scanFailures"`
	FirmwareAlerts         int64 `json:"firmwareAlerts"`
	IPReachabilityLost     int64 `json:"ipReachabilityLost"`
	LinkProbeSuccesses     int64 `json:"linkProbeSuccesses"`
	LinkProbeFailures      int64 `json:"linkProbeFailures"`
	SoftApStarts           int64 `json:"softApStarts"`
	SoftApStops            int64 `json:"softApStops"`
	PasspointProvisionOK   int64 `json:"passpointProvisionOk"`
	WifiToggles            int64 `json:"wifiToggles"`
	WatchdogTriggers       int64 `json:"watchdogTriggers"`
	UnusableEventsAccepted int64 `json:"unusableEventsAccepted"`
	UnusableEventsThrottled int64 `json:"unusableEventsThrottled"`
}

// StickyFields is the dump-survivor subset of the store. These persist
// unchanged across a snapshot-triggered clear.
type StickyFields struct {
	BlocklistSize               int  `json:"blocklistSize"`
	NotificationsEnabled        bool `json:"notificationsEnabled"`
	AdaptiveConnectivityEnabled bool `json:"adaptiveConnectivityEnabled"`
}

// TrainingCapture is one time-windowed extraction from the usability ring
// buffer (see AggregationStore.StoreCapturedData). Entry timestamps are
// zeroed and replaced by offsets relative to the trigger start.
type TrainingCapture struct {
	CaptureType              int                   `json:"captureType"`
	FullCapture              bool                  `json:"fullCapture"`
	StoreTimeOffsetMillis    int64                 `json:"storeTimeOffsetMs"`
	CaptureStartTimestampSecs int64                `json:"captureStartTimestampSecs"`
	Entries                  []UsabilityStatsEntry `json:"entries"`
}

// SnapshotSummary is the archive listing row for one persisted snapshot.
type SnapshotSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	SessionCount int       `json:"sessionCount"`
	StaEventCount int      `json:"staEventCount"`
	CaptureCount int       `json:"captureCount"`
}

// Snapshot is the immutable freeze of the store taken by a dump. Everything
// it references is a copy; the live store keeps mutating after the freeze.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Counters Counters     `json:"counters"`
	Sticky   StickyFields `json:"sticky"`

	RSSIPoll         []ValueCount `json:"rssiPoll"`
	WifiScore        []ValueCount `json:"wifiScore"`
	AlertReason      []ValueCount `json:"alertReason"`
	ConnectionDuration []RangeCount `json:"connectionDuration"`
	LinkSpeed          []RangeCount `json:"linkSpeed"`
	ChannelUtilization []RangeCount `json:"channelUtilization"`
	Throughput         []RangeCount `json:"throughput"`
	LockHeldDuration   []RangeCount `json:"lockHeldDuration"`
	SoftApDuration     []RangeCount `json:"softApDuration"`

	PasspointProvisionFailures []KeyedCount `json:"passpointProvisionFailures"`
	DisconnectReasons          []KeyedCount `json:"disconnectReasons"`

	Sessions        []ConnectionSession `json:"sessions"`
	StaEvents       []StaEvent          `json:"staEvents"`
	LinkProbeEvents []LinkProbeEvent    `json:"linkProbeEvents"`
	UnusableEvents  []UnusableEvent     `json:"unusableEvents"`
	Mobility        []MobilityDuration  `json:"mobility"`
	Captures        []TrainingCapture   `json:"captures"`
}
