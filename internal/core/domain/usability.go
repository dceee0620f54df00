package domain

// UnusableEventType tags a discrete "link degraded" report from a producer.
type UnusableEventType int

const (
	UnusableUnknown UnusableEventType = iota
	UnusableDataStallBadTx
	UnusableDataStallTxWithoutRx
	UnusableDataStallBoth
	UnusableFirmwareAlert
	UnusableIPReachabilityLost
)

// IsDataStall reports whether the type belongs to the data-stall trigger
// family, which shares a single throttle window.
func (t UnusableEventType) IsDataStall() bool {
	switch t {
	case UnusableDataStallBadTx, UnusableDataStallTxWithoutRx, UnusableDataStallBoth:
		return true
	}
	return false
}

// UnusableCategory is the outbound coalesced category for unusable events.
type UnusableCategory int

const (
	CategoryNone UnusableCategory = iota
	CategoryDataStall
	CategoryFirmwareAlert
	CategoryIPReachabilityLost
)

// Category maps the event type onto its outbound category: the three
// data-stall subtypes coalesce, firmware-alert and ip-reachability-lost stay
// distinct, unknown maps to none.
func (t UnusableEventType) Category() UnusableCategory {
	switch {
	case t.IsDataStall():
		return CategoryDataStall
	case t == UnusableFirmwareAlert:
		return CategoryFirmwareAlert
	case t == UnusableIPReachabilityLost:
		return CategoryIPReachabilityLost
	}
	return CategoryNone
}

// LinkStats is the per-radio/per-link counter block of one poll sample.
type LinkStats struct {
	TxSuccess int64
	TxRetries int64
	TxBad     int64
	RxSuccess int64

	OnTimeMillis     int64
	CCABusyMillis    int64
	RadioOnMillis    int64
	ContentionAvgUs  int64
	ContentionNumSamples int64
}

// UsabilityStatsEntry is one radio-link-layer sample snapshot produced by the
// poll loop and retained in the usability ring buffer.
type UsabilityStatsEntry struct {
	TimeStampMillis   int64 // elapsed-since-boot at sample time; zeroed on export
	TimestampOffsetMs int64 // only set on exported copies, relative to capture start

	RSSI          int
	LinkSpeedMbps int
	Frequency     int

	Link LinkStats

	ScoreUsageStatsPrediction int
	WifiScore                 int
}

// UnusableEvent is one accepted "link unusable" report with the tx/rx deltas
// accumulated since the previous poll.
type UnusableEvent struct {
	Type             UnusableEventType
	TimeStampMillis  int64
	TxSuccessDelta   int64
	TxRetriesDelta   int64
	TxBadDelta       int64
	RxSuccessDelta   int64
	LastScore        int
	LastLinkSpeedMbps int
}

// StaEventType tags entries of the general station event log.
type StaEventType int

const (
	StaEventAssociation StaEventType = iota
	StaEventAuthentication
	StaEventDisconnect
	StaEventScanStarted
	StaEventScanFailed
	StaEventLinkProbe
	StaEventFirmwareAlert
)

// StaEvent is one entry of the general (first-N-win) station event log.
type StaEvent struct {
	Type            StaEventType
	TimeStampMillis int64
	Interface       string
	Reason          int
}

// LinkProbeEvent is one entry of the dedicated link-probe log, capped
// independently of the general event log.
type LinkProbeEvent struct {
	TimeStampMillis  int64
	Success          bool
	ElapsedMicros    int64 // probe round trip on success
	FailureReason    int
	RSSI             int
	LinkSpeedMbps    int
	SinceTxSuccessMs int64
}

// MobilityState is the device-mobility classification used by PNO scan
// accounting.
type MobilityState int

const (
	MobilityUnknown MobilityState = iota
	MobilityStationary
	MobilityLowMovement
	MobilityHighMovement
)

// MobilityDuration is the accumulated time spent in one mobility state plus
// the number of PNO scans issued while in it.
type MobilityDuration struct {
	State          MobilityState
	DurationMillis int64
	PnoScanCount   int64
}
