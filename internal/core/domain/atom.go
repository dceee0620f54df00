package domain

// AtomType identifies one outbound telemetry record schema. The field set and
// ordering of each atom is a compatibility contract with the downstream
// collector; fields are written in struct declaration order and none may be
// omitted once required.
type AtomType int

const (
	AtomConnectionResult AtomType = iota + 1
	AtomDisconnect
	AtomStateChanged
	AtomScanReported
	AtomHealthStat
	AtomScorerPrediction
	AtomLockAcquired
	AtomLockReleased
	AtomApCapabilities
	AtomConfigSaved
	AtomAirplaneModeSession
)

// String returns the stable name used for metric labels and logs.
func (t AtomType) String() string {
	switch t {
	case AtomConnectionResult:
		return "connection_result"
	case AtomDisconnect:
		return "disconnect"
	case AtomStateChanged:
		return "state_changed"
	case AtomScanReported:
		return "scan_reported"
	case AtomHealthStat:
		return "health_stat"
	case AtomScorerPrediction:
		return "scorer_prediction"
	case AtomLockAcquired:
		return "lock_acquired"
	case AtomLockReleased:
		return "lock_released"
	case AtomApCapabilities:
		return "ap_capabilities"
	case AtomConfigSaved:
		return "config_saved"
	case AtomAirplaneModeSession:
		return "airplane_mode_session"
	default:
		return "unknown"
	}
}

// DefaultScorerPrincipal attributes usability-state reports when no external
// scorer is registered.
const DefaultScorerPrincipal = "system"

// Atom is one outbound structured telemetry record.
type Atom interface {
	AtomType() AtomType
}

// ConnectionResultAtom reports one finalized connection attempt.
type ConnectionResultAtom struct {
	Success                 bool
	FailureCode             FailureCode
	FailureReason           int
	RSSI                    int
	DurationMillis          int64
	AuthType                AuthType
	Trigger                 ConnectionTrigger
	HasNeverConnected       bool
	IsCarrierNetwork        bool
	FrequencyMhz            int
	TimeSinceLastConnSecs   int64
	ConsecutiveFailureCount int
	Nominator               Nominator
	RoamType                RoamType
	NetworkID               int
}

func (ConnectionResultAtom) AtomType() AtomType { return AtomConnectionResult }

// DisconnectAtom reports a link teardown while connected.
type DisconnectAtom struct {
	Reason              int
	ConnectedSecs       int64
	RSSI                int
	LinkSpeedMbps       int
	LastScore           int
	UnusableCategory    UnusableCategory
	FrequencyMhz        int
}

func (DisconnectAtom) AtomType() AtomType { return AtomDisconnect }

// StateChangedAtom reports a supplicant/client state transition.
type StateChangedAtom struct {
	State     int
	Interface string
	Connected bool
}

func (StateChangedAtom) AtomType() AtomType { return AtomStateChanged }

// ScanReportedAtom reports one completed scan.
type ScanReportedAtom struct {
	Oneshot     bool
	ResultCount int
	Empty       bool
}

func (ScanReportedAtom) AtomType() AtomType { return AtomScanReported }

// HealthStatAtom is the periodic wifi-health sample.
type HealthStatAtom struct {
	Connected       bool
	RSSI            int
	LinkSpeedMbps   int
	WifiScore       int
	TxBadDelta      int64
	TxSuccessDelta  int64
	RxSuccessDelta  int64
	FrequencyMhz    int
}

func (HealthStatAtom) AtomType() AtomType { return AtomHealthStat }

// ScorerPredictionAtom reports an external-scorer usability-state judgement.
// Principal is the caller attribution, or DefaultScorerPrincipal when no
// external scorer is registered.
type ScorerPredictionAtom struct {
	Principal string
	Usable    bool
	WifiScore int
	RSSI      int
}

func (ScorerPredictionAtom) AtomType() AtomType { return AtomScorerPrediction }

// LockAtom reports a wifi-lock acquire or release. Acquired selects between
// the two atom types sharing this shape.
type LockAtom struct {
	Acquired     bool
	Mode         int
	HeldMillis   int64 // only on release
	LowLatency   bool
}

func (a LockAtom) AtomType() AtomType {
	if a.Acquired {
		return AtomLockAcquired
	}
	return AtomLockReleased
}

// ApCapabilitiesAtom reports the capabilities of the AP a session connected to.
type ApCapabilitiesAtom struct {
	Is11ax          bool
	Is11be          bool
	ChannelWidthMhz int
	FrequencyMhz    int
	DTIMPeriod      int
	IsPasspoint     bool
}

func (ApCapabilitiesAtom) AtomType() AtomType { return AtomApCapabilities }

// ConfigSavedAtom reports a saved-network configuration change.
type ConfigSavedAtom struct {
	AuthType   AuthType
	IsHidden   bool
	IsMetered  bool
	TotalSaved int
}

func (ConfigSavedAtom) AtomType() AtomType { return AtomConfigSaved }

// AirplaneModeSessionAtom reports one airplane-mode toggle session.
type AirplaneModeSessionAtom struct {
	Enabled           bool
	WifiOnBeforeMillis int64
	WifiStayedOn      bool
}

func (AirplaneModeSessionAtom) AtomType() AtomType { return AtomAirplaneModeSession }
