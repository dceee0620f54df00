package domain

import "time"

// Nominator identifies which subsystem proposed the network for connection.
type Nominator int

const (
	NominatorUnknown Nominator = iota
	NominatorManual
	NominatorSaved
	NominatorSuggestion
	NominatorPasspoint
	NominatorCarrier
	NominatorExternalScorer
)

// RoamType classifies the roam that led to a connection attempt.
type RoamType int

const (
	RoamNone RoamType = iota
	RoamEnterprise
	RoamUserSelected
	RoamUnrelated
)

// FailureCode is the connection-result code reported at session end.
type FailureCode int

const (
	FailureNone FailureCode = iota // success
	FailureUnknown
	FailureAssociationRejection
	FailureAssociationTimeout
	FailureAuthenticationFailure
	FailureIPProvisioning
	FailureNoResponse
	FailureNetworkDisconnection
	FailureNewConnectionAttempt // prior attempt superseded by a new start
)

// AuthType is the security mode of the target network.
type AuthType int

const (
	AuthOpen AuthType = iota
	AuthWEP
	AuthPSK
	AuthEAP
	AuthSAE
	AuthOWE
)

// ConnectionTrigger classifies what initiated a completed connection attempt.
type ConnectionTrigger int

const (
	TriggerUnknown ConnectionTrigger = iota
	TriggerManual
	TriggerBootAutoconnect
	TriggerReconnectSameNetwork
	TriggerAutoconnectConfigured
)

// ScanDetail carries the router metadata captured from the scan result that
// selected the target network. It is snapshotted into the session at setter
// time and folded into the RouterFingerprint when the session ends.
type ScanDetail struct {
	DTIMPeriod      int
	AuthType        AuthType
	EapMethod       int
	FrequencyMhz    int
	ChannelWidthMhz int
	Hidden          bool
	IsPasspoint     bool
	IsHomeProvider  bool
}

// RouterFingerprint is the immutable summary of the router a finalized
// session talked to, derived from the retained ScanDetail and config.
type RouterFingerprint struct {
	AuthType          AuthType
	EapMethod         int
	DTIMPeriod        int
	FrequencyMhz      int
	ChannelWidthMhz   int
	Hidden            bool
	IsPasspoint       bool
	IsHomeProvider    bool
	PmkCacheEnabled   bool
	MaxSupportedTxMbps int
	MaxSupportedRxMbps int
}

// ConnectionSession is one attempted connection to a network on one
// interface. It is mutable between start and end, then immutable once
// finalized and appended to the session log.
type ConnectionSession struct {
	ID        string
	Interface string

	NetworkID         int
	ConfigFingerprint string // empty when the attempt had no config
	SSID              string

	RoamType  RoamType
	Nominator Nominator
	CarrierID int

	StartElapsedMillis int64
	StartWall          time.Time

	// Set by producers between start and end.
	Scan                        ScanDetail
	HasScanDetail               bool
	PmkCacheEnabled             bool
	MaxSupportedTxLinkSpeedMbps int
	MaxSupportedRxLinkSpeedMbps int

	// Populated at end time.
	Finalized               bool
	Abandoned               bool // superseded by a newer start on the same interface
	EndElapsedMillis        int64
	DurationMillis          int64
	FailureCode             FailureCode
	FailureReason           int
	HLFBitmask              uint32
	CandidateFrequencyMhz   int
	StatusCode              int
	ConsecutiveFailureCount int
	Router                  RouterFingerprint
	Trigger                 ConnectionTrigger
	TimeSinceLastConnSecs   int64
}

// Succeeded reports whether the finalized session ended in a successful
// connection.
func (s *ConnectionSession) Succeeded() bool {
	return s.Finalized && !s.Abandoned && s.FailureCode == FailureNone
}
