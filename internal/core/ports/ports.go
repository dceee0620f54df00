// Package ports defines the boundary interfaces between the aggregation core
// and its adapters. Core services accept these interfaces and return concrete
// structs.
package ports

import (
	"context"
	"time"

	"github.com/netgauge/wifitel/internal/core/domain"
)

// Clock abstracts wall time and the monotonic elapsed-since-boot reading that
// all aggregation timestamps are measured against.
type Clock interface {
	Now() time.Time
	ElapsedSinceBoot() time.Duration
}

// AtomSink receives outbound telemetry records. Implementations must not
// block; a returned error is logged by the caller and never surfaces to
// producers.
type AtomSink interface {
	Write(atom domain.Atom) error
}

// UsabilityListener receives every usability-stats poll entry. A delivery
// error marks the listener dead: the store deregisters it and continues with
// the remaining listeners.
type UsabilityListener interface {
	ID() string
	OnUsabilityStats(seqNum int, sameSession bool, entry domain.UsabilityStatsEntry) error
}

// SnapshotArchive persists dump snapshots for later inspection.
type SnapshotArchive interface {
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error
	RecentSnapshots(ctx context.Context, limit int) ([]domain.SnapshotSummary, error)
	GetSnapshot(ctx context.Context, id string) (domain.Snapshot, error)
	Close() error
}
