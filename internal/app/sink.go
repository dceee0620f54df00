package app

import (
	"log/slog"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/telemetry"
)

// logAtomSink is the default ports.AtomSink: it logs each outbound atom and
// counts it. A real deployment would swap in a statsd or protobuf uploader.
type logAtomSink struct{}

func (logAtomSink) Write(atom domain.Atom) error {
	t := atom.AtomType()
	telemetry.AtomsEmitted.WithLabelValues(t.String()).Inc()
	slog.Debug("atom emitted", "type", t.String(), "atom", atom)
	return nil
}
