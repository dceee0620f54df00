package reporting

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/netgauge/wifitel/internal/core/domain"
)

// Frame markers bracketing the structured payload so the external
// log-scraping tool can extract it from mixed dump output.
const (
	FrameHeader = "WifiTelemetrySnapshot-BEGIN"
	FrameFooter = "WifiTelemetrySnapshot-END"
)

// WriteFramed writes the structured machine-readable report. Clean mode emits
// only the framed payload; otherwise the payload follows the verbose text
// report in the same stream.
func WriteFramed(w io.Writer, snap domain.Snapshot, activeSessions []domain.ConnectionSession, clean bool) error {
	if !clean {
		if err := WriteTextReport(w, snap, activeSessions); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	payload, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n%s\n", FrameHeader, payload, FrameFooter)
	return err
}

// EncodeSnapshot serializes snap into the base64 payload carried between the
// frame markers.
func EncodeSnapshot(snap domain.Snapshot) (string, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot %s: %w", snap.ID, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ExtractSnapshot parses a framed payload back out of dump output; it is the
// inverse of WriteFramed and exists mainly for the scraper and tests.
func ExtractSnapshot(output string) (domain.Snapshot, error) {
	var snap domain.Snapshot

	start := strings.Index(output, FrameHeader)
	end := strings.Index(output, FrameFooter)
	if start < 0 || end < 0 || end < start {
		return snap, fmt.Errorf("no framed payload found")
	}
	payload := strings.TrimSpace(output[start+len(FrameHeader) : end])

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return snap, fmt.Errorf("decoding framed payload: %w", err)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, fmt.Errorf("parsing framed payload: %w", err)
	}
	return snap, nil
}

// Render produces the dump output for the requested mode.
func Render(snap domain.Snapshot, activeSessions []domain.ConnectionSession, mode domain.DumpMode) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch mode {
	case domain.DumpStructuredClean:
		err = WriteFramed(&buf, snap, activeSessions, true)
	case domain.DumpStructuredVerbose:
		err = WriteFramed(&buf, snap, activeSessions, false)
	default:
		err = WriteTextReport(&buf, snap, activeSessions)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
