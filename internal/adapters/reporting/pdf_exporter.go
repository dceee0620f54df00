package reporting

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/netgauge/wifitel/internal/core/domain"
)

// PDFExporter renders a snapshot summary to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportSnapshot generates a PDF summary of one dump snapshot
func (e *PDFExporter) ExportSnapshot(snap domain.Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, snap)
	e.addCounters(pdf, snap)
	e.addSessionTable(pdf, snap)
	e.addHistogram(pdf, "RSSI poll counts", snap.RSSIPoll)
	e.addHistogram(pdf, "Wifi score counts", snap.WifiScore)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, snap domain.Snapshot) {
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 12, "Wifi Telemetry Snapshot", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Snapshot %s", snap.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Taken: %s", snap.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (e *PDFExporter) addCounters(pdf *gofpdf.Fpdf, snap domain.Snapshot) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Counters", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	rows := []struct {
		label string
		value int64
	}{
		{"Oneshot scans", snap.Counters.OneshotScans},
		{"Background scans", snap.Counters.BackgroundScans},
		{"Empty scan results", snap.Counters.EmptyScanResults},
		{"Firmware alerts", snap.Counters.FirmwareAlerts},
		{"Link probe successes", snap.Counters.LinkProbeSuccesses},
		{"Link probe failures", snap.Counters.LinkProbeFailures},
		{"Unusable events accepted", snap.Counters.UnusableEventsAccepted},
		{"Unusable events throttled", snap.Counters.UnusableEventsThrottled},
	}
	for _, r := range rows {
		pdf.CellFormat(90, 6, r.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%d", r.value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (e *PDFExporter) addSessionTable(pdf *gofpdf.Fpdf, snap domain.Snapshot) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Sessions (%d)", len(snap.Sessions)), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(30, 6, "Interface", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 6, "SSID", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 6, "Duration ms", "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 6, "Outcome", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	const maxRows = 25
	for i, s := range snap.Sessions {
		if i >= maxRows {
			pdf.CellFormat(135, 6, fmt.Sprintf("... and %d more", len(snap.Sessions)-maxRows), "1", 1, "L", false, 0, "")
			break
		}
		outcome := "failed"
		if s.Succeeded() {
			outcome = "ok"
		} else if s.Abandoned {
			outcome = "abandoned"
		}
		pdf.CellFormat(30, 6, s.Interface, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, s.SSID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", s.DurationMillis), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, outcome, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (e *PDFExporter) addHistogram(pdf *gofpdf.Fpdf, title string, entries []domain.ValueCount) {
	if len(entries) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, e := range entries {
		pdf.CellFormat(30, 5, fmt.Sprintf("%d", e.Value), "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", e.Count), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}
