package aggregate

import (
	"log/slog"

	"github.com/netgauge/wifitel/internal/core/domain"
)

// StoreCapturedData extracts a time window of usability samples as one
// training record. triggerStartMillis and triggerStopMillis are
// elapsed-since-boot at the original triggering event and must both be
// positive with start < stop; invalid bounds make the call a no-op. A full
// capture ignores the bounds and takes the whole ring buffer. The capture log
// is first-N-win: once full, further captures are dropped.
func (s *Store) StoreCapturedData(captureType int, fullCapture bool, triggerStartMillis, triggerStopMillis int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowElapsed := s.clock.ElapsedSinceBoot()
	nowMillis := nowElapsed.Milliseconds()

	var picked []domain.UsabilityStatsEntry
	var storeTimeOffset int64
	var offsetBase int64

	if fullCapture {
		picked = s.usability.Items()
		newest, ok := s.usability.Newest()
		if !ok {
			return
		}
		storeTimeOffset = nowMillis - newest.TimeStampMillis
		if len(picked) > 0 {
			offsetBase = picked[0].TimeStampMillis
		}
	} else {
		if triggerStartMillis <= 0 || triggerStopMillis <= 0 || triggerStartMillis >= triggerStopMillis {
			slog.Info("ignoring capture request with invalid bounds",
				"start", triggerStartMillis, "stop", triggerStopMillis)
			return
		}
		picked = s.usability.Window(triggerStartMillis, triggerStopMillis)
		storeTimeOffset = nowMillis - triggerStopMillis
		offsetBase = triggerStartMillis
	}

	entries := make([]domain.UsabilityStatsEntry, len(picked))
	for i, e := range picked {
		out := e
		// Absolute timestamps are stripped from exported entries; only the
		// offset relative to the capture start remains.
		out.TimestampOffsetMs = e.TimeStampMillis - offsetBase
		out.TimeStampMillis = 0
		entries[i] = out
	}

	capture := domain.TrainingCapture{
		CaptureType:               captureType,
		FullCapture:               fullCapture,
		StoreTimeOffsetMillis:     storeTimeOffset,
		CaptureStartTimestampSecs: s.clock.Now().Add(-nowElapsed).Unix(),
		Entries:                   entries,
	}
	if !s.captures.Append(capture) {
		slog.Info("capture log full, dropping capture", "type", captureType)
	}
}

// CaptureCount returns the number of retained training captures.
func (s *Store) CaptureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captures.Len()
}
