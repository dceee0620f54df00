package app

import "time"

var processStart = time.Now()

// SystemClock is the production ports.Clock. ElapsedSinceBoot is measured
// from process start: all aggregation timestamps are relative, so only the
// monotonicity of the reading matters.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) ElapsedSinceBoot() time.Duration { return time.Since(processStart) }
