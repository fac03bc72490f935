// Package cli implements the nugetviz command-line interface.
//
// This package provides commands for drawing the NuGet package graph of a
// solution, printing a conflict report, and managing the feed response
// cache. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - visualize: Write DGML, DOT, SVG or PNG diagrams
//   - report: Print a table of version conflicts
//   - cache: Manage the feed response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// handed to the pipeline, which logs per-stage timings and feed failures.
// Feed requests and cache hits are logged at debug level through
// observability hooks.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetviz/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch tracks the start time of an operation and logs completion with
// elapsed duration.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

// newStopwatch creates a stopwatch that captures the current time as start.
func newStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since the stopwatch was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Resolved 42 packages (1.234s)"
func (s *stopwatch) done(msg string) {
	s.logger.Infof("%s (%s)", msg, time.Since(s.start).Round(time.Millisecond))
}

// feedLogHooks logs feed traffic at debug level.
type feedLogHooks struct {
	logger *log.Logger
}

func (h feedLogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("feed request", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h feedLogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("feed request failed", "method", method, "host", host, "path", path, "err", err)
}

func (h feedLogHooks) OnCacheHit(_ context.Context, namespace string) {
	h.logger.Debug("cache hit", "namespace", namespace)
}

func (h feedLogHooks) OnCacheMiss(context.Context, string) {}

func (h feedLogHooks) OnCacheSet(_ context.Context, namespace string, size int) {
	h.logger.Debug("cache write", "namespace", namespace, "bytes", size)
}

// registerLogHooks routes feed and cache events to logger.
func registerLogHooks(logger *log.Logger) {
	h := feedLogHooks{logger: logger}
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
}
