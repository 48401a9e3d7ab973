package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Computed ancestry of 2 leaves (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks implements the observability hook interfaces on top of the
// debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnComputeStart(_ context.Context, dagID string, leaves int) {
	h.logger.Debug("compute start", "dag", dagID, "leaves", leaves)
}

func (h *logHooks) OnComputeComplete(_ context.Context, dagID string, visited, significant int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("compute failed", "dag", dagID, "visited", visited, "took", d, "err", err)
		return
	}
	h.logger.Debug("compute complete", "dag", dagID, "visited", visited, "significant", significant, "took", d)
}

func (h *logHooks) OnFetch(_ context.Context, dagID, id string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "dag", dagID, "id", id, "err", err)
		return
	}
	h.logger.Debug("fetch", "dag", dagID, "id", id, "took", d)
}

func (h *logHooks) OnSignificant(_ context.Context, dagID, id, class string) {
	h.logger.Debug("significant", "dag", dagID, "id", id, "class", class)
}

func (h *logHooks) OnQuery(_ context.Context, backend, dagID, id string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("store query failed", "backend", backend, "dag", dagID, "id", id, "err", err)
		return
	}
	h.logger.Debug("store query", "backend", backend, "dag", dagID, "id", id, "took", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
