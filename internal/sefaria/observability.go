package sefaria

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single Sefaria API call.
type CallEvent struct {
	Endpoint  string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about API calls for logging and diagnostics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes call events to the provided writer.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

func (o *logObserver) OnCallComplete(event CallEvent) {
	if event.Success {
		o.logger.Debug("sefaria_call",
			"endpoint", event.Endpoint,
			"latency_ms", event.LatencyMs,
			"success", true,
		)
		return
	}
	o.logger.Warn("sefaria_call",
		"endpoint", event.Endpoint,
		"latency_ms", event.LatencyMs,
		"success", false,
		"error_code", event.ErrorCode,
	)
}
