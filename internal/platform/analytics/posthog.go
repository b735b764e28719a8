// Package analytics wraps the posthog client so that an unconfigured tracker is a safe no-op.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// Tracker enqueues product analytics events.
type Tracker struct {
	client posthog.Client
	logger *slog.Logger
}

// NewTracker returns a disabled tracker when apiKey is empty.
func NewTracker(apiKey, endpoint string, logger *slog.Logger) *Tracker {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, analytics disabled")
		return &Tracker{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client, analytics disabled", slog.String("error", err.Error()))
		return &Tracker{logger: logger}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &Tracker{client: client, logger: logger}
}

func (t *Tracker) Enabled() bool {
	return t != nil && t.client != nil
}

func (t *Tracker) Track(distinctID, event string, properties map[string]any) {
	if !t.Enabled() {
		return
	}
	t.logger.Debug("Enqueueing analytics event", slog.String("distinct_id", distinctID), slog.String("event", event))
	if err := t.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil {
		t.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes pending events.
func (t *Tracker) Close() {
	if !t.Enabled() {
		return
	}
	if err := t.client.Close(); err != nil {
		t.logger.Warn("Failed to close posthog client", slog.String("error", err.Error()))
	}
}
