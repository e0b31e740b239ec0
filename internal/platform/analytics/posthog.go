// Package analytics wraps the PostHog client so callers can use it without
// checking whether analytics is configured.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// Client enqueues product analytics events.
type Client struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// NewPosthogClient returns a client that drops every event when apiKey is empty.
func NewPosthogClient(apiKey, endpoint string, logger *slog.Logger) *Client {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &Client{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &Client{logger: logger}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &Client{posthogClient: client, logger: logger}
}

// NewWithPosthog wraps an existing posthog.Client.
func NewWithPosthog(client posthog.Client, logger *slog.Logger) *Client {
	return &Client{posthogClient: client, logger: logger}
}

// IsInitialized reports whether events are actually sent.
func (w *Client) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

// Enqueue queues an event for distinctID. It never blocks on the network.
func (w *Client) Enqueue(distinctID string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
	if err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue posthog event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes pending events.
func (w *Client) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.posthogClient.Close(); err != nil && w.logger != nil {
		w.logger.Warn("Failed to close posthog client", slog.String("error", err.Error()))
	}
}
