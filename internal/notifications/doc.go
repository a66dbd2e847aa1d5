// Package notifications delivers picker events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when notifications are disabled.
// Completion events are gated by notifications.completions and failure
// events by notifications.failures; user cancellations are never published.
//
// Pipeline code depends only on the Service interface.
package notifications
