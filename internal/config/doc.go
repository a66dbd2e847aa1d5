// Package config loads, normalizes, and validates mediapick configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIAPICK_NTFY_TOPIC. The Config type gathers every picker knob in one
// place: crop policy, review behaviour, album persistence, export backend,
// notifications, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, lower-cased enum values, and clear validation errors.
package config
