// Package services defines shared utilities consumed by the processing
// stages and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp invocation IDs, stage names, batch
//     positions, and picker modes for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is and attach an operator hint.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
