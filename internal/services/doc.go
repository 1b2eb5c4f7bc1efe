// Package services defines shared utilities consumed by the migration
// pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp session, bundle, and note identifiers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     as fatal (bundle, configuration, persistence) or recoverable (note,
//     resource).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the stages.
package services
