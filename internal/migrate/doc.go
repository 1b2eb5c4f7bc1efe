// Package migrate orchestrates the migration pipeline: bundle parsing,
// per-note classification against the history, Markdown rendering, path
// allocation, attachment and index writing, and end-of-run reconciliation.
//
// Processing is single-threaded and ordered: notes within a bundle keep the
// bundle's native order and bundles run in the order supplied. The pipeline
// checks for cancellation between notes, so an interrupted run never commits
// a history record for a file whose write did not complete. A malformed
// bundle aborts that bundle only; note and resource failures are logged and
// counted, and the run continues.
package migrate
