// Package history maintains the persisted migration history: note identity,
// content fingerprints, output paths, deletion state, and session records.
// The tracker decides per note whether to render-and-write, skip, or remove,
// guaranteeing at most one on-disk artifact per logical note across repeated
// runs. The history is a JSON document under the vault root, read wholesale
// at construction, mutated in memory, and persisted atomically; an advisory
// file lock guards against a second tracker on the same vault.
package history
