// Package organizer resolves where each rendered note and attachment lands
// inside the vault.
//
// It derives a folder from the configured layout mode (notebook, tag, date,
// or flat), sanitizes every path segment with the shared rule from textutil,
// and applies the collision policy (rename, skip, overwrite) against both
// the filesystem and the paths already allocated in the current run. The
// package also de-duplicates attachment filenames and builds the
// per-notebook index document.
package organizer
