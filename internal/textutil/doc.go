// Package textutil provides filename and folder-name sanitization shared by
// the path allocator and attachment writer.
//
// The sanitize rule replaces filesystem-unsafe and control characters with a
// configurable placeholder, collapses placeholder runs, and trims dots and
// spaces from the ends, so file and folder names built from note metadata
// stay portable across filesystems.
package textutil
