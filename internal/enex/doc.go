// Package enex parses ENEX export bundles into typed note and resource
// records. Parsing is all-or-nothing per bundle: structural XML errors abort
// the bundle, while individual resources that fail to decode are dropped and
// numbering continues. Inline en-media references are resolved to resource
// filenames during parsing so downstream rendering never sees raw media tags.
package enex
