// Package markdown renders a note's rich-text body into a portable Markdown
// document. Rendering is a pure function of the note and static options, runs
// as an ordered pipeline (preprocess, transform, post-process), and never
// fails: irrecoverable transform errors degrade to plain-text extraction.
// Metadata header generation is a separate pure function so documents can be
// produced body-only.
package markdown
