package enex

import "time"

// Note is one exported document with its metadata and attachments.
type Note struct {
	// GUID is the externally supplied identifier, when the export carries one.
	// Empty for bundles that do not include note guids; identity is then
	// synthesized downstream from title and creation time.
	GUID      string
	Title     string
	Content   string
	Created   time.Time
	Updated   time.Time
	Tags      []string
	Notebook  string
	SourceURL string
	Author    string
	// Attributes carries note-attributes children verbatim as key/value pairs.
	Attributes map[string]string
	Resources  []Resource
}

// Resource is one decoded attachment.
type Resource struct {
	Data     []byte
	MimeType string
	Filename string
	Width    int
	Height   int
	// ContentHash preserves a source-provided integrity hash. Empty when the
	// bundle did not include one; it is never computed here.
	ContentHash string
}

// Size reports the decoded payload length. Source-provided size fields are
// never trusted over the decoded length.
func (r Resource) Size() int {
	return len(r.Data)
}
