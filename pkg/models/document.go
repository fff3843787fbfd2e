package models

// Heading is one entry of a document outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
}

// Document is a loaded markdown file with its front matter split off.
// Metadata is nil when the file has no front matter or it failed to parse.
type Document struct {
	Path     string         `json:"path"`
	Body     string         `json:"body"`
	Metadata map[string]any `json:"metadata"`
	Title    string         `json:"title,omitempty"`
	Headings []Heading      `json:"headings"`
	Checksum string         `json:"checksum"`
}
