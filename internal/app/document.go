package app

import (
	"os"
	"path/filepath"
	"strings"
)

// Document is a read-only text file split into lines.
type Document struct {
	// Path is the absolute file path (empty for generated documents).
	Path string

	// Name is the display name.
	Name string

	lines []string
}

// NewDocument creates a document from text. Line endings may be \n or \r\n;
// a final newline does not start an extra line.
func NewDocument(name, text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return &Document{
		Name:  name,
		lines: strings.Split(text, "\n"),
	}
}

// LoadDocument reads a document from disk.
func LoadDocument(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	doc := NewDocument(filepath.Base(abs), string(data))
	doc.Path = abs
	return doc, nil
}

// LineText returns the text of a line, or "" past the end.
func (d *Document) LineText(line uint32) string {
	if int(line) >= len(d.lines) {
		return ""
	}
	return d.lines[line]
}

// LineCount returns the number of lines.
func (d *Document) LineCount() uint32 {
	return uint32(len(d.lines))
}

// helpText is shown when no files are given.
const helpText = `inertia: inertial mouse-wheel scrolling

Turn the mouse wheel to scroll. The view keeps moving after the wheel
stops and slows down smoothly. Turning the wheel the other way stops it.

  Shift+wheel     scroll faster
  Ctrl+wheel      plain line scrolling
  PgUp/PgDn       page up/down
  Up/Down, k/j    one line
  Home/End        top/bottom
  Tab/Shift+Tab   next/previous file
  i               inertia on/off
  w               close file
  q, Ctrl+C       quit

Settings are read from the file given with --config (TOML or YAML) and
from INERTIA_* environment variables. Edits to the settings file apply
immediately.`

func helpDocument() *Document {
	return NewDocument("[help]", helpText)
}
