// Package notecontent reads and writes the two side channels stored inside a
// note's content string: the presentation marker and the summary section.
package notecontent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultColor = "default"
	DefaultStyle = "lined"
)

var (
	ErrInvalidColor = errors.New("invalid note color")
	ErrInvalidStyle = errors.New("invalid note style")
)

// Colors and Styles list the palette offered to clients.
var (
	Colors = []string{"default", "cream", "yellow", "blue", "pink", "green"}
	Styles = []string{"lined", "grid", "dots", "aged"}
)

var metadataPattern = regexp.MustCompile(`<!-- noteColor: (.*?), noteStyle: (.*?) -->`)

// Metadata is the presentation state embedded at the top of a note.
type Metadata struct {
	Color string `json:"color"`
	Style string `json:"style"`
}

// DefaultMetadata is what a note without a marker decodes to.
func DefaultMetadata() Metadata {
	return Metadata{Color: DefaultColor, Style: DefaultStyle}
}

// Validate checks the values against the known palette. Empty fields are
// accepted; WithDefaults fills them in.
func (m Metadata) Validate() error {
	if m.Color != "" && !contains(Colors, m.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, m.Color)
	}
	if m.Style != "" && !contains(Styles, m.Style) {
		return fmt.Errorf("%w: %q", ErrInvalidStyle, m.Style)
	}
	return nil
}

// WithDefaults returns m with empty fields replaced by the defaults.
func (m Metadata) WithDefaults() Metadata {
	if m.Color == "" {
		m.Color = DefaultColor
	}
	if m.Style == "" {
		m.Style = DefaultStyle
	}
	return m
}

// Encode renders the marker comment for m.
func Encode(m Metadata) string {
	m = m.WithDefaults()
	return fmt.Sprintf("<!-- noteColor: %s, noteStyle: %s -->", m.Color, m.Style)
}

// Decode extracts the first marker of content. The returned body is content
// with that marker removed and surrounding whitespace trimmed. Without a
// marker the defaults are returned together with the untouched content.
func Decode(content string) (Metadata, string) {
	loc := metadataPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return DefaultMetadata(), content
	}

	meta := Metadata{
		Color: content[loc[2]:loc[3]],
		Style: content[loc[4]:loc[5]],
	}
	body := strings.TrimSpace(content[:loc[0]] + content[loc[1]:])
	return meta, body
}

// HasMetadata reports whether content carries a marker.
func HasMetadata(content string) bool {
	return metadataPattern.MatchString(content)
}

// WithMetadata prefixes content with the marker for m on its own line. An
// existing first marker is dropped first so the note never carries two.
func WithMetadata(content string, m Metadata) string {
	if loc := metadataPattern.FindStringIndex(content); loc != nil {
		content = strings.TrimLeft(content[:loc[0]]+content[loc[1]:], "\n")
	}
	return Encode(m) + "\n" + content
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
