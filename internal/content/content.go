// Package content renders note bodies into presentation formats.
package content

import (
	"fmt"
	"strings"
)

// Format is a presentation format for a note body.
type Format string

// Supported formats.
const (
	// FormatText returns the body exactly as stored.
	FormatText Format = "text"
	// FormatHTML treats the body as CommonMark and renders it to sanitized
	// HTML that is safe to embed in a page.
	FormatHTML Format = "html"
)

// ParseFormat resolves a format name, case-insensitively. The empty string is
// [FormatText].
func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(name)); format {
	case "", FormatText:
		return FormatText, nil
	case FormatHTML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q", name)
	}
}

var textToHTMLPipeline = Chain(NormalizeText(), MarkdownToHTML(), SanitizeHTML())

// Render converts a stored note body into format.
func Render(body string, format Format) (string, error) {
	switch format {
	case FormatText:
		return body, nil
	case FormatHTML:
		out, err := textToHTMLPipeline([]byte(body))
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}
