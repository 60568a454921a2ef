package content

import (
	"bytes"
	"regexp"
	"unicode/utf8"
)

var (
	// utf8BOM is the UTF-8 byte order mark that some editors add to pasted text.
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	// Trailing whitespace on lines can turn into hard line breaks in CommonMark
	// and is never intentional in a note.
	trailingWhitespace = regexp.MustCompile(`(?m)[ \t]+$`)
)

// NormalizeText prepares a plain text body for Markdown rendering: it strips a
// leading BOM, converts line endings to \n, replaces invalid UTF-8 sequences,
// and removes trailing whitespace from lines.
func NormalizeText() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		input = bytes.TrimPrefix(input, utf8BOM)
		if !utf8.Valid(input) {
			input = bytes.ToValidUTF8(input, []byte(string(utf8.RuneError)))
		}
		input = bytes.ReplaceAll(input, []byte("\r\n"), []byte("\n"))
		input = bytes.ReplaceAll(input, []byte("\r"), []byte("\n"))
		input = trailingWhitespace.ReplaceAll(input, nil)
		return input, nil
	}
}
