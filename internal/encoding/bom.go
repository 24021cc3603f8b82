package encoding

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// WithBOM encodes UTF-8 text as UTF-8 with a leading byte-order mark, the form
// spreadsheet tools expect before they will read non-ASCII CSV correctly.
// Text that already starts with a BOM is not prefixed twice.
func WithBOM(text []byte) ([]byte, error) {
	text = bytes.TrimPrefix(text, bomUTF8)

	out, err := unicode.UTF8BOM.NewEncoder().Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("encode utf-8 bom: %w", err)
	}

	return out, nil
}

// HasBOM reports whether b starts with the UTF-8 byte-order mark.
func HasBOM(b []byte) bool {
	return bytes.HasPrefix(b, bomUTF8)
}
