package cue

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts raw sheet bytes to text. An empty charset means
// UTF-8; a UTF-8 or UTF-16 byte order mark overrides the charset and
// is stripped.
func Decode(data []byte, charset string) (string, error) {
	enc := encoding.Encoding(unicode.UTF8)
	if charset != "" {
		e, err := ianaindex.IANA.Encoding(charset)
		if err != nil {
			return "", fmt.Errorf("charset %q: %w", charset, err)
		}
		if e == nil {
			return "", fmt.Errorf("charset %q: unsupported", charset)
		}
		enc = e
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", charset, err)
	}
	return string(out), nil
}
