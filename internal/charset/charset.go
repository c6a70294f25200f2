// Package charset implements the charset decoder of spec.md §4.2:
// response bodies declaring a non-UTF-8 charset (via Content-Type or an
// explicit override) are transcoded to UTF-8 before JSON parsing;
// binary-typed content (Edm.Binary/Edm.Stream payloads) bypasses
// decoding entirely.
//
// Grounded on the teacher's go.mod indirect dependency on
// golang.org/x/text (pulled in transitively by its XML/JSON stack) and
// on emadomedher-skyline-mcp's pack-wide use of golang.org/x/text for
// response transcoding; htmlindex maps a declared charset name to an
// encoding.Encoding the way a browser's <meta charset> resolver would.
package charset

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Decode transcodes body to UTF-8 using the charset named in
// contentType (or "utf-8" if absent), returning body unchanged when the
// charset is already UTF-8 or contentType marks a binary payload. An
// unrecognized charset name is an error.
func Decode(body []byte, contentType string) ([]byte, error) {
	if IsBinary(contentType) {
		return body, nil
	}

	name := charsetFromContentType(contentType)
	if name == "" || isUTF8Alias(name) {
		return body, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("charset: unrecognized charset %q: %w", name, err)
	}

	decoded, err := decodeWith(enc, body)
	if err != nil {
		return nil, fmt.Errorf("charset: decoding %q: %w", name, err)
	}
	return decoded, nil
}

func decodeWith(enc encoding.Encoding, body []byte) ([]byte, error) {
	reader := enc.NewDecoder().Reader(bytes.NewReader(body))
	return io.ReadAll(reader)
}

// IsBinary reports whether contentType names a binary payload that
// must bypass charset decoding (spec.md §4.2).
func IsBinary(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch {
	case strings.HasPrefix(mediaType, "application/octet-stream"):
		return true
	case strings.HasPrefix(mediaType, "image/"):
		return true
	case strings.HasPrefix(mediaType, "audio/"):
		return true
	case strings.HasPrefix(mediaType, "video/"):
		return true
	default:
		return false
	}
}

func charsetFromContentType(contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func isUTF8Alias(name string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(name, "-", ""))
	return normalized == "utf8" || normalized == "usascii" || normalized == "ascii"
}
