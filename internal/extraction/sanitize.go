// Package extraction turns free-text model replies into validated values.
package extraction

import (
	"encoding/json"
	"errors"
	"strings"
)

const fence = "```"

// Sanitize strips the prose and Markdown framing a model tends to wrap
// around a JSON object and returns the object text. It does not validate
// anything: when no object can be located the trimmed text is returned as
// is and decoding fails later with a syntax error.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, fence) {
		text = strings.ReplaceAll(text, "`", "")
		text = strings.TrimSpace(text)
		if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = text[4:]
		}
	}

	if obj, ok := firstObject(text); ok {
		return obj
	}
	return sliceBraces(text)
}

// firstObject returns the first well-formed top-level object. A candidate
// that fails to decode consumes the text up to the point of failure, so the
// braces nested inside it are never tried on their own and each byte is
// scanned about once.
func firstObject(text string) (string, bool) {
	for offset := 0; offset < len(text); {
		i := strings.IndexByte(text[offset:], '{')
		if i < 0 {
			return "", false
		}
		start := offset + i

		var obj json.RawMessage
		err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&obj)
		if err == nil {
			return string(obj), true
		}

		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			// unterminated: the candidate runs to the end of the text
			return "", false
		}
		// resume at the offending byte, it may open the next candidate
		offset = start + max(int(syntaxErr.Offset)-1, 1)
	}
	return "", false
}

// sliceBraces keeps the text between the first '{' and the last '}'.
func sliceBraces(text string) string {
	if i := strings.IndexByte(text, '{'); i > 0 {
		text = text[i:]
	}
	if j := strings.LastIndexByte(text, '}'); j > 0 {
		text = text[:j+1]
	}
	return text
}
