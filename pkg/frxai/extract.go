package frxai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var codeFencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?\\s*```$")

var (
	errNoPayload   = errors.New("no json payload found")
	errInvalidJSON = errors.New("payload is not valid json")
)

// ExtractJSON isolates the JSON value embedded in free-form model output and
// returns it compacted. Fences are stripped, the first complete top-level
// object or array is located and trailing commas are removed before parsing.
func ExtractJSON(raw string, lang Language) (json.RawMessage, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	payload, err := locatePayload(cleaned)
	if err != nil {
		return nil, WrapError(ErrCodeMalformedResponse, Translate(lang, "error_malformed_response"), &ParseError{
			Original: raw,
			Cleaned:  payload,
			Err:      err,
		})
	}
	return json.RawMessage(pretty.Ugly([]byte(payload))), nil
}

func stripCodeFence(text string) string {
	match := codeFencePattern.FindStringSubmatch(text)
	if len(match) == 2 && match[1] != "" {
		return strings.TrimSpace(match[1])
	}
	return text
}

// locatePayload returns the sanitized JSON text, or the best candidate it
// tried together with the parse error.
func locatePayload(text string) (string, error) {
	openDelim, closeDelim := payloadDelimiters(text)
	if openDelim == 0 {
		sanitized := removeTrailingCommas(text)
		return sanitized, checkJSON(sanitized)
	}

	// Candidates nested inside a rejected value are never tried.
	for start := strings.IndexByte(text, openDelim); start >= 0; {
		end := matchingDelimiter(text, start)
		if end < 0 {
			break
		}
		candidate := removeTrailingCommas(text[start : end+1])
		if checkJSON(candidate) == nil {
			return candidate, nil
		}
		next := strings.IndexByte(text[end+1:], openDelim)
		if next < 0 {
			break
		}
		start = end + 1 + next
	}

	// First/last delimiter slicing for payloads the depth walk cannot close,
	// e.g. unbalanced delimiters inside broken strings.
	first := strings.IndexByte(text, openDelim)
	last := strings.LastIndexByte(text, closeDelim)
	candidate := text
	if first >= 0 && last > first {
		candidate = text[first : last+1]
	}
	candidate = removeTrailingCommas(candidate)
	return candidate, checkJSON(candidate)
}

// payloadDelimiters picks object bounds when a brace opens no later than the
// first bracket, array bounds otherwise. Zero means neither is present.
func payloadDelimiters(text string) (byte, byte) {
	firstBrace := strings.IndexByte(text, '{')
	lastBrace := strings.LastIndexByte(text, '}')
	firstBracket := strings.IndexByte(text, '[')
	lastBracket := strings.LastIndexByte(text, ']')

	if firstBrace >= 0 && lastBrace > firstBrace && (firstBracket < 0 || firstBrace < firstBracket) {
		return '{', '}'
	}
	if firstBracket >= 0 && lastBracket > firstBracket {
		return '[', ']'
	}
	return 0, 0
}

// matchingDelimiter walks from the opening delimiter at start and returns the
// index that brings the nesting depth back to zero, ignoring delimiters inside
// string literals. It returns -1 when the value never closes.
func matchingDelimiter(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}

// removeTrailingCommas drops commas (and the whitespace after them) that
// directly precede a closing brace or bracket outside string literals.
func removeTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(text) && isJSONSpace(text[j]) {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				i = j - 1
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func checkJSON(text string) error {
	if strings.TrimSpace(text) == "" {
		return errNoPayload
	}
	if !gjson.Valid(text) {
		return errInvalidJSON
	}
	return nil
}
