package badsec

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	listOpen      = "["
	listClose     = "]"
	listSeparator = ", "
)

// ParseUserList splits a raw /users body into ids, dropping empty lines.
func ParseUserList(raw string) []string {
	lines := strings.Split(raw, "\n")
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids
}

// EncodeUserList renders a raw /users body as a JSON array of strings,
// e.g. "a\nb\n" becomes ["a", "b"] and "" becomes [].
func EncodeUserList(raw string) string {
	ids := ParseUserList(raw)

	var sb strings.Builder
	sb.WriteString(listOpen)
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(listSeparator)
		}
		sb.WriteString(quote(id))
	}
	sb.WriteString(listClose)
	return sb.String()
}

// quote writes s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
