// Package xmlutil escapes user-supplied text before it is embedded in
// markup such as map popups.
package xmlutil

import (
	"encoding/xml"
	"strings"
)

// Escape returns s with the XML/HTML special characters replaced by entities.
// Invalid UTF-8 sequences are replaced with U+FFFD first.
func Escape(s string) string {
	s = strings.ToValidUTF8(s, "�")
	var buf strings.Builder
	buf.Grow(len(s))
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return ""
	}
	return buf.String()
}

