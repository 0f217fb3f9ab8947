package handlers

import (
	"fmt"
	"strings"
	"unicode"
)

// contentDisposition builds an attachment header for filename. The quoted
// filename is restricted to printable ASCII; other titles also get an
// RFC 5987 filename* parameter carrying the UTF-8 name.
func contentDisposition(filename string) string {
	name := cleanFilename(filename)
	fallback := asciiFilename(name)

	value := `attachment; filename="` + fallback + `"`
	if fallback != name {
		value += "; filename*=UTF-8''" + encodeExtValue(name)
	}
	return value
}

func cleanFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || strings.Trim(cleaned, ".") == "" {
		return "download"
	}
	return cleaned
}

func asciiFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, name)
}

// encodeExtValue percent-encodes everything outside the RFC 5987 attr-char set.
func encodeExtValue(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
