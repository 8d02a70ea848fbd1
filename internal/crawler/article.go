package crawler

import (
	"strings"
	"unicode/utf8"
)

// ArticlePath converts a display title into the path segment used in requests
func ArticlePath(title string) string {
	return strings.ReplaceAll(title, " ", "_")
}

// NormalizeTitle returns the deduplication key for an article title.
// It is never used to build a request.
func NormalizeTitle(title string) string {
	key := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	return strings.ToLower(unescapeLenient(key))
}

// unescapeLenient decodes every well-formed %XX escape in s and keeps
// malformed ones as written. Decoded bytes that are not valid UTF-8 become
// U+FFFD.
func unescapeLenient(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				buf = append(buf, hi<<4|lo)
				i += 2
				continue
			}
		}
		buf = append(buf, s[i])
	}

	if utf8.Valid(buf) {
		return string(buf)
	}
	var b strings.Builder
	for _, r := range string(buf) {
		b.WriteRune(r)
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
