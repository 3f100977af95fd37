package cookie

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrMalformedURI the escape sequences do not decode to UTF-8 text
var ErrMalformedURI = errors.New("URI malformed")

const upperhex = "0123456789ABCDEF"

// shouldEscape reports whether encodeURIComponent escapes the byte.
func shouldEscape(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return false
	}
	return true
}

// Encode percent-encodes s the way encodeURIComponent does: every UTF-8 byte
// outside A-Z a-z 0-9 - _ . ! ~ * ' ( ) becomes %XX.
func Encode(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Decode reverses Encode. A plus sign is kept as is, escapes that decode to
// invalid UTF-8 such as "%FF" are an error.
func Decode(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}
	v, err := url.PathUnescape(s)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(v) {
		return "", ErrMalformedURI
	}
	return v, nil
}
