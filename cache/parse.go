package cache

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCookie the cookie string has no name=value pair
var ErrInvalidCookie = errors.New("invalid cookie string")

// expiresLayouts the date layouts accepted by the expires attribute.
var expiresLayouts = []string{
	http.TimeFormat,
	time.RFC1123,
	"Mon, 02-Jan-2006 15:04:05 MST",
	time.RFC850,
	time.ANSIC,
}

// ParseSetCookie parses a single cookie string as written to document.cookie,
// "name=value[; attr[=val]]...". Unknown attributes are ignored, a max-age
// of zero or below sets MaxAge to -1.
func ParseSetCookie(line string) (*http.Cookie, error) {
	parts := strings.Split(line, ";")
	pair := strings.TrimSpace(parts[0])
	name, value, ok := strings.Cut(pair, "=")
	if !ok {
		return nil, ErrInvalidCookie
	}
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if name == "" {
		return nil, ErrInvalidCookie
	}
	if len(value) > 1 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}

	c := &http.Cookie{Name: name, Value: value, Raw: line}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		attr, val, _ := strings.Cut(part, "=")
		attr, val = strings.ToLower(strings.TrimSpace(attr)), strings.TrimSpace(val)
		switch attr {
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		case "domain":
			c.Domain = val
		case "path":
			c.Path = val
		case "max-age":
			secs, err := strconv.Atoi(val)
			if err != nil || secs != 0 && val[0] == '0' {
				break
			}
			if secs <= 0 {
				secs = -1
			}
			c.MaxAge = secs
		case "expires":
			c.RawExpires = val
			c.Expires = parseExpires(val)
		case "samesite":
			switch strings.ToLower(val) {
			case "lax":
				c.SameSite = http.SameSiteLaxMode
			case "strict":
				c.SameSite = http.SameSiteStrictMode
			case "none":
				c.SameSite = http.SameSiteNoneMode
			default:
				c.SameSite = http.SameSiteDefaultMode
			}
		default:
			c.Unparsed = append(c.Unparsed, part)
		}
	}
	return c, nil
}

func parseExpires(val string) time.Time {
	for _, layout := range expiresLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ParseCookie parses the given cookie string and return a slice http.Cookie.
func ParseCookie(cookies string) []*http.Cookie {
	var ret []*http.Cookie
	for _, pair := range strings.Split(cookies, ";") {
		name, value, _ := strings.Cut(strings.TrimSpace(pair), "=")
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		ret = append(ret, &http.Cookie{Name: name, Value: strings.TrimSpace(value)})
	}
	return ret
}

// CookieToString returns the cookies as "name=value" pairs joined by "; ".
func CookieToString(cookies []*http.Cookie) string {
	switch len(cookies) {
	case 0:
		return ""
	case 1:
		return cookies[0].Name + "=" + cookies[0].Value
	}

	var b strings.Builder
	for i, cookie := range cookies {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(cookie.Name)
		b.WriteByte('=')
		b.WriteString(cookie.Value)
	}
	return b.String()
}
