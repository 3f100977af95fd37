// Package cache the cookie jar shared by documents and scripts
package cache

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shiroyk/cookiecat/logger"
	"golang.org/x/net/publicsuffix"
)

// Cookie manages storage and use of cookies in HTTP requests.
// Implementations of Cookie must be safe for concurrent use by multiple
// goroutines.
type Cookie interface {
	http.CookieJar

	// SetCookieString handles the receipt of a single cookie string for the given URL,
	// as a document.cookie assignment does.
	SetCookieString(u *url.URL, cookie string)
	// CookieString returns the cookies string for the given URL.
	CookieString(u *url.URL) string
	// DeleteCookie delete the cookies of the host for the given URL.
	DeleteCookie(u *url.URL)
}

// Store persists the cookie entries grouped by domain.
// Saving an empty slice removes the domain.
type Store interface {
	Load(domain string) ([]Entry, error)
	Save(domain string, entries []Entry) error
}

// Entry a stored cookie.
type Entry struct {
	Name       string        `msgpack:"name"`
	Value      string        `msgpack:"value"`
	Domain     string        `msgpack:"domain"`
	Path       string        `msgpack:"path"`
	SameSite   http.SameSite `msgpack:"same_site"`
	Secure     bool          `msgpack:"secure"`
	HttpOnly   bool          `msgpack:"http_only"`
	HostOnly   bool          `msgpack:"host_only"`
	Persistent bool          `msgpack:"persistent"`
	Expires    time.Time     `msgpack:"expires"`
	Creation   time.Time     `msgpack:"creation"`
}

// expired reports whether the entry is expired at now.
func (e *Entry) expired(now time.Time) bool {
	return e.Persistent && !e.Expires.After(now)
}

// pathMatch implements "path-match" according to RFC 6265 section 5.1.4.
func (e *Entry) pathMatch(requestPath string) bool {
	if requestPath == e.Path {
		return true
	}
	if strings.HasPrefix(requestPath, e.Path) {
		if e.Path[len(e.Path)-1] == '/' {
			return true
		} else if requestPath[len(e.Path)] == '/' {
			return true
		}
	}
	return false
}

var (
	errNoName          = errors.New("cookie: missing name")
	errIllegalDomain   = errors.New("cookie: illegal domain attribute")
	errMalformedDomain = errors.New("cookie: malformed domain attribute")
	errNoHostname      = errors.New("cookie: no host name available (IP only)")
	errInsecure        = errors.New("cookie: secure cookie from insecure origin")
)

// maxAgeLimit caps max-age so the expiry stays in year 9999.
const maxAgeLimit = 253402300799

var farFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

type jar struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

// NewCookie returns a Cookie that follows the RFC 6265 storage model and
// keeps its entries in the store.
func NewCookie(store Store) Cookie {
	return &jar{store: store, now: time.Now}
}

// SetCookieString handles the receipt of a single cookie string for the given URL.
func (j *jar) SetCookieString(u *url.URL, cookie string) {
	c, err := ParseSetCookie(cookie)
	if err != nil {
		logger.Debugf("ignore cookie %q: %s", cookie, err)
		return
	}
	j.SetCookies(u, []*http.Cookie{c})
}

// CookieString returns the cookies string for the given URL.
func (j *jar) CookieString(u *url.URL) string {
	return CookieToString(j.Cookies(u))
}

// DeleteCookie delete the cookies of the host for the given URL.
func (j *jar) DeleteCookie(u *url.URL) {
	host, err := canonicalHost(u)
	if err != nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err = j.store.Save(host, nil); err != nil {
		logger.Errorf("failed to delete cookie %s %s", host, err)
	}
}

// SetCookies handles the receipt of the cookies in a reply for the given URL.
func (j *jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if u.Scheme != "http" && u.Scheme != "https" {
		return
	}
	host, err := canonicalHost(u)
	if err != nil {
		return
	}
	secure := u.Scheme == "https"
	defPath := defaultPath(u.Path)

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, cookie := range cookies {
		e, remove, err := newEntry(cookie, now, defPath, host, secure)
		if err != nil {
			logger.Debugf("ignore cookie %s for %s: %s", cookie.Name, host, err)
			continue
		}
		if err = j.update(e, remove, now); err != nil {
			logger.Errorf("failed to set cookie %s %s", host, err)
		}
	}
}

// update replaces the entry with the same name, domain and path.
func (j *jar) update(e Entry, remove bool, now time.Time) error {
	entries, err := j.store.Load(e.Domain)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, old := range entries {
		if old.expired(now) {
			continue
		}
		if old.Name == e.Name && old.Path == e.Path {
			e.Creation = old.Creation
			continue
		}
		kept = append(kept, old)
	}
	if !remove {
		kept = append(kept, e)
	}
	return j.store.Save(e.Domain, kept)
}

// Cookies returns the cookies to send in a request for the given URL.
func (j *jar) Cookies(u *url.URL) (cookies []*http.Cookie) {
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	host, err := canonicalHost(u)
	if err != nil {
		return nil
	}
	secure := u.Scheme == "https"
	path := u.Path
	if path == "" {
		path = "/"
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	var selected []Entry
	for _, domain := range domains(host) {
		entries, err := j.store.Load(domain)
		if err != nil {
			logger.Errorf("failed to load cookie %s %s", domain, err)
			continue
		}
		for _, e := range entries {
			if e.expired(now) {
				continue
			}
			if e.HostOnly && e.Domain != host {
				continue
			}
			if e.Secure && !secure {
				continue
			}
			if !e.pathMatch(path) {
				continue
			}
			selected = append(selected, e)
		}
	}

	sort.SliceStable(selected, func(i, k int) bool {
		s := selected
		if len(s[i].Path) != len(s[k].Path) {
			return len(s[i].Path) > len(s[k].Path)
		}
		if !s[i].Creation.Equal(s[k].Creation) {
			return s[i].Creation.Before(s[k].Creation)
		}
		return s[i].Name < s[k].Name
	})

	for _, e := range selected {
		cookies = append(cookies, &http.Cookie{
			Name:     e.Name,
			Value:    e.Value,
			HttpOnly: e.HttpOnly,
		})
	}
	return cookies
}

// newEntry creates an entry from the cookie. remove is true when the cookie
// deletes an existing entry.
func newEntry(c *http.Cookie, now time.Time, defPath, host string, secure bool) (e Entry, remove bool, err error) {
	if c.Name == "" {
		return e, false, errNoName
	}
	if c.Secure && !secure {
		return e, false, errInsecure
	}
	e.Name = c.Name

	if c.Path == "" || c.Path[0] != '/' {
		e.Path = defPath
	} else {
		e.Path = c.Path
	}

	e.Domain, e.HostOnly, err = domainAndType(host, c.Domain)
	if err != nil {
		return e, false, err
	}

	switch {
	case c.MaxAge < 0:
		return e, true, nil
	case c.MaxAge > 0:
		e.Persistent = true
		if c.MaxAge > maxAgeLimit {
			e.Expires = farFuture
		} else {
			e.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
	case !c.Expires.IsZero():
		if !c.Expires.After(now) {
			return e, true, nil
		}
		e.Persistent = true
		e.Expires = c.Expires
	}

	e.Value = c.Value
	e.Secure = c.Secure
	e.HttpOnly = c.HttpOnly
	e.SameSite = c.SameSite
	e.Creation = now
	return e, false, nil
}

// domainAndType determines the entry's domain and hostOnly attribute.
func domainAndType(host, domain string) (string, bool, error) {
	if domain == "" {
		// No domain attribute in the cookie string indicates a host cookie.
		return host, true, nil
	}

	if net.ParseIP(host) != nil {
		if domain == host {
			return host, true, nil
		}
		return "", false, errNoHostname
	}

	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	if domain == "" || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return "", false, errMalformedDomain
	}

	// A domain attribute on a public suffix is only acceptable for the
	// suffix itself, it then becomes a host cookie.
	if ps, _ := publicsuffix.PublicSuffix(domain); ps == domain {
		if host == domain {
			return host, true, nil
		}
		return "", false, errIllegalDomain
	}

	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return "", false, errIllegalDomain
	}

	return domain, false, nil
}

// defaultPath returns the directory part of a URL's path according to
// RFC 6265 section 5.1.4.
func defaultPath(path string) string {
	if len(path) == 0 || path[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(path, "/")
	if i == 0 {
		return "/"
	}
	return path[:i]
}

// canonicalHost strips the port from the host and lowercases it.
func canonicalHost(u *url.URL) (string, error) {
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", errNoHostname
	}
	return host, nil
}

// domains returns the host and all its parent domains.
func domains(host string) []string {
	if net.ParseIP(host) != nil {
		return []string{host}
	}
	ret := []string{host}
	for i := strings.IndexByte(host, '.'); i >= 0; i = strings.IndexByte(host, '.') {
		host = host[i+1:]
		if host == "" {
			break
		}
		ret = append(ret, host)
	}
	return ret
}
