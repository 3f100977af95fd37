package cache

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mapStore map[string][]Entry

func (m mapStore) Load(domain string) ([]Entry, error) {
	return append([]Entry(nil), m[domain]...), nil
}

func (m mapStore) Save(domain string, entries []Entry) error {
	if len(entries) == 0 {
		delete(m, domain)
		return nil
	}
	m[domain] = append([]Entry(nil), entries...)
	return nil
}

func newTestJar(now time.Time) (*jar, mapStore) {
	store := mapStore{}
	return &jar{store: store, now: func() time.Time { return now }}, store
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestCookie(t *testing.T) {
	t.Parallel()
	j, _ := newTestJar(time.Now())
	u := mustParse(t, "http://localhost")

	if len(j.Cookies(u)) > 0 {
		t.Fatal("retrieved cookie before adding it")
	}

	j.SetCookieString(u, "a=1")
	j.SetCookieString(u, "b=2; max-age=3600")
	assert.Equal(t, "a=1; b=2", j.CookieString(u))

	j.SetCookieString(u, "a=3")
	assert.Equal(t, "a=3; b=2", j.CookieString(u), "last write wins and keeps the order")

	j.SetCookieString(u, "b=; max-age=0")
	assert.Equal(t, "a=3", j.CookieString(u))

	j.DeleteCookie(u)
	assert.Empty(t, j.CookieString(u))
}

func TestCookieExpires(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j, _ := newTestJar(now)
	u := mustParse(t, "https://example.com/")

	j.SetCookieString(u, "forever=1;expires=Fri, 31 Dec 9999 23:59:59 GMT")
	j.SetCookieString(u, "gone=1;expires=Thu, 01 Jan 1970 00:00:00 GMT")
	j.SetCookieString(u, "short=1;max-age=60")
	assert.Equal(t, "forever=1; short=1", j.CookieString(u))

	j.now = func() time.Time { return now.Add(time.Hour) }
	assert.Equal(t, "forever=1", j.CookieString(u))

	j.SetCookieString(u, "forever=;expires=Thu, 01 Jan 1970 00:00:00 GMT")
	assert.Empty(t, j.CookieString(u))
}

func TestCookieScope(t *testing.T) {
	t.Parallel()
	j, store := newTestJar(time.Now())
	www := mustParse(t, "https://www.example.com/index.html")
	docs := mustParse(t, "https://www.example.com/docs/page")

	j.SetCookieString(www, "host=1")
	j.SetCookieString(www, "wide=1;domain=.example.com")
	j.SetCookieString(www, "deep=1;path=/docs")
	j.SetCookieString(www, "other=1;domain=example.org")
	j.SetCookieString(www, "suffix=1;domain=com")
	j.SetCookieString(www, "secure=1;secure")

	assert.Len(t, store["www.example.com"], 3)
	assert.Len(t, store["example.com"], 1)
	assert.NotContains(t, store, "example.org")
	assert.NotContains(t, store, "com")

	assert.Equal(t, "deep=1; host=1; secure=1; wide=1", j.CookieString(docs))
	assert.Equal(t, "host=1; secure=1; wide=1", j.CookieString(www))
	assert.Equal(t, "wide=1", j.CookieString(mustParse(t, "https://api.example.com/")))
	assert.Equal(t, "host=1; wide=1", j.CookieString(mustParse(t, "http://www.example.com/")))

	j.SetCookieString(mustParse(t, "http://example.com/"), "insecure=1;secure")
	assert.Len(t, store["example.com"], 1)
}

func TestDomainAndType(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		host, domain string
		want         string
		hostOnly     bool
		err          error
	}{
		{"www.example.com", "", "www.example.com", true, nil},
		{"www.example.com", ".Example.com", "example.com", false, nil},
		{"www.example.com", "www.example.com", "www.example.com", false, nil},
		{"www.example.com", "example.org", "", false, errIllegalDomain},
		{"www.example.com", "com", "", false, errIllegalDomain},
		{"www.example.com", "example.com.", "", false, errMalformedDomain},
		{"127.0.0.1", "127.0.0.1", "127.0.0.1", true, nil},
		{"127.0.0.1", "example.com", "", false, errNoHostname},
		{"localhost", "localhost", "localhost", true, nil},
	}

	for _, c := range testCases {
		domain, hostOnly, err := domainAndType(c.host, c.domain)
		assert.ErrorIs(t, err, c.err, c.domain)
		if c.err == nil {
			assert.Equal(t, c.want, domain)
			assert.Equal(t, c.hostOnly, hostOnly)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/", defaultPath(""))
	assert.Equal(t, "/", defaultPath("/"))
	assert.Equal(t, "/", defaultPath("/page"))
	assert.Equal(t, "/docs", defaultPath("/docs/page"))
	assert.Equal(t, "/", defaultPath("relative"))
}

func TestPathMatch(t *testing.T) {
	t.Parallel()
	e := Entry{Path: "/docs"}
	assert.True(t, e.pathMatch("/docs"))
	assert.True(t, e.pathMatch("/docs/page"))
	assert.False(t, e.pathMatch("/docsearch"))
	assert.False(t, e.pathMatch("/"))
}

func TestDomains(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a.b.example.com", "b.example.com", "example.com", "com"}, domains("a.b.example.com"))
	assert.Equal(t, []string{"::1"}, domains("::1"))
}
