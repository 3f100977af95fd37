package bolt

import (
	"net/url"
	"testing"
	"time"

	"github.com/shiroyk/cookiecat/cache"
	"github.com/stretchr/testify/assert"
)

func TestCookie(t *testing.T) {
	t.Parallel()
	opt := cache.Options{Path: t.TempDir()}
	c, err := NewCookie(opt)
	if err != nil {
		t.Fatal(err)
	}

	u, _ := url.Parse("http://localhost")

	if len(c.Cookies(u)) > 0 {
		t.Fatal("retrieved cookie before adding it")
	}

	c.SetCookieString(u, "MaxAge=3600;")
	assert.Equal(t, "MaxAge=3600", c.CookieString(u))

	c.SetCookieString(u, "MaxAge=7200;max-age=60")
	assert.Equal(t, "MaxAge=7200", c.CookieString(u))
	assert.NoError(t, c.Close())

	// reopen
	c, err = NewCookie(opt)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	assert.Equal(t, "MaxAge=7200", c.CookieString(u))

	c.DeleteCookie(u)
	assert.Empty(t, c.CookieString(u))
}

func TestLifetime(t *testing.T) {
	t.Parallel()
	now := time.Now()
	persistent := cache.Entry{Persistent: true, Expires: now.Add(time.Minute)}
	session := cache.Entry{}

	assert.Equal(t, time.Minute+time.Second, lifetime([]cache.Entry{persistent}, now))
	assert.Zero(t, lifetime([]cache.Entry{persistent, session}, now))
	assert.Zero(t, lifetime([]cache.Entry{{Persistent: true, Expires: time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)}}, now))
}
