// Package document binds a cookie jar to a document URL, giving the
// document.cookie view of it: reads exclude HttpOnly cookies and writes can
// not create them.
package document

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shiroyk/cookiecat/cache"
)

// DefaultURL the document URL used when none is configured.
const DefaultURL = "https://localhost/"

// Document is the cookie string of a document.
type Document struct {
	url *url.URL
	jar cache.Cookie
}

// New returns the Document of the URL on the jar.
func New(u *url.URL, jar cache.Cookie) *Document {
	return &Document{url: u, jar: jar}
}

// Parse returns the Document of the raw URL on the jar.
func Parse(rawURL string, jar cache.Cookie) (*Document, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("document url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("document url: unsupported scheme %q", u.Scheme)
	}
	return New(u, jar), nil
}

// URL returns the document URL.
func (d *Document) URL() *url.URL { return d.url }

// Read returns the cookies visible to the document joined by "; ".
func (d *Document) Read() string {
	cookies := d.jar.Cookies(d.url)
	visible := cookies[:0]
	for _, c := range cookies {
		if !c.HttpOnly {
			visible = append(visible, c)
		}
	}
	return cache.CookieToString(visible)
}

// Write sets a single cookie string, "name=value[;attr=val...]".
func (d *Document) Write(cookie string) {
	c, err := cache.ParseSetCookie(cookie)
	if err != nil {
		return
	}
	if c.HttpOnly {
		// a document can not write HttpOnly cookies
		return
	}
	d.jar.SetCookies(d.url, []*http.Cookie{c})
}

// Clear deletes the cookies stored for the document host, HttpOnly ones
// included. Cookies set on a parent domain are kept.
func (d *Document) Clear() {
	d.jar.DeleteCookie(d.url)
}

// ApplyHTML writes the cookies of the <meta http-equiv="set-cookie"> elements
// of the HTML page and returns how many were applied.
func (d *Document) ApplyHTML(r io.Reader) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("parse html: %w", err)
	}
	n := 0
	doc.Find("meta[http-equiv]").Each(func(_ int, s *goquery.Selection) {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(strings.TrimSpace(equiv), "set-cookie") {
			return
		}
		if content, ok := s.Attr("content"); ok && content != "" {
			d.Write(content)
			n++
		}
	})
	return n, nil
}
