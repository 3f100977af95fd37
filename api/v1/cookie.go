package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/cookiecat/cache"
	"github.com/shiroyk/cookiecat/cookie"
)

// Cookie the cookie response
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SetRequest the body of PUT /v1/cookie/:name
type SetRequest struct {
	Value string `json:"value"`
	// Expire seconds, "Infinity", a duration such as "1h" or an HTTP-date
	Expire any    `json:"expire,omitempty"`
	Path   string `json:"path,omitempty"`
	Domain string `json:"domain,omitempty"`
	Secure bool   `json:"secure,omitempty"`
}

var errNotFound = echo.NewHTTPError(http.StatusNotFound, "cookie not found")

func (h *handler) cookieString(c echo.Context) error {
	return c.String(http.StatusOK, h.jar.Read())
}

// list returns the document cookies decoded, in the order they are sent.
func (h *handler) list(c echo.Context) error {
	pairs := cache.ParseCookie(h.jar.Read())
	cookies := make([]Cookie, 0, len(pairs))
	for _, p := range pairs {
		cookies = append(cookies, Cookie{Name: decode(p.Name), Value: decode(p.Value)})
	}
	return c.JSON(http.StatusOK, cookies)
}

// clear deletes every cookie of the document host.
func (h *handler) clear(c echo.Context) error {
	jar, ok := h.jar.(clearer)
	if !ok {
		h.observe("clear", "error")
		return echo.NewHTTPError(http.StatusNotImplemented, "cookie jar can not be cleared")
	}
	jar.Clear()
	h.observe("clear", "true")
	return c.NoContent(http.StatusNoContent)
}

type clearer interface {
	Clear()
}

func decode(s string) string {
	if v, err := cookie.Decode(s); err == nil {
		return v
	}
	return s
}

func (h *handler) get(c echo.Context) error {
	name := c.Param("name")
	if !h.store.Has(name) {
		h.observe("get", result(false))
		return errNotFound
	}
	h.observe("get", result(true))
	return c.JSON(http.StatusOK, Cookie{Name: name, Value: h.store.Get(name)})
}

func (h *handler) has(c echo.Context) error {
	ok := h.store.Has(c.Param("name"))
	h.observe("has", result(ok))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handler) set(c echo.Context) error {
	req := new(SetRequest)
	if err := c.Bind(req); err != nil {
		h.observe("set", "error")
		return err
	}
	name := c.Param("name")
	if err := cookie.Validate(name); err != nil {
		h.observe("set", result(false))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ok := h.store.Set(cookie.Options{
		Name:   name,
		Value:  req.Value,
		Expire: expireValue(req.Expire),
		Path:   req.Path,
		Domain: req.Domain,
		Secure: req.Secure,
	})
	h.observe("set", result(ok))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "cookie rejected")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) remove(c echo.Context) error {
	ok := h.store.Remove(cookie.RemoveOptions{
		Name:   c.Param("name"),
		Domain: c.QueryParam("domain"),
		Path:   c.QueryParam("path"),
	})
	h.observe("remove", result(ok))
	if !ok {
		return errNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

// expireValue converts the JSON expire to the cookie expire.
// JSON has no Infinity and no durations, both are given as strings.
func expireValue(expire any) any {
	if s, ok := expire.(string); ok {
		return cookie.ParseExpire(s)
	}
	return expire
}
