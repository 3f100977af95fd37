package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shiroyk/cookiecat/cache/memory"
	"github.com/shiroyk/cookiecat/document"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, opt Options) (*httptest.Server, *document.Document) {
	t.Helper()
	doc, err := document.Parse("https://example.com/", memory.NewCookie())
	if err != nil {
		t.Fatal(err)
	}
	server := httptest.NewServer(Server(opt, doc))
	t.Cleanup(server.Close)
	return server, doc
}

func do(t *testing.T, method, url, contentType, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res.StatusCode, string(b)
}

func TestCookieRoutes(t *testing.T) {
	t.Parallel()
	server, doc := newTestServer(t, Options{})
	base := server.URL + "/v1/cookie"
	const jsonType = "application/json"

	code, _ := do(t, http.MethodPut, base+"/test", jsonType, `{"value":"smith","expire":3600}`)
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, "test=smith", doc.Read())

	code, body := do(t, http.MethodGet, base+"/test", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"name":"test","value":"smith"}`, body)

	code, _ = do(t, http.MethodHead, base+"/test", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, http.MethodPut, base+"/semi", jsonType, `{"value":"a;b=c","expire":"Infinity"}`)
	assert.Equal(t, http.StatusNoContent, code)
	code, body = do(t, http.MethodGet, base+"/semi", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"name":"semi","value":"a;b=c"}`, body)

	code, body = do(t, http.MethodGet, base, "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.ElementsMatch(t, []string{"test=smith", "semi=a%3Bb%3Dc"}, strings.Split(body, "; "))

	code, body = do(t, http.MethodPut, base+"/Max-Age", jsonType, `{"value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "reserved")

	code, _ = do(t, http.MethodDelete, base+"/test", "", "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, http.MethodDelete, base+"/test", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, http.MethodHead, base+"/test", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, body = do(t, http.MethodGet, base+"/test", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"msg":"cookie not found"}`, body)

	code, _ = do(t, http.MethodPut, base+"/scoped", jsonType, `{"value":"1","path":"/docs","expire":"1h"}`)
	assert.Equal(t, http.StatusNoContent, code)
	assert.NotContains(t, doc.Read(), "scoped")
}

func TestListAndClearRoutes(t *testing.T) {
	t.Parallel()
	server, doc := newTestServer(t, Options{})

	code, body := do(t, http.MethodGet, server.URL+"/v1/cookies", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, body)

	doc.Write("a%20b=c%3Bd")
	doc.Write("bin=%FF")
	code, body = do(t, http.MethodGet, server.URL+"/v1/cookies", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"name":"a b","value":"c;d"},{"name":"bin","value":"%FF"}]`, body)

	code, _ = do(t, http.MethodDelete, server.URL+"/v1/cookie", "", "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, doc.Read())
}

func TestTypeRoute(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, Options{})

	testCases := []struct {
		value string
		code  int
		want  string
	}{
		{`42`, http.StatusOK, `{"type":"number","tag":"[object Number]"}`},
		{`"s"`, http.StatusOK, `{"type":"string","tag":"[object String]"}`},
		{`true`, http.StatusOK, `{"type":"boolean","tag":"[object Boolean]"}`},
		{`{}`, http.StatusOK, `{"type":"object","tag":"[object Object]"}`},
		{`[1,2]`, http.StatusOK, `{"type":"array","tag":"[object Array]"}`},
		{`null`, http.StatusOK, `{"type":null,"tag":"[object Null]"}`},
		{`{`, http.StatusBadRequest, ``},
	}
	for _, c := range testCases {
		code, body := do(t, http.MethodGet, server.URL+"/v1/type?value="+url.QueryEscape(c.value), "", "")
		assert.Equal(t, c.code, code, c.value)
		if c.want != "" {
			assert.JSONEq(t, c.want, body, c.value)
		}
	}
}

func TestRunRoute(t *testing.T) {
	t.Parallel()
	server, doc := newTestServer(t, Options{})

	code, body := do(t, http.MethodPost, server.URL+"/v1/run", "application/javascript", `
		const cookie = require("cookiecat/cookie");
		cookie.set({ name: "theme", value: "dark", expire: Infinity });
		({ theme: cookie.get("theme"), has: cookie.has("theme") })
	`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"result":{"theme":"dark","has":true}}`, body)
	assert.Equal(t, "theme=dark", doc.Read())

	code, body = do(t, http.MethodPost, server.URL+"/v1/run", "application/javascript", `throw new Error("boom")`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "boom")
}

func TestAuth(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, Options{Token: "secret"})

	code, _ := do(t, http.MethodGet, server.URL+"/ping", "", "")
	assert.NotEqual(t, http.StatusOK, code)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/ping", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	res, err := http.DefaultClient.Do(req)
	if assert.NoError(t, err) {
		_ = res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}

	req.Header.Set("Authorization", "Bearer secret")
	res, err = http.DefaultClient.Do(req)
	if assert.NoError(t, err) {
		_ = res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t, Options{})

	do(t, http.MethodPut, server.URL+"/v1/cookie/a", "application/json", `{"value":"1"}`)
	do(t, http.MethodPut, server.URL+"/v1/cookie/path", "application/json", `{"value":"1"}`)
	do(t, http.MethodHead, server.URL+"/v1/cookie/a", "", "")

	code, body := do(t, http.MethodGet, server.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `cookiecat_operations_total{op="set",result="true"} 1`)
	assert.Contains(t, body, `cookiecat_operations_total{op="set",result="false"} 1`)
	assert.Contains(t, body, `cookiecat_operations_total{op="has",result="true"} 1`)
}
