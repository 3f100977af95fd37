package js

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/shiroyk/cookiecat/cache/memory"
	"github.com/shiroyk/cookiecat/document"
	"github.com/shiroyk/cookiecat/logger"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func newTestVM(t *testing.T) (VM, *document.Document) {
	t.Helper()
	doc, err := document.Parse("https://example.com/", memory.NewCookie())
	if err != nil {
		t.Fatal(err)
	}
	return NewVM(Options{Jar: doc}), doc
}

func TestDocumentCookie(t *testing.T) {
	t.Parallel()
	vm, doc := newTestVM(t)
	ctx := context.Background()

	_, err := vm.RunString(ctx, `document.cookie = "theme=dark"; document.cookie = "lang=en; path=/"`)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"theme=dark", "lang=en"}, strings.Split(doc.Read(), "; "))

	doc.Write("id=1;httponly")
	v, err := vm.RunString(ctx, `document.cookie`)
	assert.NoError(t, err)
	assert.NotContains(t, v.String(), "id=1")

	_, err = vm.RunString(ctx, `document.cookie = "theme=; max-age=0"`)
	assert.NoError(t, err)
	v, err = vm.RunString(ctx, `document.cookie`)
	assert.NoError(t, err)
	assert.Equal(t, "lang=en", v.String())

	store, err := Store(vm.Runtime())
	assert.NoError(t, err)
	assert.Equal(t, "en", store.Get("lang"))
}

func TestNoDocument(t *testing.T) {
	t.Parallel()
	vm := NewVM(Options{})

	v, err := vm.RunString(context.Background(), `typeof document`)
	assert.NoError(t, err)
	assert.Equal(t, "undefined", v.String())

	_, err = Store(vm.Runtime())
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestConsole(t *testing.T) {
	t.Parallel()
	buf := new(bytes.Buffer)
	vm := NewVM(Options{
		Logger: slog.New(logger.NewConsoleHandlerWriter(buf, slog.LevelDebug)),
	})

	_, err := vm.RunString(context.Background(), `
		console.log("hello %s", "cookiecat");
		console.debug("json %j", {'foo': 'bar'});
		console.warn("number %d", 42, "extra");
	`)
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "hello cookiecat")
	assert.Contains(t, out, `json {"foo":"bar"}`)
	assert.Contains(t, out, "number 42 extra")
}

type testModule struct{}

func (testModule) Instantiate(rt *goja.Runtime) (goja.Value, error) {
	return rt.ToValue(map[string]string{"key": "test"}), nil
}

type testGlobalModule struct{ testModule }

func (testGlobalModule) Global() {}

type testErrModule struct{}

func (testErrModule) Instantiate(*goja.Runtime) (goja.Value, error) {
	return nil, errors.New("instantiate failed")
}

func TestRequire(t *testing.T) {
	Register("test_require", testModule{})
	Register("test_global", testGlobalModule{})
	Register("test_err", testErrModule{})

	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "lib.js"),
		[]byte(`module.exports = { double: (x) => x * 2 }`), 0o600))
	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o700))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "package.json"),
		[]byte(`{"main": "main.js"}`), 0o600))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "main.js"),
		[]byte(`exports.name = "pkg"`), 0o600))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"),
		[]byte(`{"answer": 42}`), 0o600))

	vm := NewVM(Options{ModulePath: []string{filepath.ToSlash(filepath.Join(dir, "node_modules"))}})
	ctx := context.Background()

	testCases := []struct {
		name   string
		script string
		want   any
	}{
		{"native", `require("cookiecat/test_require").key`, "test"},
		{"native cached", `require("cookiecat/test_require") === require("cookiecat/test_require")`, true},
		{"global", `test_global.key`, "test"},
		{"file", `require("` + filepath.ToSlash(filepath.Join(dir, "lib.js")) + `").double(21)`, int64(42)},
		{"json", `require("` + filepath.ToSlash(filepath.Join(dir, "data.json")) + `").answer`, int64(42)},
		{"package", `require("pkg").name`, "pkg"},
	}

	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			v, err := vm.RunString(ctx, c.script)
			if assert.NoError(t, err) {
				assert.Equal(t, c.want, v.Export())
			}
		})
	}

	for _, script := range []string{
		`require("cookiecat/not_exists")`,
		`require("cookiecat/test_err")`,
		`require("")`,
		`require("./not_exists.js")`,
	} {
		_, err := vm.RunString(ctx, script)
		assert.Error(t, err, script)
	}
}

func TestInterrupt(t *testing.T) {
	t.Parallel()
	vm := NewVM(Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := vm.RunString(ctx, `for (;;) {}`)
	var interrupted *goja.InterruptedError
	assert.ErrorAs(t, err, &interrupted)

	v, err := vm.RunString(context.Background(), `1 + 1`)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), v.Export())
}

func TestRunArgs(t *testing.T) {
	t.Parallel()
	vm := NewVM(Options{})
	v, err := vm.Run(context.Background(), Program{Code: `a + b`, Args: map[string]any{"a": 1, "b": 2}})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), v.Export())

	v, err = vm.RunString(context.Background(), `typeof a`)
	assert.NoError(t, err)
	assert.Equal(t, "undefined", v.String())
}

func TestRunIsolated(t *testing.T) {
	t.Parallel()
	vm := NewVM(Options{UseStrict: true})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		v, err := vm.RunString(ctx, `const n = 21; let m = 2; n * m`)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), v.Export())
	}

	_, err := vm.RunString(ctx, `undeclared = 1`)
	assert.ErrorContains(t, err, "ReferenceError")
}

func TestUnwrap(t *testing.T) {
	t.Parallel()
	vm := NewVM(Options{})
	ctx := context.Background()

	v, err := vm.RunString(ctx, `Promise.resolve(1)`)
	assert.NoError(t, err)
	got, err := Unwrap(v)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), got)

	v, err = vm.RunString(ctx, `Promise.reject("failed")`)
	assert.NoError(t, err)
	_, err = Unwrap(v)
	assert.EqualError(t, err, "failed")

	got, err = Unwrap(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestThrow(t *testing.T) {
	t.Parallel()
	vm := NewVM(Options{})
	_ = vm.Runtime().Set("fail", func(goja.FunctionCall, *goja.Runtime) goja.Value {
		Throw(vm.Runtime(), errors.New("some error"))
		return nil
	})
	v, err := vm.RunString(context.Background(), `try { fail() } catch (e) { e.message }`)
	assert.NoError(t, err)
	assert.Equal(t, "some error", v.String())
}
