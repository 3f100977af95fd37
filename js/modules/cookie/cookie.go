// Package cookie the cookiecat/cookie js module
//
//	const cookie = require("cookiecat/cookie");
//	cookie.set({ name: "theme", value: "dark", expire: Infinity, path: "/" });
//	cookie.get("theme"); // "dark"
//
// A falsy name (undefined, null, false, 0, "") is rejected by set and remove.
// Other undefined or null arguments are read as an empty string rather than
// the "undefined" or "null" text a string conversion would give, so
// get(undefined) looks up no cookie and set({name, value: null}) writes an
// empty value.
package cookie

import (
	"time"

	"github.com/dop251/goja"
	"github.com/shiroyk/cookiecat/cookie"
	"github.com/shiroyk/cookiecat/js"
)

// Module js module
type Module struct{}

// Instantiate module
func (Module) Instantiate(rt *goja.Runtime) (goja.Value, error) {
	store, err := js.Store(rt)
	if err != nil {
		return nil, err
	}
	return rt.ToValue(&Cookie{store}), nil
}

func init() {
	js.Register("cookie", new(Module))
}

// Cookie reads and writes the document cookie.
type Cookie struct {
	store *cookie.Store
}

// Get returns the value of the named cookie, an empty string if absent.
func (c *Cookie) Get(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
	return vm.ToValue(c.store.Get(toString(call.Argument(0))))
}

// Set writes the cookie, returns false when the name is rejected.
func (c *Cookie) Set(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
	opt := call.Argument(0)
	if isNullish(opt) {
		return vm.ToValue(false)
	}
	obj := opt.ToObject(vm)
	if isFalsy(obj.Get("name")) {
		return vm.ToValue(false)
	}
	return vm.ToValue(c.store.Set(cookie.Options{
		Name:   toString(obj.Get("name")),
		Value:  toString(obj.Get("value")),
		Expire: toExpire(obj.Get("expire")),
		Path:   toString(obj.Get("path")),
		Domain: toString(obj.Get("domain")),
		Secure: toBool(obj.Get("secure")),
	}))
}

// Has reports whether the named cookie exists.
func (c *Cookie) Has(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
	return vm.ToValue(c.store.Has(toString(call.Argument(0))))
}

// Remove expires the cookie, returns false when it does not exist.
func (c *Cookie) Remove(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
	opt := call.Argument(0)
	if isNullish(opt) {
		return vm.ToValue(false)
	}
	var o cookie.RemoveOptions
	if s, ok := opt.Export().(string); ok {
		o.Name = s
	} else {
		obj := opt.ToObject(vm)
		if isFalsy(obj.Get("name")) {
			return vm.ToValue(false)
		}
		o.Name = toString(obj.Get("name"))
		o.Domain = toString(obj.Get("domain"))
		o.Path = toString(obj.Get("path"))
	}
	return vm.ToValue(c.store.Remove(o))
}

func isNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

func isFalsy(v goja.Value) bool {
	return isNullish(v) || !v.ToBoolean()
}

func toString(v goja.Value) string {
	if isNullish(v) {
		return ""
	}
	return v.String()
}

func toBool(v goja.Value) bool {
	return !isNullish(v) && v.ToBoolean()
}

// toExpire exports the primitives and dates, other objects stay js values
// so that they are coerced to string the js way.
func toExpire(v goja.Value) any {
	if isNullish(v) {
		return nil
	}
	switch e := v.Export().(type) {
	case int64, float64, string, bool, time.Time:
		return e
	}
	return v
}
