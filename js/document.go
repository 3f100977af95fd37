package js

import (
	"github.com/dop251/goja"
	"github.com/shiroyk/cookiecat/cookie"
)

// EnableDocument sets the document global with the cookie accessor of the jar,
// and binds the store used by the cookiecat/cookie module.
func EnableDocument(vm *goja.Runtime, jar cookie.CookieJar, store *cookie.Store) {
	document := vm.NewObject()
	getter := vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(jar.Read())
	})
	setter := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		jar.Write(call.Argument(0).String())
		return goja.Undefined()
	})
	_ = document.DefineAccessorProperty("cookie", getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = vm.Set("document", document)
	bindStore(vm, store)
}
