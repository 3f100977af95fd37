// Package js the JavaScript host of the document cookie.
//
// A VM exposes the document.cookie accessor of a cookie.CookieJar, a console
// backed by slog and a require function resolving the native modules
// registered under the "cookiecat/" prefix as well as CommonJS files.
package js

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/shiroyk/cookiecat/cookie"
)

const (
	// VMContextKey the context of the current run
	VMContextKey = "__ctx__"
	// storeKey the cookie.Store of the runtime
	storeKey = "__store__"
)

// ErrNoDocument the runtime has no document cookie
var ErrNoDocument = errors.New("runtime has no document cookie")

// Program The js program
type Program struct {
	Code string
	Args map[string]any
}

// Throw js exception
func Throw(vm *goja.Runtime, err error) {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		panic(ex)
	}
	panic(vm.NewGoError(err))
}

// Unwrap the goja.Value to the raw value
func Unwrap(value goja.Value) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.Export().(type) {
	default:
		return v, nil
	case goja.ArrayBuffer:
		return v.Bytes(), nil
	case *goja.Promise:
		switch v.State() {
		case goja.PromiseStateRejected:
			return nil, errors.New(v.Result().String())
		case goja.PromiseStateFulfilled:
			return v.Result().Export(), nil
		default:
			return nil, fmt.Errorf("unexpected promise state: %v", v.State())
		}
	}
}

// VMContext returns the current context of the goja.Runtime
func VMContext(vm *goja.Runtime) context.Context {
	if v := vm.Get(VMContextKey); v != nil {
		if c, ok := v.Export().(context.Context); ok {
			return c
		}
	}
	return context.Background()
}

// Store returns the cookie.Store bound to the goja.Runtime
func Store(vm *goja.Runtime) (*cookie.Store, error) {
	if v := vm.GlobalObject().GetSymbol(storeSymbol); v != nil {
		if s, ok := v.Export().(*cookie.Store); ok {
			return s, nil
		}
	}
	return nil, ErrNoDocument
}

var storeSymbol = goja.NewSymbol(storeKey)

// bindStore binds the store to the runtime, hidden from scripts.
func bindStore(vm *goja.Runtime, s *cookie.Store) {
	_ = vm.GlobalObject().SetSymbol(storeSymbol, vm.ToValue(s))
}
