// Package types the cookiecat/type js module
//
//	const { getType } = require("cookiecat/type");
//	getType([1, 2]); // "array"
package types

import (
	"github.com/dop251/goja"
	"github.com/shiroyk/cookiecat/js"
	"github.com/shiroyk/cookiecat/types"
)

// Module js module
type Module struct{}

// Instantiate module
func (Module) Instantiate(rt *goja.Runtime) (goja.Value, error) {
	return rt.ToValue(&Type{}), nil
}

func init() {
	js.Register("type", new(Module))
}

// Type classifies js values.
type Type struct{}

// GetType returns the normalized type tag of the value,
// undefined when the tag is not known.
func (*Type) GetType(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
	if tag, ok := types.Lookup(call.Argument(0)); ok {
		return vm.ToValue(tag)
	}
	return goja.Undefined()
}

// Tag returns the structural tag of the value, "[object Array]".
func (*Type) Tag(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
	return vm.ToValue(types.TagOf(call.Argument(0)))
}
