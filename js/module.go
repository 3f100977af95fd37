package js

import (
	"sync"

	"github.com/dop251/goja"
	"golang.org/x/exp/maps"
)

// ModulePrefix the prefix of the native module names
const ModulePrefix = "cookiecat/"

// Module is what a native module needs to return
type Module interface {
	Instantiate(*goja.Runtime) (goja.Value, error)
}

// Global implements the interface will load into global when the VM initialize.
type Global interface {
	Module
	Global() // is it a global module
}

var registry = struct {
	sync.RWMutex
	native map[string]Module
}{
	native: make(map[string]Module),
}

// Register the given mod as an external JavaScript module that can be imported
// by name. Global modules are set by name on the global object instead.
func Register(name string, mod Module) {
	if _, ok := mod.(Global); !ok {
		name = ModulePrefix + name
	}
	registry.Lock()
	registry.native[name] = mod
	registry.Unlock()
}

// GetModule get the module
func GetModule(name string) (Module, bool) {
	registry.RLock()
	defer registry.RUnlock()
	module, ok := registry.native[name]
	return module, ok
}

// AllModule get all module
func AllModule() map[string]Module {
	registry.RLock()
	defer registry.RUnlock()
	return maps.Clone(registry.native)
}

// InitGlobalModule sets all the global modules on the runtime
func InitGlobalModule(vm *goja.Runtime) {
	for name, mod := range AllModule() {
		if _, ok := mod.(Global); !ok {
			continue
		}
		value, err := mod.Instantiate(vm)
		if err != nil {
			continue
		}
		_ = vm.Set(name, value)
	}
}
