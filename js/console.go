package js

import (
	"github.com/dop251/goja"
	"golang.org/x/exp/slog"
)

var attr = slog.String("source", "js")

// EnableConsole sets the console global, its output goes to the logger.
func EnableConsole(vm *goja.Runtime, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &console{logger}
	object := vm.NewObject()
	_ = object.Set("log", c.level(slog.LevelInfo))
	_ = object.Set("info", c.level(slog.LevelInfo))
	_ = object.Set("debug", c.level(slog.LevelDebug))
	_ = object.Set("warn", c.level(slog.LevelWarn))
	_ = object.Set("error", c.level(slog.LevelError))
	_ = vm.Set("console", object)
}

// console implements the js console
type console struct {
	logger *slog.Logger
}

func (c *console) level(level slog.Level) func(goja.FunctionCall, *goja.Runtime) goja.Value {
	return func(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
		c.logger.Log(VMContext(vm), level, Format(call, vm).String(), attr)
		return goja.Undefined()
	}
}
