package js

import (
	"bytes"
	"context"
	"fmt"
	"runtime/debug"

	"github.com/dop251/goja"
	"github.com/shiroyk/cookiecat/cookie"
	"golang.org/x/exp/slog"
)

// VM the js runtime.
// An instance of VM can only be used by a single goroutine at a time.
type VM interface {
	// Run the js program
	Run(context.Context, Program) (goja.Value, error)
	// RunString the js string
	RunString(context.Context, string) (goja.Value, error)
	// Runtime the js runtime
	Runtime() *goja.Runtime
}

// Options the VM options
type Options struct {
	// Jar the document cookie, scripts have no document when nil.
	Jar cookie.CookieJar
	// Logger the console and store logger, defaults to slog.Default.
	Logger *slog.Logger
	// ModulePath the global folders of require.
	ModulePath []string
	// UseStrict compile the scripts in strict mode.
	UseStrict bool
}

type vmImpl struct {
	runtime   *goja.Runtime
	logger    *slog.Logger
	executor  goja.Callable
	useStrict bool
}

// executor evaluates the code with the args in scope. Declarations of a direct
// eval stay inside it, so a pooled VM does not keep the globals of the last run.
const executor = `(function(ctx, code){with(ctx){return eval(code)}})`

var executorProgram = goja.MustCompile("executor", executor, false)

// NewVM creates a new JavaScript VM
// Initialize the require, global module, console and document
func NewVM(opt Options) VM {
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runtime := goja.New()
	runtime.SetFieldNameMapper(FieldNameMapper{})
	EnableRequire(runtime, opt.ModulePath...)
	EnableConsole(runtime, logger)
	if opt.Jar != nil {
		EnableDocument(runtime, opt.Jar, cookie.New(opt.Jar, cookie.WithLogger(logger)))
	}
	InitGlobalModule(runtime)

	callable, err := runtime.RunProgram(executorProgram)
	if err != nil {
		panic(err)
	}
	exec, ok := goja.AssertFunction(callable)
	if !ok {
		panic("js: executor is not a function")
	}

	return &vmImpl{runtime, logger, exec, opt.UseStrict}
}

// Run the js program
func (vm *vmImpl) Run(ctx context.Context, p Program) (ret goja.Value, err error) {
	// resets the interrupt flag.
	vm.runtime.ClearInterrupt()

	done := make(chan struct{})
	defer func() {
		close(done)
		if r := recover(); r != nil {
			stack := vm.runtime.CaptureCallStack(20, nil)
			buf := new(bytes.Buffer)
			for _, frame := range stack {
				frame.Write(buf)
			}
			vm.logger.Error(fmt.Sprintf("vm run error %s", r),
				"stack", string(debug.Stack()), "js stack", buf.String())
			err = fmt.Errorf("vm run error: %v", r)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			// Interrupt running JavaScript.
			vm.runtime.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	_ = vm.runtime.Set(VMContextKey, ctx)
	defer func() { _ = vm.runtime.GlobalObject().Delete(VMContextKey) }()

	args := make(map[string]any, len(p.Args))
	for k, v := range p.Args {
		args[k] = v
	}
	code := p.Code
	if vm.useStrict {
		code = "'use strict';\n" + code
	}

	return vm.executor(goja.Undefined(), vm.runtime.ToValue(args), vm.runtime.ToValue(code))
}

// RunString the js string
func (vm *vmImpl) RunString(ctx context.Context, s string) (goja.Value, error) {
	return vm.Run(ctx, Program{Code: s})
}

// Runtime the js runtime
func (vm *vmImpl) Runtime() *goja.Runtime {
	return vm.runtime
}
