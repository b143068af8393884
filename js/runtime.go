// Package js exposes quickhtml trees to JavaScript through the goja engine
// (pure Go ES5.1+ implementation).
package js

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/quickhtml/dom"
)

// Options configures a Runtime.
type Options struct {
	// Logger receives console output and script errors. Nil discards them.
	Logger *zap.Logger

	// Parse holds the defaults for the global parse function. Keys passed
	// from script override them.
	Parse *dom.ParseOptions
}

// Runtime wraps a goja runtime with a global parse function.
type Runtime struct {
	vm      *goja.Runtime
	binder  *DOMBinder
	log     *zap.Logger
	parse   dom.ParseOptions
	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// New creates a runtime with parse and console installed.
func New(opts Options) *Runtime {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runtime{
		vm:  goja.New(),
		log: log.Named("js"),
	}
	if opts.Parse != nil {
		r.parse = *opts.Parse
	}
	if r.parse.Logger == nil {
		r.parse.Logger = log
	}
	r.binder = NewDOMBinder(r)

	r.setupConsole()
	r.setupParse()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Binder returns the binder that maps tree nodes to script objects.
func (r *Runtime) Binder() *DOMBinder {
	return r.binder
}

// SetOnError sets a callback for script errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Run executes code and returns its completion value.
func (r *Runtime) Run(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// goja can panic on malformed input
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.fail(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.fail(err)
	}
	return result, err
}

// RunScript compiles code under name, in sloppy mode, and runs it.
func (r *Runtime) RunScript(name, code string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", name, p)
			r.fail(err)
		}
	}()

	program, err := goja.Compile(name, code, false)
	if err != nil {
		r.fail(err)
		return err
	}
	if _, err = r.vm.RunProgram(program); err != nil {
		r.fail(err)
	}
	return err
}

func (r *Runtime) fail(err error) {
	r.log.Debug("script failed", zap.Error(err))
	r.errors = append(r.errors, err)
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// setupParse installs parse(html, options). Option keys are
// lowerCaseTagName, script, style, pre and comment.
func (r *Runtime) setupParse() {
	r.vm.Set("parse", func(call goja.FunctionCall) goja.Value {
		opts := r.parse
		if o, ok := call.Argument(1).(*goja.Object); ok {
			flag := func(key string, dst *bool) {
				if v := o.Get(key); v != nil && !goja.IsUndefined(v) {
					*dst = v.ToBoolean()
				}
			}
			flag("lowerCaseTagName", &opts.LowerCaseTagName)
			flag("script", &opts.Script)
			flag("style", &opts.Style)
			flag("pre", &opts.Pre)
			flag("comment", &opts.Comment)
		}
		root, _ := dom.Parse(call.Argument(0).String(), &opts)
		return r.binder.BindElement(root)
	})
}

// setupConsole routes console output to the logger.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	log := r.log.Named("console")

	levels := map[string]func(string, ...zap.Field){
		"log":   log.Info,
		"info":  log.Info,
		"warn":  log.Warn,
		"error": log.Error,
		"debug": log.Debug,
	}
	for name, write := range levels {
		write := write // per-iteration copy; go.mod targets Go 1.21 loop semantics
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			write(formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			log.Error(msg, zap.Bool("assert", true))
		}
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

// formatArgs formats console arguments separated by spaces.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
