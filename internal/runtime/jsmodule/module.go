// Package jsmodule runs JavaScript with goja as a bridge interpreter module.
//
// Every host command becomes a global function under its upper- and
// lower-case names. A plain object passed as the last argument holds the
// keywords, and output keywords are written back into it:
//
//	var kw = {DATASET: "scene"}
//	var img = array_to_idl(kw)
//	print(array_dims(img).join("x"), kw.HEIGHT_OUT)
package jsmodule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("raster-bridge.runtime.js")

// Factory starts JavaScript modules. Preludes use the "js" extension.
type Factory struct{}

func (Factory) Extension() string { return "js" }

// Start creates a runtime, installs the commands and builtins, and runs the
// prelude. A failing prelude fails the start.
func (Factory) Start(ctx bridge.StartContext) (bridge.Module, error) {
	m := &Module{
		name:    ctx.Name,
		vm:      goja.New(),
		env:     ctx.Env,
		table:   ctx.Table,
		output:  ctx.Output,
		timeout: ctx.Timeout,
	}
	if err := m.install(); err != nil {
		return nil, fmt.Errorf("%w: %v", bridge.ErrModuleLoadFailed, err)
	}
	if ctx.Prelude != "" {
		if err := m.run(ctx.PreludePath, ctx.Prelude); err != nil {
			return nil, fmt.Errorf("%w: prelude: %v", bridge.ErrModuleLoadFailed, err)
		}
	}
	return m, nil
}

// Module is one goja runtime. Globals persist between Execute calls.
type Module struct {
	name    string
	vm      *goja.Runtime
	env     *commands.Env
	table   *commands.Table
	output  func(text string, isError bool)
	timeout time.Duration
}

func (m *Module) Name() string { return m.name }

func (m *Module) Execute(text string) error {
	return m.run("script", text)
}

func (m *Module) Close() error {
	m.vm.Interrupt("module closed")
	return nil
}

func (m *Module) run(name, src string) error {
	if m.timeout > 0 {
		timer := time.AfterFunc(m.timeout, func() {
			m.vm.Interrupt("timeout")
		})
		defer timer.Stop()
	}
	_, err := m.vm.RunScript(name, src)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			m.vm.ClearInterrupt()
			return fmt.Errorf("execution interrupted: %v", interrupted.Value())
		}
		return fmt.Errorf("execution error: %w", err)
	}
	return nil
}

func (m *Module) install() error {
	globals := map[string]interface{}{
		"print":        m.printer(false),
		"make_array":   m.makeArray,
		"array_values": m.arrayValues,
		"array_dims":   m.arrayDims,
		"array_type":   m.arrayType,
	}
	console := m.vm.NewObject()
	if err := console.Set("log", m.printer(false)); err != nil {
		return err
	}
	if err := console.Set("error", m.printer(true)); err != nil {
		return err
	}
	globals["console"] = console

	for _, cmd := range m.table.Commands() {
		fn := m.command(cmd.Name)
		globals[strings.ToUpper(cmd.Name)] = fn
		globals[strings.ToLower(cmd.Name)] = fn
	}
	for name, v := range globals {
		if err := m.vm.Set(name, v); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}
	return nil
}

func (m *Module) printer(isError bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = m.display(arg)
		}
		m.output(strings.Join(parts, " ")+"\n", isError)
		return goja.Undefined()
	}
}

func (m *Module) display(v goja.Value) string {
	if h, ok := v.Export().(*arrayHandle); ok {
		return h.String()
	}
	if obj, ok := v.(*goja.Object); ok && obj.ClassName() != "Function" {
		if b, err := obj.MarshalJSON(); err == nil {
			return string(b)
		}
	}
	return v.String()
}

// command returns the global function for the named command.
func (m *Module) command(name string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := call.Arguments
		var kw *goja.Object
		if n := len(args); n > 0 {
			if obj, ok := keywordObject(args[n-1]); ok {
				kw, args = obj, args[:n-1]
			}
		}

		raw := commands.Call{Name: name, Keywords: make(map[string]commands.Value)}
		for i, arg := range args {
			v, err := fromJS(arg)
			if err != nil {
				panic(m.vm.NewTypeError("%s: argument %d: %v", name, i+1, err))
			}
			raw.Args = append(raw.Args, v)
		}
		if kw != nil {
			for _, key := range kw.Keys() {
				v, err := fromJS(kw.Get(key))
				if err != nil {
					panic(m.vm.NewTypeError("%s: keyword %s: %v", name, key, err))
				}
				raw.Keywords[key] = v
			}
		}

		res := m.table.Call(m.env, raw)
		if kw != nil && len(res.Outputs) > 0 {
			m.writeOutputs(kw, res.Outputs)
		}
		return m.toJS(res.Value)
	}
}

func (m *Module) makeArray(call goja.FunctionCall) goja.Value {
	typeName := call.Argument(0).String()
	dims, err := intList(call.Argument(1))
	if err != nil {
		panic(m.vm.NewTypeError("make_array: dims: %v", err))
	}
	var values []float64
	if v := call.Argument(2); !goja.IsUndefined(v) && !goja.IsNull(v) {
		cv, err := fromJS(v)
		if err != nil {
			panic(m.vm.NewTypeError("make_array: values: %v", err))
		}
		fs, ok := cv.Floats()
		if !ok {
			panic(m.vm.NewTypeError("make_array: values must be numbers"))
		}
		values = fs
	}
	arr, err := commands.MakeArray(typeName, dims, values)
	if err != nil {
		panic(m.vm.NewGoError(err))
	}
	return m.vm.ToValue(&arrayHandle{a: arr})
}

func (m *Module) arrayValues(call goja.FunctionCall) goja.Value {
	h := m.handle(call.Argument(0))
	items, _ := commands.ArrayOf(h.a).AsList()
	return m.toJS(commands.List(items...))
}

func (m *Module) arrayDims(call goja.FunctionCall) goja.Value {
	h := m.handle(call.Argument(0))
	out := make([]interface{}, len(h.a.Dims))
	for i, d := range h.a.Dims {
		out[i] = d
	}
	return m.vm.NewArray(out...)
}

func (m *Module) arrayType(call goja.FunctionCall) goja.Value {
	return m.vm.ToValue(m.handle(call.Argument(0)).a.Type().String())
}

func intList(v goja.Value) ([]int, error) {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	cv, err := fromJS(v)
	if err != nil {
		return nil, err
	}
	if i, ok := cv.AsInt(); ok {
		return []int{int(i)}, nil
	}
	items, ok := cv.AsList()
	if !ok {
		return nil, fmt.Errorf("expected a list of integers, got %s", cv.Kind())
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, ok := item.AsInt()
		if !ok {
			return nil, fmt.Errorf("item %d is not an integer", i)
		}
		out[i] = int(n)
	}
	return out, nil
}
