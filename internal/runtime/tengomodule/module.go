// Package tengomodule runs Tengo scripts as a bridge interpreter module.
//
// Each Execute compiles a fresh script. Top-level variables carry over to
// the next call, so a later script updates them with = rather than :=.
// Commands take an optional map of keywords as their last argument and
// output keywords are stored back into it:
//
//	kw := {}
//	img := array_to_idl(kw)
//	println(img.dims, kw.HEIGHT_OUT)
package tengomodule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("raster-bridge.runtime.tengo")

// Modules importable from scripts. "fmt" and "os" are left out because
// they write to the process streams directly.
var importable = []string{"math", "text", "times", "json", "base64", "hex", "enum", "rand"}

const maxAllocs = 10_000_000

// Factory starts Tengo modules. Preludes use the "tengo" extension.
type Factory struct{}

func (Factory) Extension() string { return "tengo" }

func (Factory) Start(ctx bridge.StartContext) (bridge.Module, error) {
	m := &Module{
		name:    ctx.Name,
		env:     ctx.Env,
		table:   ctx.Table,
		output:  ctx.Output,
		timeout: ctx.Timeout,
		globals: make(map[string]tengo.Object),
	}
	m.builtins = m.builtinFuncs()
	if ctx.Prelude != "" {
		if err := m.Execute(ctx.Prelude); err != nil {
			return nil, fmt.Errorf("%w: prelude: %v", bridge.ErrModuleLoadFailed, err)
		}
	}
	return m, nil
}

// Module holds the variables that persist between scripts.
type Module struct {
	name     string
	env      *commands.Env
	table    *commands.Table
	output   func(text string, isError bool)
	timeout  time.Duration
	builtins map[string]*tengo.UserFunction
	globals  map[string]tengo.Object
}

func (m *Module) Name() string { return m.name }

func (m *Module) Close() error {
	m.globals = nil
	return nil
}

func (m *Module) Execute(text string) error {
	script := tengo.NewScript([]byte(text))
	script.SetImports(stdlib.GetModuleMap(importable...))
	script.SetMaxAllocs(maxAllocs)

	for name, fn := range m.builtins {
		if err := script.Add(name, fn); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
	}
	for name, obj := range m.globals {
		if err := script.Add(name, obj); err != nil {
			log.Debugf("dropping variable %s: %v", name, err)
			delete(m.globals, name)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}

	ctx := context.Background()
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	if err := compiled.RunContext(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("execution interrupted: timed out after %s", m.timeout)
		}
		return fmt.Errorf("runtime error: %w", err)
	}

	m.keep(compiled)
	return nil
}

// keep records the script's top-level variables for the next call.
// Functions and imported modules are not carried over.
func (m *Module) keep(compiled *tengo.Compiled) {
	for _, v := range compiled.GetAll() {
		name := v.Name()
		if _, builtin := m.builtins[name]; builtin {
			continue
		}
		switch obj := v.Object().(type) {
		case *tengo.CompiledFunction, *tengo.ImmutableMap:
			continue
		default:
			m.globals[name] = obj
		}
	}
}

func (m *Module) builtinFuncs() map[string]*tengo.UserFunction {
	fns := map[string]*tengo.UserFunction{
		"print":        {Name: "print", Value: m.printer("", false)},
		"println":      {Name: "println", Value: m.printer("\n", false)},
		"print_error":  {Name: "print_error", Value: m.printer("\n", true)},
		"make_array":   {Name: "make_array", Value: makeArray},
		"array_values": {Name: "array_values", Value: arrayValues},
		"array_dims":   {Name: "array_dims", Value: arrayDims},
		"array_type":   {Name: "array_type", Value: arrayType},
	}
	for _, cmd := range m.table.Commands() {
		upper, lower := strings.ToUpper(cmd.Name), strings.ToLower(cmd.Name)
		fn := m.command(cmd.Name)
		fns[upper] = &tengo.UserFunction{Name: upper, Value: fn}
		fns[lower] = &tengo.UserFunction{Name: lower, Value: fn}
	}
	return fns
}

func (m *Module) printer(end string, isError bool) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = objectToString(arg)
		}
		m.output(strings.Join(parts, " ")+end, isError)
		return tengo.UndefinedValue, nil
	}
}

func (m *Module) command(name string) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		var kw *tengo.Map
		if n := len(args); n > 0 {
			if mp, ok := args[n-1].(*tengo.Map); ok {
				kw, args = mp, args[:n-1]
			}
		}

		raw := commands.Call{Name: name, Keywords: make(map[string]commands.Value)}
		for i, arg := range args {
			v, err := fromTengo(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
			}
			raw.Args = append(raw.Args, v)
		}
		if kw != nil {
			for key, obj := range kw.Value {
				v, err := fromTengo(obj)
				if err != nil {
					return nil, fmt.Errorf("%s: keyword %s: %w", name, key, err)
				}
				raw.Keywords[key] = v
			}
		}

		res := m.table.Call(m.env, raw)
		if kw != nil && len(res.Outputs) > 0 {
			writeOutputs(kw, res.Outputs)
		}
		return toTengo(res.Value), nil
	}
}

func makeArray(args ...tengo.Object) (tengo.Object, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, tengo.ErrWrongNumArguments
	}
	typeName, ok := tengo.ToString(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "string", Found: args[0].TypeName()}
	}
	dimsValue, err := fromTengo(args[1])
	if err != nil {
		return nil, err
	}
	var dims []int
	if n, ok := dimsValue.AsInt(); ok {
		dims = []int{int(n)}
	} else {
		items, ok := dimsValue.AsList()
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "second", Expected: "array", Found: args[1].TypeName()}
		}
		for _, item := range items {
			n, ok := item.AsInt()
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "second", Expected: "array of int", Found: item.Kind().String()}
			}
			dims = append(dims, int(n))
		}
	}
	var values []float64
	if len(args) == 3 {
		v, err := fromTengo(args[2])
		if err != nil {
			return nil, err
		}
		if values, ok = v.Floats(); !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "third", Expected: "array of numbers", Found: args[2].TypeName()}
		}
	}
	arr, err := commands.MakeArray(typeName, dims, values)
	if err != nil {
		return nil, err
	}
	return &arrayObject{a: arr}, nil
}

func arrayArg(args []tengo.Object) (*arrayObject, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	o, ok := args[0].(*arrayObject)
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "raster-array", Found: args[0].TypeName()}
	}
	return o, nil
}

func arrayValues(args ...tengo.Object) (tengo.Object, error) {
	o, err := arrayArg(args)
	if err != nil {
		return nil, err
	}
	items, _ := commands.ArrayOf(o.a).AsList()
	return toTengo(commands.List(items...)), nil
}

func arrayDims(args ...tengo.Object) (tengo.Object, error) {
	o, err := arrayArg(args)
	if err != nil {
		return nil, err
	}
	return dimsObject(o.a), nil
}

func arrayType(args ...tengo.Object) (tengo.Object, error) {
	o, err := arrayArg(args)
	if err != nil {
		return nil, err
	}
	return &tengo.String{Value: o.a.Type().String()}, nil
}
