package jsmodule

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/encoding"
)

// arrayHandle carries an exchange array through JavaScript untouched.
// Scripts see an opaque host object; array_values and friends look inside.
type arrayHandle struct {
	a encoding.Array
}

func (h *arrayHandle) String() string {
	return fmt.Sprintf("<%s array %v>", h.a.Type(), h.a.Dims)
}

func (m *Module) toJS(v commands.Value) goja.Value {
	switch v.Kind() {
	case commands.KindNull:
		return goja.Undefined()
	case commands.KindArray:
		a, _ := v.AsArray()
		return m.vm.ToValue(&arrayHandle{a: a})
	case commands.KindList:
		items, _ := v.AsList()
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = m.toJS(item)
		}
		return m.vm.NewArray(out...)
	}
	return m.vm.ToValue(v.Any())
}

func fromJS(v goja.Value) (commands.Value, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return commands.Null(), nil
	}
	return fromExport(v.Export())
}

func fromExport(x interface{}) (commands.Value, error) {
	switch x := x.(type) {
	case *arrayHandle:
		return commands.ArrayOf(x.a), nil
	case []interface{}:
		items := make([]commands.Value, len(x))
		for i, item := range x {
			v, err := fromExport(item)
			if err != nil {
				return commands.Null(), err
			}
			items[i] = v
		}
		return commands.List(items...), nil
	}
	return commands.FromAny(x)
}

// keywordObject reports whether v is a plain object literal, which as the
// final argument of a command call holds its keywords.
func keywordObject(v goja.Value) (*goja.Object, bool) {
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Object" {
		return nil, false
	}
	if _, ok := obj.Export().(map[string]interface{}); !ok {
		return nil, false
	}
	return obj, true
}

// writeOutputs stores output keywords back into the caller's keyword
// object, reusing the caller's spelling of the key when there is one.
func (m *Module) writeOutputs(obj *goja.Object, outputs map[string]commands.Value) {
	keys := obj.Keys()
	for name, v := range outputs {
		key := name
		for _, k := range keys {
			if strings.EqualFold(k, name) {
				key = k
				break
			}
		}
		if err := obj.Set(key, m.toJS(v)); err != nil {
			log.Warningf("cannot set output keyword %s: %v", key, err)
		}
	}
}

func (m *Module) handle(v goja.Value) *arrayHandle {
	if v != nil {
		if h, ok := v.Export().(*arrayHandle); ok {
			return h
		}
	}
	panic(m.vm.NewTypeError("expected an array made by make_array or a command"))
}
