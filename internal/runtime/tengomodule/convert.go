package tengomodule

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/encoding"
)

// arrayObject wraps an exchange array. Scripts index it for elements and
// read "dims", "type" and "len" from it.
type arrayObject struct {
	tengo.ObjectImpl
	a encoding.Array
}

func (o *arrayObject) TypeName() string { return "raster-array" }

func (o *arrayObject) String() string {
	return fmt.Sprintf("<%s array %v>", o.a.Type(), o.a.Dims)
}

func (o *arrayObject) IsFalsy() bool { return o.a.Len() == 0 }

func (o *arrayObject) Copy() tengo.Object { return &arrayObject{a: o.a} }

func (o *arrayObject) Equals(x tengo.Object) bool {
	y, ok := x.(*arrayObject)
	return ok && y == o
}

func (o *arrayObject) IndexGet(index tengo.Object) (tengo.Object, error) {
	switch index := index.(type) {
	case *tengo.Int:
		v, err := commands.Element(o.a, int(index.Value))
		if err != nil {
			return nil, tengo.ErrIndexOutOfBounds
		}
		return toTengo(v), nil
	case *tengo.String:
		switch index.Value {
		case "dims":
			return dimsObject(o.a), nil
		case "type":
			return &tengo.String{Value: o.a.Type().String()}, nil
		case "len":
			return &tengo.Int{Value: int64(o.a.Len())}, nil
		}
		return tengo.UndefinedValue, nil
	}
	return nil, tengo.ErrInvalidIndexType
}

func dimsObject(a encoding.Array) tengo.Object {
	out := make([]tengo.Object, len(a.Dims))
	for i, d := range a.Dims {
		out[i] = &tengo.Int{Value: int64(d)}
	}
	return &tengo.Array{Value: out}
}

func toTengo(v commands.Value) tengo.Object {
	switch v.Kind() {
	case commands.KindString:
		s, _ := v.AsString()
		return &tengo.String{Value: s}
	case commands.KindInt:
		i, _ := v.AsInt()
		return &tengo.Int{Value: i}
	case commands.KindFloat:
		f, _ := v.AsFloat()
		return &tengo.Float{Value: f}
	case commands.KindBool:
		if v.Truthy() {
			return tengo.TrueValue
		}
		return tengo.FalseValue
	case commands.KindArray:
		a, _ := v.AsArray()
		return &arrayObject{a: a}
	case commands.KindList:
		items, _ := v.AsList()
		out := make([]tengo.Object, len(items))
		for i, item := range items {
			out[i] = toTengo(item)
		}
		return &tengo.Array{Value: out}
	}
	return tengo.UndefinedValue
}

func fromTengo(o tengo.Object) (commands.Value, error) {
	switch o := o.(type) {
	case nil, *tengo.Undefined:
		return commands.Null(), nil
	case *tengo.String:
		return commands.String(o.Value), nil
	case *tengo.Char:
		return commands.String(string(o.Value)), nil
	case *tengo.Int:
		return commands.Int(o.Value), nil
	case *tengo.Float:
		return commands.Float(o.Value), nil
	case *tengo.Bool:
		return commands.Bool(!o.IsFalsy()), nil
	case *arrayObject:
		return commands.ArrayOf(o.a), nil
	case *tengo.Array:
		return listOf(o.Value)
	case *tengo.ImmutableArray:
		return listOf(o.Value)
	}
	return commands.Null(), fmt.Errorf("cannot pass %s to a command", o.TypeName())
}

func listOf(objs []tengo.Object) (commands.Value, error) {
	items := make([]commands.Value, len(objs))
	for i, obj := range objs {
		v, err := fromTengo(obj)
		if err != nil {
			return commands.Null(), err
		}
		items[i] = v
	}
	return commands.List(items...), nil
}

// writeOutputs stores output keywords into the caller's keyword map,
// reusing the caller's spelling of the key when there is one.
func writeOutputs(kw *tengo.Map, outputs map[string]commands.Value) {
	for name, v := range outputs {
		key := name
		for k := range kw.Value {
			if strings.EqualFold(k, name) {
				key = k
				break
			}
		}
		kw.Value[key] = toTengo(v)
	}
}

func objectToString(obj tengo.Object) string {
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return fmt.Sprintf("%d", v.Value)
	case *tengo.Float:
		return fmt.Sprintf("%g", v.Value)
	case *tengo.Bool:
		if !v.IsFalsy() {
			return "true"
		}
		return "false"
	case *tengo.Undefined:
		return "undefined"
	default:
		return obj.String()
	}
}
