package commands

import (
	"fmt"
	"strings"
)

// Status tokens returned by commands that report success or failure.
const (
	Success = "success"
	Failure = "failure"
)

// Routine says whether a command yields a value.
type Routine int

const (
	Function Routine = iota
	Procedure
)

func (r Routine) String() string {
	if r == Procedure {
		return "procedure"
	}
	return "function"
}

// ParamType is the accepted type of an argument or keyword.
type ParamType int

const (
	AnyType ParamType = iota
	StringType
	IntType
	FloatType
	// FlagType keywords are set with /NAME in the interpreter, or any true
	// or non-zero value.
	FlagType
	ArrayType
)

var paramTypeNames = [...]string{"any", "string", "int", "float", "flag", "array"}

func (t ParamType) String() string {
	if int(t) < len(paramTypeNames) {
		return paramTypeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// accepts reports whether v can be read as t.
func (t ParamType) accepts(v Value) bool {
	switch t {
	case StringType:
		_, ok := v.AsString()
		return ok
	case IntType:
		_, ok := v.AsInt()
		return ok
	case FloatType:
		_, ok := v.AsFloat()
		return ok
	case FlagType:
		k := v.Kind()
		return k == KindBool || k == KindInt || k == KindFloat
	case ArrayType:
		_, ok := v.AsArray()
		return ok
	}
	return true
}

// Param describes a positional argument or a keyword.
type Param struct {
	Name        string
	Type        ParamType
	Output      bool
	Description string
}

// Handler performs a command. A failing handler may still return a value;
// when it returns Null the caller sees the failure token.
type Handler func(env *Env, c *Call) (Value, error)

// Command is one entry of the table.
type Command struct {
	Name        string
	Description string
	Routine     Routine

	// MinArgs and MaxArgs bound the positional count. MaxArgs < 0 means
	// no limit.
	MinArgs, MaxArgs int
	Args             []Param
	Keywords         []Param

	Handler Handler
}

func (cmd *Command) keyword(name string) (Param, bool) {
	for _, p := range cmd.Keywords {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Param{}, false
}

// bind validates raw against cmd and returns the call handed to the
// handler, with keyword names upper-cased.
func (cmd *Command) bind(raw Call) (*Call, error) {
	n := len(raw.Args)
	if n < cmd.MinArgs || (cmd.MaxArgs >= 0 && n > cmd.MaxArgs) {
		return nil, fmt.Errorf("%w: %s takes %s, got %d", ErrArgumentInvalid, cmd.Name, cmd.arity(), n)
	}
	for i, v := range raw.Args {
		if i < len(cmd.Args) && !cmd.Args[i].Type.accepts(v) {
			return nil, fmt.Errorf("%w: argument %d (%s) must be %s, got %s",
				ErrArgumentInvalid, i+1, cmd.Args[i].Name, cmd.Args[i].Type, v.Kind())
		}
	}

	c := &Call{Name: cmd.Name, Args: raw.Args, Keywords: make(map[string]Value, len(raw.Keywords))}
	for name, v := range raw.Keywords {
		p, ok := cmd.keyword(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no keyword %s", ErrArgumentInvalid, cmd.Name, strings.ToUpper(name))
		}
		if p.Output || v.IsNull() {
			continue
		}
		if !p.Type.accepts(v) {
			return nil, fmt.Errorf("%w: keyword %s must be %s, got %s", ErrArgumentInvalid, p.Name, p.Type, v.Kind())
		}
		c.Keywords[p.Name] = v
	}
	return c, nil
}

func (cmd *Command) arity() string {
	switch {
	case cmd.MaxArgs == cmd.MinArgs:
		return fmt.Sprintf("%d arguments", cmd.MinArgs)
	case cmd.MaxArgs < 0:
		return fmt.Sprintf("at least %d arguments", cmd.MinArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", cmd.MinArgs, cmd.MaxArgs)
	}
}

// Call is an invocation: the command name, positional arguments and
// keywords.
type Call struct {
	Name     string
	Args     []Value
	Keywords map[string]Value

	outputs map[string]Value
}

// Arg returns positional argument i, or Null when absent.
func (c *Call) Arg(i int) Value {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return Null()
}

// ArgString returns positional argument i as a string, or "" when absent.
func (c *Call) ArgString(i int) string {
	s, _ := c.Arg(i).AsString()
	return s
}

// Has reports whether keyword name was given.
func (c *Call) Has(name string) bool {
	_, ok := c.Keywords[strings.ToUpper(name)]
	return ok
}

// Keyword returns the value of keyword name.
func (c *Call) Keyword(name string) (Value, bool) {
	v, ok := c.Keywords[strings.ToUpper(name)]
	return v, ok
}

// Text returns string keyword name, or def when absent.
func (c *Call) Text(name, def string) string {
	if v, ok := c.Keyword(name); ok {
		if s, ok := v.AsString(); ok {
			return s
		}
	}
	return def
}

func (c *Call) Int(name string, def int) int {
	if v, ok := c.Keyword(name); ok {
		if i, ok := v.AsInt(); ok {
			return int(i)
		}
	}
	return def
}

func (c *Call) Float(name string, def float64) float64 {
	if v, ok := c.Keyword(name); ok {
		if f, ok := v.AsFloat(); ok {
			return f
		}
	}
	return def
}

// Flag reports whether the flag keyword name is set.
func (c *Call) Flag(name string) bool {
	v, ok := c.Keyword(name)
	return ok && v.Truthy()
}

// SetOutput sets output keyword name.
func (c *Call) SetOutput(name string, v Value) {
	if c.outputs == nil {
		c.outputs = make(map[string]Value)
	}
	c.outputs[strings.ToUpper(name)] = v
}

// Result is what a call returns to the runtime.
type Result struct {
	Value   Value
	Outputs map[string]Value
	// Err is set when the command failed. Its text has also been sent to
	// the error channel.
	Err error
}

// Failed reports whether the command failed.
func (r Result) Failed() bool { return r.Err != nil }
