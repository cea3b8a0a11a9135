package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("raster-bridge.commands")

// Table maps command names to commands. Names are matched without regard
// to case.
type Table struct {
	commands []Command
	index    map[string]int
}

// NewTable builds a table from groups of commands. Duplicate names, and
// positional names that clash with a keyword, are rejected.
func NewTable(groups ...[]Command) (*Table, error) {
	t := &Table{index: make(map[string]int)}
	for _, group := range groups {
		for _, cmd := range group {
			key := strings.ToUpper(cmd.Name)
			if _, dup := t.index[key]; dup {
				return nil, fmt.Errorf("duplicate command %s", cmd.Name)
			}
			if cmd.Handler == nil {
				return nil, fmt.Errorf("command %s has no handler", cmd.Name)
			}
			for _, p := range cmd.Args {
				if _, clash := cmd.keyword(p.Name); clash {
					return nil, fmt.Errorf("command %s: argument %s clashes with a keyword", cmd.Name, p.Name)
				}
			}
			t.index[key] = len(t.commands)
			t.commands = append(t.commands, cmd)
		}
	}
	return t, nil
}

// Default returns the table of every host command.
func Default() *Table {
	t, err := NewTable(
		arrayCommands(),
		layerCommands(),
		windowCommands(),
		animationCommands(),
		visualizationCommands(),
		gpuCommands(),
		miscCommands(),
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the command named name.
func (t *Table) Lookup(name string) (*Command, bool) {
	i, ok := t.index[strings.ToUpper(name)]
	if !ok {
		return nil, false
	}
	return &t.commands[i], true
}

// Commands returns the commands sorted by name.
func (t *Table) Commands() []Command {
	out := append([]Command(nil), t.commands...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the command names sorted.
func (t *Table) Names() []string {
	names := make([]string, len(t.commands))
	for i, cmd := range t.Commands() {
		names[i] = cmd.Name
	}
	return names
}

// Call validates and runs raw. It never panics and never returns a Null
// value for a failed call.
func (t *Table) Call(env *Env, raw Call) (res Result) {
	cmd, ok := t.Lookup(raw.Name)
	if !ok {
		return fail(env, Null(), fmt.Errorf("%w: unknown command %s", ErrNotFound, raw.Name))
	}
	c, err := cmd.bind(raw)
	if err != nil {
		return fail(env, Null(), err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("command %s panicked: %v", cmd.Name, r)
			res = fail(env, Null(), fmt.Errorf("%s: internal error: %v", cmd.Name, r))
		}
	}()

	log.Debugf("calling %s with %d arguments", cmd.Name, len(c.Args))
	v, err := cmd.Handler(env, c)
	if err != nil {
		res = fail(env, v, fmt.Errorf("%s: %w", cmd.Name, err))
		res.Outputs = c.outputs
		return res
	}
	return Result{Value: v, Outputs: c.outputs}
}

func fail(env *Env, v Value, err error) Result {
	if v.IsNull() {
		v = String(Failure)
	}
	if env != nil {
		env.emit(err.Error()+"\n", true)
	}
	return Result{Value: v, Err: err}
}

// Bind builds a call from named arguments, as the MCP front end receives
// them: entries named after a positional argument fill that position,
// everything else is a keyword.
func (t *Table) Bind(name string, args map[string]any) (Call, error) {
	cmd, ok := t.Lookup(name)
	if !ok {
		return Call{}, fmt.Errorf("%w: unknown command %s", ErrNotFound, name)
	}
	call := Call{Name: cmd.Name, Keywords: make(map[string]Value)}
	used := make(map[string]bool)
	for _, p := range cmd.Args {
		raw, ok := lookupFold(args, p.Name)
		if !ok {
			break
		}
		v, err := FromAny(raw)
		if err != nil {
			return Call{}, fmt.Errorf("argument %s: %w", p.Name, err)
		}
		call.Args = append(call.Args, v)
		used[strings.ToUpper(p.Name)] = true
	}
	for k, raw := range args {
		if used[strings.ToUpper(k)] {
			continue
		}
		v, err := FromAny(raw)
		if err != nil {
			return Call{}, fmt.Errorf("keyword %s: %w", k, err)
		}
		call.Keywords[k] = v
	}
	return call, nil
}

func lookupFold(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// Schema is a command rendered as a JSON-schema tool definition.
type Schema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Schemas describes every command, sorted by name. Tool names are the
// lower-case command names.
func (t *Table) Schemas() []Schema {
	var out []Schema
	for _, cmd := range t.Commands() {
		props := map[string]interface{}{}
		var required []string
		for i, p := range cmd.Args {
			props[p.Name] = paramSchema(p)
			if i < cmd.MinArgs {
				required = append(required, p.Name)
			}
		}
		var outputs []string
		for _, p := range cmd.Keywords {
			if p.Output {
				outputs = append(outputs, p.Name)
				continue
			}
			props[p.Name] = paramSchema(p)
		}

		desc := cmd.Description
		if len(outputs) > 0 {
			desc += " Outputs: " + strings.Join(outputs, ", ") + "."
		}
		schema := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(required) > 0 {
			schema["required"] = required
		}
		out = append(out, Schema{
			Name:        strings.ToLower(cmd.Name),
			Description: desc,
			InputSchema: schema,
		})
	}
	return out
}

func paramSchema(p Param) map[string]interface{} {
	s := map[string]interface{}{"description": p.Description}
	switch p.Type {
	case StringType:
		s["type"] = "string"
	case IntType:
		s["type"] = "integer"
	case FloatType:
		s["type"] = "number"
	case FlagType:
		s["type"] = "boolean"
	case ArrayType:
		s["type"] = "array"
		s["items"] = map[string]interface{}{"type": "number"}
	}
	return s
}
