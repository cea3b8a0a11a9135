package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/exchange"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "script_execute", "get_num_layers").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Infof("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches a tool to its handler. Names that are not bridge
// or image tools are looked up in the command table.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Bridge
	case "script_execute":
		return s.handleScriptExecute(args)
	case "bridge_status":
		return s.handleBridgeStatus()

	// Image views
	case "image_open":
		return s.handleImageOpen(args)
	case "image_snapshot":
		return s.handleImageSnapshot(args)
	case "image_probe":
		return s.handleImageProbe(args)

	// Binary arrays
	case "array_export_cbor":
		return s.handleArrayExport(args)
	case "array_import_cbor":
		return s.handleArrayImport(args)
	}

	if _, ok := s.table.Lookup(name); ok {
		return s.handleCommand(name, args)
	}
	return nil, fmt.Errorf("unknown tool: %s", name)
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Bridge Handlers ===

type scriptExecuteArgs struct {
	Script string `json:"script"`
}

// ProgressUpdate is a REPORT_PROGRESS call seen during a script.
type ProgressUpdate struct {
	Message string `json:"message"`
	Percent int    `json:"percent"`
	Level   string `json:"level"`
}

// ScriptResult is what script_execute returns. A script error is reported
// in Error rather than failing the tool call, so the output is not lost.
type ScriptResult struct {
	Module      string           `json:"module"`
	Output      string           `json:"output"`
	ErrorOutput string           `json:"error_output,omitempty"`
	Error       string           `json:"error,omitempty"`
	Progress    []ProgressUpdate `json:"progress,omitempty"`
}

// progressRelay records progress and forwards it to the client as log
// notifications.
type progressRelay struct {
	updates []ProgressUpdate
	notify  func(MCPNotification)
}

func (p *progressRelay) UpdateProgress(message string, percent int, level host.ReportingLevel) {
	u := ProgressUpdate{Message: message, Percent: percent, Level: level.String()}
	p.updates = append(p.updates, u)
	if p.notify == nil {
		return
	}
	logLevel := "info"
	switch level {
	case host.Warning:
		logLevel = "warning"
	case host.Abort, host.Errors:
		logLevel = "error"
	}
	p.notify(MCPNotification{
		JSONRPC: "2.0",
		Method:  "notifications/message",
		Params: map[string]interface{}{
			"level":  logLevel,
			"logger": "raster-bridge",
			"data":   u,
		},
	})
}

func (s *Server) handleScriptExecute(args json.RawMessage) (interface{}, error) {
	var a scriptExecuteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Script) == "" {
		return nil, fmt.Errorf("script is required")
	}

	relay := &progressRelay{notify: s.notify}
	out, errText, err := s.session.Execute(a.Script, relay)
	if err != nil && !s.session.Running() {
		return nil, err
	}
	result := &ScriptResult{
		Module:      s.session.Active(),
		Output:      out,
		ErrorOutput: errText,
		Progress:    relay.updates,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result, nil
}

// BridgeStatus describes the bridge session.
type BridgeStatus struct {
	State          string   `json:"state"`
	Modules        []string `json:"modules"`
	Active         string   `json:"active"`
	Interactive    bool     `json:"interactive"`
	StartupMessage string   `json:"startup_message,omitempty"`
}

func (s *Server) handleBridgeStatus() (interface{}, error) {
	return &BridgeStatus{
		State:          s.session.State().String(),
		Modules:        s.session.Modules(),
		Active:         s.session.Active(),
		Interactive:    s.session.Interactive(),
		StartupMessage: s.session.StartupMessage(),
	}, nil
}

// === Command Handlers ===

// CommandResult is what a command tool returns.
type CommandResult struct {
	Command     string                 `json:"command"`
	Value       interface{}            `json:"value"`
	Outputs     map[string]interface{} `json:"outputs,omitempty"`
	Output      string                 `json:"output,omitempty"`
	ErrorOutput string                 `json:"error_output,omitempty"`
}

// ArrayResult is an exchange array in JSON form.
type ArrayResult struct {
	Type   string    `json:"type"`
	Dims   []int     `json:"dims"`
	Values []float64 `json:"values"`
}

// jsonValue converts a command value to something encoding/json renders
// faithfully.
func jsonValue(v commands.Value) interface{} {
	switch v.Kind() {
	case commands.KindArray:
		a, _ := v.AsArray()
		values, _ := v.Floats()
		return &ArrayResult{Type: a.Type().String(), Dims: a.Dims, Values: values}
	case commands.KindList:
		items, _ := v.AsList()
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = jsonValue(item)
		}
		return out
	}
	return v.Any()
}

// commandRun is one command call made through the MCP front end.
type commandRun struct {
	call        commands.Call
	res         commands.Result
	output      string
	errorOutput string
}

// runCommand binds named arguments and calls the command. Text the command
// writes is captured for this call rather than left for the next script.
func (s *Server) runCommand(name string, named map[string]interface{}) (*commandRun, error) {
	call, err := s.table.Bind(name, named)
	if err != nil {
		return nil, err
	}

	var out, errs strings.Builder
	prev := s.env.Output
	s.env.Output = func(text string, isError bool) {
		if isError {
			errs.WriteString(text)
		} else {
			out.WriteString(text)
		}
	}
	res := s.table.Call(s.env, call)
	s.env.Output = prev

	if res.Failed() {
		return nil, res.Err
	}
	return &commandRun{call: call, res: res, output: out.String(), errorOutput: errs.String()}, nil
}

func outputsJSON(outputs map[string]commands.Value) map[string]interface{} {
	if len(outputs) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(outputs))
	for k, v := range outputs {
		out[k] = jsonValue(v)
	}
	return out
}

func (s *Server) handleCommand(name string, args json.RawMessage) (interface{}, error) {
	var named map[string]interface{}
	if err := json.Unmarshal(args, &named); err != nil {
		return nil, err
	}
	run, err := s.runCommand(name, named)
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Command:     run.call.Name,
		Value:       jsonValue(run.res.Value),
		Outputs:     outputsJSON(run.res.Outputs),
		Output:      run.output,
		ErrorOutput: run.errorOutput,
	}, nil
}

// === Binary Array Handlers ===

// WireArrayResult is an exchange array in its CBOR wire form.
type WireArrayResult struct {
	Type    string                 `json:"type"`
	Dims    []int                  `json:"dims"`
	CBOR    string                 `json:"cbor_base64"`
	Outputs map[string]interface{} `json:"outputs,omitempty"`
}

// handleArrayExport runs ARRAY_TO_IDL and returns the array as CBOR, which
// keeps the element type that JSON numbers lose.
func (s *Server) handleArrayExport(args json.RawMessage) (interface{}, error) {
	var named map[string]interface{}
	if err := json.Unmarshal(args, &named); err != nil {
		return nil, err
	}
	run, err := s.runCommand("ARRAY_TO_IDL", named)
	if err != nil {
		return nil, err
	}
	a, ok := run.res.Value.AsArray()
	if !ok {
		return nil, fmt.Errorf("ARRAY_TO_IDL returned %s, not an array", run.res.Value.Kind())
	}
	data, err := exchange.MarshalArray(a)
	if err != nil {
		return nil, err
	}
	return &WireArrayResult{
		Type:    a.Type().String(),
		Dims:    a.Dims,
		CBOR:    base64.StdEncoding.EncodeToString(data),
		Outputs: outputsJSON(run.res.Outputs),
	}, nil
}

// handleArrayImport decodes a CBOR array and stores it with
// ARRAY_TO_OPTICKS. The remaining arguments are that command's.
func (s *Server) handleArrayImport(args json.RawMessage) (interface{}, error) {
	var named map[string]interface{}
	if err := json.Unmarshal(args, &named); err != nil {
		return nil, err
	}
	encoded, _ := named["cbor_base64"].(string)
	if encoded == "" {
		return nil, errors.New("cbor_base64 is required")
	}
	delete(named, "cbor_base64")
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("cbor_base64: %w", err)
	}
	a, err := exchange.UnmarshalArray(data)
	if err != nil {
		return nil, err
	}
	named["array"] = commands.ArrayOf(a)

	run, err := s.runCommand("ARRAY_TO_OPTICKS", named)
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Command:     run.call.Name,
		Value:       jsonValue(run.res.Value),
		Outputs:     outputsJSON(run.res.Outputs),
		Output:      run.output,
		ErrorOutput: run.errorOutput,
	}, nil
}

// === Image View Handlers ===

type imageOpenArgs struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// OpenResult describes an imported image and the window showing it.
type OpenResult struct {
	*imaging.ImageInfo
	Window string `json:"window"`
	Layer  string `json:"layer"`
}

func (s *Server) handleImageOpen(args json.RawMessage) (interface{}, error) {
	var a imageOpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	h := s.env.Host
	e, info, err := imaging.Import(h, s.env.Images, a.Path, a.Name)
	if err != nil {
		return nil, err
	}
	w, l, err := h.OpenWindow(e)
	if err != nil {
		h.Model.Destroy(e)
		return nil, err
	}
	return &OpenResult{ImageInfo: info, Window: w.Name(), Layer: l.Name()}, nil
}

type layerArgs struct {
	Window string `json:"window"`
	Layer  string `json:"layer"`
}

// rasterLayer resolves the window and layer arguments.
func (s *Server) rasterLayer(a layerArgs) (*host.RasterLayer, error) {
	_, v, err := s.env.Host.Desktop.ResolveSpatial(a.Window)
	if err != nil {
		return nil, err
	}
	if a.Layer == "" {
		if l := v.TopMostRasterLayer(); l != nil {
			return l, nil
		}
		return nil, fmt.Errorf("window %q has no raster layer", v.Name())
	}
	l, ok := v.Layer(a.Layer).(*host.RasterLayer)
	if !ok {
		return nil, fmt.Errorf("no raster layer %q in window %q", a.Layer, v.Name())
	}
	return l, nil
}

type imageSnapshotArgs struct {
	layerArgs
	Region      string  `json:"region"`
	X1          int     `json:"x1"`
	Y1          int     `json:"y1"`
	X2          int     `json:"x2"`
	Y2          int     `json:"y2"`
	Scale       float64 `json:"scale"`
	GridSpacing int     `json:"grid_spacing"`
	GridLabels  bool    `json:"grid_labels"`
	GridColor   string  `json:"grid_color"`
}

func (s *Server) handleImageSnapshot(args json.RawMessage) (interface{}, error) {
	var a imageSnapshotArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.GridColor == "" {
		a.GridColor = "#FF0000"
	}
	if a.Region != "" && a.X2 > 0 {
		return nil, errors.New("give either region or x1/y1/x2/y2, not both")
	}

	l, err := s.rasterLayer(a.layerArgs)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Render(l)
	if err != nil {
		return nil, err
	}

	rect := img.Bounds()
	switch {
	case a.Region != "":
		if rect, err = imaging.NamedRegion(img.Bounds(), a.Region); err != nil {
			return nil, err
		}
	case a.X2 > 0 || a.Y2 > 0:
		rect = image.Rect(a.X1, a.Y1, a.X2, a.Y2)
	}

	if a.GridSpacing > 0 {
		gridded, err := imaging.DrawGrid(img, a.GridSpacing, a.GridLabels, a.GridColor, image.Point{})
		if err != nil {
			return nil, err
		}
		img = gridded
	}
	return imaging.Crop(img, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, a.Scale)
}

type imageProbeArgs struct {
	layerArgs
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (s *Server) handleImageProbe(args json.RawMessage) (interface{}, error) {
	var a imageProbeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	l, err := s.rasterLayer(a.layerArgs)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Render(l)
	if err != nil {
		return nil, err
	}
	return imaging.Probe(l, img, a.Row, a.Column)
}
