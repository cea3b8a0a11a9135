package server

import "github.com/ironsheep/raster-bridge/internal/commands"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// windowProperties locate the raster layer a view tool works on.
func windowProperties() map[string]interface{} {
	return map[string]interface{}{
		"window": map[string]interface{}{
			"type":        "string",
			"description": "Spatial data window name. Defaults to the current window.",
		},
		"layer": map[string]interface{}{
			"type":        "string",
			"description": "Raster layer name. Defaults to the topmost raster layer.",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns the bridge tools followed by one tool per
// command of table.
func GetToolDefinitions(table *commands.Table) []Tool {
	tools := []Tool{
		// Bridge
		{
			Name:        "script_execute",
			Description: "Run script text in the active interpreter module and return what it printed. Variables persist between calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"script": map[string]interface{}{
						"type":        "string",
						"description": "Script source for the active module",
					},
				},
				"required": []string{"script"},
			},
		},
		{
			Name:        "bridge_status",
			Description: "Report whether the interpreter is running, its modules and the startup message.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Image views
		{
			Name:        "image_open",
			Description: "Import a PNG, JPEG or GIF file as a three-band byte raster element and show it in a new window.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Element name. Defaults to the file name.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_snapshot",
			Description: "Render a raster layer as it is displayed and return it as base64-encoded PNG, optionally cropped, scaled and gridded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(windowProperties(), map[string]interface{}{
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Named region instead of coordinates",
						"enum":        []string{"full", "top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive). Zero means the full image.",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Draw grid lines every N raster pixels. Zero draws none.",
					},
					"grid_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid crossings with column,row",
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as hex. Default #FF0000",
					},
				}),
			},
		},
		{
			Name:        "image_probe",
			Description: "Read the data of every band at one pixel of a raster layer along with the color displayed there.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(windowProperties(), map[string]interface{}{
					"row": map[string]interface{}{
						"type":        "integer",
						"description": "Row (0-based)",
					},
					"column": map[string]interface{}{
						"type":        "integer",
						"description": "Column (0-based)",
					},
				}),
				"required": []string{"row", "column"},
			},
		},
	}

	schemas := table.Schemas()
	tools = append(tools, wireTools(schemas)...)
	for _, schema := range schemas {
		tools = append(tools, Tool{
			Name:        schema.Name,
			Description: schema.Description,
			InputSchema: schema.InputSchema,
		})
	}
	return tools
}

// wireTools are the CBOR variants of array_to_idl and array_to_opticks.
// They take the wrapped command's arguments.
func wireTools(schemas []commands.Schema) []Tool {
	props := func(name string) map[string]interface{} {
		out := map[string]interface{}{}
		for _, schema := range schemas {
			if schema.Name != name {
				continue
			}
			for k, v := range schema.InputSchema["properties"].(map[string]interface{}) {
				out[k] = v
			}
		}
		return out
	}

	importProps := props("array_to_opticks")
	delete(importProps, "array")
	importProps["cbor_base64"] = map[string]interface{}{
		"type":        "string",
		"description": "Base64 of the CBOR array as array_export_cbor returns it",
	}

	return []Tool{
		{
			Name:        "array_export_cbor",
			Description: "Read an array like array_to_idl and return it as base64 CBOR with its exact element type.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": props("array_to_idl"),
			},
		},
		{
			Name:        "array_import_cbor",
			Description: "Store a base64 CBOR array like array_to_opticks. Takes array_to_opticks arguments other than array.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": importProps,
				"required":   []string{"cbor_base64"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(s.table),
		},
	}
}
