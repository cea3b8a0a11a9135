// Package server implements the MCP (Model Context Protocol) front end of
// the interpreter bridge.
//
// It speaks JSON-RPC 2.0 over stdio, one message per line, and answers
// initialize, tools/list, tools/call and ping. Progress reported by a
// running script is forwarded as notifications/message before the
// response to the call.
//
// # Tools
//
// Bridge:
//   - script_execute: run text in the active interpreter module
//   - bridge_status: session state, modules and startup message
//
// Image views:
//   - image_open: import an image file and show it in a new window
//   - image_snapshot: render a raster layer as PNG, cropped, scaled or gridded
//   - image_probe: band values and displayed color at one pixel
//
// Binary arrays:
//   - array_export_cbor: array_to_idl with the array as base64 CBOR
//   - array_import_cbor: array_to_opticks from a base64 CBOR array
//
// Every host command in the command table is also a tool, named after the
// command in lower case. Positional arguments keep their names and
// everything else is a keyword; output keywords come back under "outputs".
//
// # Error Handling
//
// A tool that fails returns a JSON-RPC error with code -32000 and the Go
// error text as data. A script that fails is not a failed call: its error
// is reported in the result next to the output it produced.
//
// # Usage
//
//	srv := server.New(session, table, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
