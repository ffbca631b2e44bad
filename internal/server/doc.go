// Package server implements the MCP (Model Context Protocol) front end of
// the image generation service.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line, and
// routes tool calls to the same service layer the HTTP API uses.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Templates:
//   - template_list: Configured templates and their image/text counts
//   - template_render: Render a template from texts and image sources
//
// Single Image Operations:
//   - image_transform: Flip, rotate, grayscale, invert or blur a source
//
// Color Operations:
//   - image_color: Solid color square
//   - image_colorblend: Mix a source with a color
//   - image_merge: Average two sources
//
// Image results are returned as JSON text holding width, height and a
// base64 PNG.
//
// # Error Handling
//
// Tool failures are JSON-RPC errors with code -32000. The data member
// holds the error kind (invalid_input, size_limit, template_not_found, ...)
// and its user-facing message.
//
// # Usage
//
//	srv := server.New(svc, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
