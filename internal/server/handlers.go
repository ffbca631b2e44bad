package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	"github.com/ironsheep/imagegen-service/internal/imaging"
	"github.com/ironsheep/imagegen-service/internal/source"
	"github.com/ironsheep/imagegen-service/internal/template"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "template_render", "image_merge").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// toolError is the data attached to a failed tool call.
type toolError struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// whose data carries the error kind and message.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		kind := apperr.KindOf(err)
		s.logger.Warn("tool call failed", "tool", params.Name, "kind", kind, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", toolError{
			Kind:    kind,
			Message: apperr.MessageOf(err),
		})
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Templates
	case "template_list":
		return s.svc.Templates(), nil
	case "template_render":
		return s.handleTemplateRender(ctx, args)

	// Single Image Operations
	case "image_transform":
		return s.handleImageTransform(ctx, args)

	// Color Operations
	case "image_color":
		return s.handleImageColor(ctx, args)
	case "image_colorblend":
		return s.handleImageColorBlend(ctx, args)
	case "image_merge":
		return s.handleImageMerge(ctx, args)

	default:
		return nil, apperr.Newf(apperr.KindInput, "server.tool", "unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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

func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return apperr.Wrap(apperr.KindInput, "server.args", fmt.Sprintf("invalid arguments: %v", err), err)
	}
	return nil
}

func encodeResult(img image.Image, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return imaging.NewResult(img)
}

// === Template Handlers ===

type templateRenderArgs struct {
	Name   string          `json:"name"`
	Texts  []string        `json:"texts"`
	Images json.RawMessage `json:"images"`
}

func (s *Server) handleTemplateRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a templateRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var images source.List
	if len(a.Images) > 0 {
		if err := images.UnmarshalJSON(a.Images); err != nil {
			return nil, err
		}
	}

	img, err := s.svc.Template(ctx, a.Name, template.Input{Texts: a.Texts, Images: images})
	return encodeResult(img, err)
}

// === Single Image Handlers ===

type imageTransformArgs struct {
	Operation string          `json:"operation"`
	Image     json.RawMessage `json:"image"`
}

func (s *Server) handleImageTransform(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageTransformArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	op, err := imaging.ParseOp(a.Operation)
	if err != nil {
		return nil, err
	}
	src, err := source.Parse(a.Image)
	if err != nil {
		return nil, err
	}
	return encodeResult(s.svc.Transform(ctx, op, src))
}

// === Color Handlers ===

type imageColorArgs struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func (s *Server) handleImageColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return encodeResult(s.svc.Color(ctx, a.R, a.G, a.B))
}

type imageColorBlendArgs struct {
	Image json.RawMessage `json:"image"`
	R     uint8           `json:"r"`
	G     uint8           `json:"g"`
	B     uint8           `json:"b"`
}

func (s *Server) handleImageColorBlend(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageColorBlendArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	src, err := source.Parse(a.Image)
	if err != nil {
		return nil, err
	}
	return encodeResult(s.svc.ColorBlend(ctx, src, a.R, a.G, a.B))
}

type imageMergeArgs struct {
	Images json.RawMessage `json:"images"`
}

func (s *Server) handleImageMerge(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageMergeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var images source.List
	if len(a.Images) > 0 {
		if err := images.UnmarshalJSON(a.Images); err != nil {
			return nil, err
		}
	}
	return encodeResult(s.svc.Merge(ctx, images))
}
