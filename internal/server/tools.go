package server

import "github.com/ironsheep/imagegen-service/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSourceSchema describes the tagged image source object. Exactly one
// property must be present.
var imageSourceSchema = map[string]interface{}{
	"type":          "object",
	"description":   "Where the image comes from. Set exactly one property.",
	"minProperties": 1,
	"maxProperties": 1,
	"properties": map[string]interface{}{
		"discordprofile": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":   map[string]interface{}{"type": "integer"},
				"hash": map[string]interface{}{"type": "string"},
			},
			"required": []string{"id", "hash"},
		},
		"githubprofile": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"username": map[string]interface{}{"type": "string"},
			},
			"required": []string{"username"},
		},
		"githubasset": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"owner": map[string]interface{}{"type": "string"},
				"repo":  map[string]interface{}{"type": "string"},
				"path":  map[string]interface{}{"type": "string"},
			},
			"required": []string{"owner", "repo", "path"},
		},
		"imgur": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":        map[string]interface{}{"type": "string"},
				"subdomain": map[string]interface{}{"type": "string"},
			},
			"required": []string{"id", "subdomain"},
		},
		"color": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
			"minItems":    3,
			"maxItems":    3,
			"description": "Solid [r, g, b] fill",
		},
		"base64": map[string]interface{}{
			"type":        "string",
			"description": "Standard base64 encoded image data",
		},
		"file": map[string]interface{}{
			"type":        "string",
			"description": "Local path, only when local file input is enabled",
		},
	},
}

func channelSchema(name string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     255,
		"description": name + " channel (0-255)",
	}
}

func operationNames() []string {
	ops := imaging.Ops()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Templates
		{
			Name:        "template_list",
			Description: "List the configured image templates with the number of images and texts each one expects.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "template_render",
			Description: "Render a named template. Images and texts bind in order to the template's overlay and text operations. Returns a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Template name",
					},
					"texts": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "One text per text operation, in order",
					},
					"images": map[string]interface{}{
						"type":        "array",
						"items":       imageSourceSchema,
						"description": "One image source per overlay operation, in order",
					},
				},
				"required": []string{"name"},
			},
		},

		// Single Image Operations
		{
			Name:        "image_transform",
			Description: "Resolve an image at 256x256 and apply one operation: flip, rotate (clockwise), grayscale, invert or blur.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"operation": map[string]interface{}{
						"type": "string",
						"enum": operationNames(),
					},
					"image": imageSourceSchema,
				},
				"required": []string{"operation", "image"},
			},
		},

		// Color Operations
		{
			Name:        "image_color",
			Description: "Create a square image filled with a solid color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"r": channelSchema("Red"),
					"g": channelSchema("Green"),
					"b": channelSchema("Blue"),
				},
				"required": []string{"r", "g", "b"},
			},
		},
		{
			Name:        "image_colorblend",
			Description: "Resolve an image at 256x256 and mix every pixel half and half with a color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageSourceSchema,
					"r":     channelSchema("Red"),
					"g":     channelSchema("Green"),
					"b":     channelSchema("Blue"),
				},
				"required": []string{"image", "r", "g", "b"},
			},
		},
		{
			Name:        "image_merge",
			Description: "Resolve two images at 256x256 and average them over their common area.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"images": map[string]interface{}{
						"type":     "array",
						"items":    imageSourceSchema,
						"minItems": 2,
						"maxItems": 2,
					},
				},
				"required": []string{"images"},
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
			"tools": GetToolDefinitions(),
		},
	}
}
