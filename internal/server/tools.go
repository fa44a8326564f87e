package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// detectorProperties are the optional detector overrides shared by every
// tool that runs detection.
func detectorProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"family": map[string]interface{}{
			"type":        "string",
			"description": "Tag family name (see apriltag_families). Defaults to the configured family",
		},
		"max_hamming": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of corrected bits. Clamped to what the family can correct",
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian pre-blur radius in pixels before edge detection. 0 disables",
		},
		"min_quad_area": map[string]interface{}{
			"type":        "number",
			"description": "Smallest tag outline area in square pixels",
		},
		"min_contrast": map[string]interface{}{
			"type":        "number",
			"description": "Smallest white-minus-black level difference (0-255) for a tag to be decoded",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	overlayProps := detectorProperties()
	overlayProps["line_width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Outline width in pixels. Defaults to the configured width",
	}

	cropProps := detectorProperties()
	cropProps["id"] = map[string]interface{}{
		"type":        "integer",
		"description": "Tag id to extract",
	}
	cropProps["size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Edge length of the rectified image in pixels. Defaults to the configured size",
	}
	cropProps["margin"] = map[string]interface{}{
		"type":        "number",
		"description": "Extra border around the tag as a fraction of its side. Default 0.1",
		"default":     0.1,
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for later detection calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. Use this to zoom into areas around detected tags.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
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
						"description": "Right edge X coordinate (exclusive)",
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
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Tag Operations
		{
			Name:        "apriltag_families",
			Description: "List the tag families the server can decode with their grid size, minimum Hamming distance and number of codes.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "apriltag_detect",
			Description: "Detect fiducial tags in an image. Returns each tag's id, corner points (clockwise from the tag's top-left), centre, homography, rotation and corrected bit count, plus per-stage statistics.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectorProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "apriltag_overlay",
			Description: "Detect tags and return the image with each tag outlined, its first corner marked and its id printed, as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": overlayProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "apriltag_crop_tag",
			Description: "Detect tags and return a perspective-corrected, upright square image of one tag, as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": cropProps,
				"required":   []string{"path", "id"},
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
