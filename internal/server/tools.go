package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the frame image file",
}

var pointSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x": map[string]interface{}{"type": "integer"},
		"y": map[string]interface{}{"type": "integer"},
	},
	"required": []string{"x", "y"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Frames
		{
			Name:        "frame_load",
			Description: "Load a frame image and return its dimensions and format. The decoded frame is cached for subsequent calls on the same path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "frame_sample_color",
			Description: "Get the exact color of a frame pixel as hex, RGB, HSL, and intensity. Use this to check a marker color against the calibrated targets.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (column, 0 = left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (row, 0 = top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Pipeline stages
		{
			Name:        "frame_locate_seeds",
			Description: "Find at most one seed pixel per calibrated marker color using the bounded row bisection search. Requires both marker colors to be calibrated.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "frame_expand_regions",
			Description: "Grow 4-connected regions of similar intensity from seed points and return each region's centroid, orientation, extent, and moment invariants. Regions below the noise floor are dropped. Seeds default to the seed locator's output.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"seeds": map[string]interface{}{
						"type":        "array",
						"description": "Optional explicit seed points",
						"items":       pointSchema,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Optional intensity threshold override (default from configuration)",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the marked frame with centroids and orientation segments as base64 PNG",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "frame_classify",
			Description: "Run the full pipeline on a frame: locate seeds, grow regions, compute characteristics, and classify each region against the trained shape classes. Long shapes carry their orientation angle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Optional intensity threshold override (default from configuration)",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the marked frame as base64 PNG",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Calibration
		{
			Name:        "calibrate_color",
			Description: "Average the 3x3 neighborhood around each picked point into one marker color. With slot 1 or 2 the color becomes that marker's target color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Points on the marker to average",
						"items":       pointSchema,
						"minItems":    1,
					},
					"slot": map[string]interface{}{
						"type":        "integer",
						"description": "Marker color slot to store the result in (1 or 2)",
						"enum":        []int{1, 2},
					},
					"save": map[string]interface{}{
						"type":        "boolean",
						"description": "Persist the configuration file after storing the color",
						"default":     false,
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "train_classes",
			Description: "Grow one region per labeled sample and compute per-label mean and standard deviation of phi_1 and phi_2. The result replaces the trained classes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"samples": map[string]interface{}{
						"type":        "array",
						"description": "Labeled seed points; each label needs at least two samples",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"path": pathProperty,
								"x":    map[string]interface{}{"type": "integer"},
								"y":    map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{
									"type": "string",
									"enum": []string{"LONG_1", "LONG_2", "COMPACT_1", "COMPACT_2"},
								},
							},
							"required": []string{"path", "x", "y", "label"},
						},
					},
					"save": map[string]interface{}{
						"type":        "boolean",
						"description": "Persist the configuration file after training",
						"default":     false,
					},
				},
				"required": []string{"samples"},
			},
		},
		{
			Name:        "config_show",
			Description: "Show the active configuration, its file path, and any calibration still missing.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
