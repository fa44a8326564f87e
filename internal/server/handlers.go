package server

import (
	"encoding/json"
	"fmt"
	"image"
	"strconv"

	"github.com/ironsheep/apriltag-mcp/internal/config"
	"github.com/ironsheep/apriltag-mcp/internal/detection"
	"github.com/ironsheep/apriltag-mcp/internal/imaging"
	"github.com/ironsheep/apriltag-mcp/internal/tagfamily"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "apriltag_detect", "image_load").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Tag Operations
	case "apriltag_families":
		return s.handleFamilies()
	case "apriltag_detect":
		return s.handleDetect(args)
	case "apriltag_overlay":
		return s.handleOverlay(args)
	case "apriltag_crop_tag":
		return s.handleCropTag(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, image.Rect(a.X1, a.Y1, a.X2, a.Y2), a.Scale)
}

// === Tag Handlers ===

func (s *Server) handleFamilies() (interface{}, error) {
	names := config.FamilyNames(s.families)
	infos := make([]tagfamily.Info, len(names))
	for i, n := range names {
		infos[i] = s.families[n].Info()
	}
	return map[string]interface{}{
		"default":  s.cfg.Family,
		"families": infos,
	}, nil
}

// detectArgs are the arguments shared by the tools that run detection.
// Pointer fields distinguish "not given" from zero.
type detectArgs struct {
	Path        string   `json:"path"`
	Family      string   `json:"family"`
	MaxHamming  *int     `json:"max_hamming"`
	BlurRadius  *float64 `json:"blur_radius"`
	MinQuadArea *float64 `json:"min_quad_area"`
	MinContrast *float64 `json:"min_contrast"`
}

// family resolves a family name against the registered families. An empty
// name selects the configured default.
func (s *Server) family(name string) (*tagfamily.Family, error) {
	if name == "" {
		name = s.cfg.Family
	}
	return config.FamilyByName(s.families, name)
}

// detector builds a detector from the configured options and the call's
// overrides.
func (s *Server) detector(a detectArgs) (*detection.Detector, error) {
	fam, err := s.family(a.Family)
	if err != nil {
		return nil, err
	}
	cfg := s.cfg.Detection
	if a.MaxHamming != nil {
		cfg.MaxHammingDistance = *a.MaxHamming
	}
	if a.BlurRadius != nil {
		cfg.BlurRadius = *a.BlurRadius
	}
	if a.MinQuadArea != nil {
		cfg.MinQuadArea = *a.MinQuadArea
	}
	if a.MinContrast != nil {
		cfg.MinContrast = *a.MinContrast
	}
	cfg.Logger = s.logger
	return detection.NewDetector(fam, cfg)
}

// detect loads the image named by a and runs detection on it.
func (s *Server) detect(a detectArgs) (*image.Gray, *detection.Detector, *detection.Result, error) {
	if a.Path == "" {
		return nil, nil, nil, fmt.Errorf("path is required")
	}
	d, err := s.detector(a)
	if err != nil {
		return nil, nil, nil, err
	}
	gray, err := s.cache.LoadGray(a.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	res, err := d.Detect(gray)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", a.Path, err)
	}
	return gray, d, res, nil
}

// DetectResult is the apriltag_detect response.
type DetectResult struct {
	Path   string `json:"path"`
	Family string `json:"family"`
	*detection.Result
}

func (s *Server) handleDetect(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, d, res, err := s.detect(a)
	if err != nil {
		return nil, err
	}
	return &DetectResult{Path: a.Path, Family: d.Family().Name(), Result: res}, nil
}

type overlayArgs struct {
	detectArgs
	LineWidth int `json:"line_width"`
}

// OverlayResult is the apriltag_overlay response.
type OverlayResult struct {
	*imaging.OverlayResult
	IDs []int `json:"ids"`
}

func (s *Server) handleOverlay(args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.LineWidth <= 0 {
		a.LineWidth = s.cfg.Server.OverlayLineWidth
	}

	_, _, res, err := s.detect(a.detectArgs)
	if err != nil {
		return nil, err
	}
	// Draw on the colour original, not the grayscale copy used for detection.
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	outlines := make([]imaging.Outline, len(res.Detections))
	ids := make([]int, len(res.Detections))
	for i, det := range res.Detections {
		outlines[i] = outline(det)
		ids[i] = det.ID
	}
	ov, err := imaging.Overlay(img, outlines, a.LineWidth)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{OverlayResult: ov, IDs: ids}, nil
}

func outline(det detection.Detection) imaging.Outline {
	var o imaging.Outline
	for k, c := range det.Corners {
		o.Corners[k] = [2]float64{c.X, c.Y}
	}
	o.Label = strconv.Itoa(det.ID)
	o.Key = det.ID
	return o
}

type cropTagArgs struct {
	detectArgs
	ID     *int     `json:"id"`
	Size   int      `json:"size"`
	Margin *float64 `json:"margin"`
}

// CropTagResult is the apriltag_crop_tag response.
type CropTagResult struct {
	*imaging.CropResult
	Detection detection.Detection `json:"detection"`
}

func (s *Server) handleCropTag(args json.RawMessage) (interface{}, error) {
	var a cropTagArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ID == nil {
		return nil, fmt.Errorf("id is required")
	}
	if a.Size <= 0 {
		a.Size = s.cfg.Server.RectifySize
	}
	margin := 0.1
	if a.Margin != nil {
		margin = *a.Margin
	}
	if margin < 0 || margin > 1 {
		return nil, fmt.Errorf("margin %.3f outside 0..1", margin)
	}

	gray, _, res, err := s.detect(a.detectArgs)
	if err != nil {
		return nil, err
	}

	var found *detection.Detection
	for i := range res.Detections {
		if res.Detections[i].ID == *a.ID {
			found = &res.Detections[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("tag %d not found in %s (%d tags detected)", *a.ID, a.Path, res.Count)
	}

	h := found.Homography
	span := 1 + 2*margin
	project := func(u, v float64) (float64, float64, bool) {
		p, ok := h.Project(u*span-margin, v*span-margin)
		return p.X, p.Y, ok
	}
	crop, err := imaging.Rectify(gray, project, a.Size)
	if err != nil {
		return nil, err
	}
	return &CropTagResult{CropResult: crop, Detection: *found}, nil
}
