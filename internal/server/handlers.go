package server

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/parkvision-mcp/internal/calibration"
	"github.com/ironsheep/parkvision-mcp/internal/config"
	"github.com/ironsheep/parkvision-mcp/internal/detection"
	"github.com/ironsheep/parkvision-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "frame_load", "frame_classify").
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Takes a snapshot of the configuration and builds the stages it needs
//  3. Loads frames from cache as needed
//  4. Calls the appropriate detection/calibration function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Frames
	case "frame_load":
		return s.handleFrameLoad(args)
	case "frame_sample_color":
		return s.handleFrameSampleColor(args)

	// Pipeline stages
	case "frame_locate_seeds":
		return s.handleFrameLocateSeeds(args)
	case "frame_expand_regions":
		return s.handleFrameExpandRegions(args)
	case "frame_classify":
		return s.handleFrameClassify(args)

	// Calibration
	case "calibrate_color":
		return s.handleCalibrateColor(args)
	case "train_classes":
		return s.handleTrainClasses(args)
	case "config_show":
		return s.handleConfigShow(args)

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

// snapshot returns a copy of the active configuration. Classes are replaced
// wholesale on training, never edited in place, so sharing the slice is safe.
func (s *Server) snapshot() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toPoints(ps []point) []image.Point {
	out := make([]image.Point, len(ps))
	for i, p := range ps {
		out[i] = image.Pt(p.X, p.Y)
	}
	return out
}

// === Frame Handlers ===

type frameLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFrameLoad(args json.RawMessage) (interface{}, error) {
	var a frameLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadFrameInfo(s.cache, a.Path)
}

type frameSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleFrameSampleColor(args json.RawMessage) (interface{}, error) {
	var a frameSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	f, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(f.Color, a.X, a.Y)
}

// === Pipeline Stage Handlers ===

type seedsResult struct {
	Seeds []detection.Seed `json:"seeds"`
	Count int              `json:"count"`
}

func (s *Server) handleFrameLocateSeeds(args json.RawMessage) (interface{}, error) {
	var a frameLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := s.snapshot()
	locator, err := newLocator(&cfg)
	if err != nil {
		return nil, err
	}
	f, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	seeds := locator.LocateSeeds(f)
	return &seedsResult{Seeds: seeds, Count: len(seeds)}, nil
}

func newLocator(cfg *config.Config) (*detection.SeedLocator, error) {
	colors, err := cfg.TargetColors()
	if err != nil {
		return nil, err
	}
	return detection.NewSeedLocator(colors, cfg.Seeds.BisectionBudget)
}

type frameExpandRegionsArgs struct {
	Path         string  `json:"path"`
	Seeds        []point `json:"seeds"`
	Threshold    *int    `json:"threshold"`
	IncludeImage bool    `json:"include_image"`
	Scale        float64 `json:"scale"`
}

type regionsResult struct {
	Threshold  int                   `json:"threshold"`
	NoiseFloor int                   `json:"noise_floor"`
	Seeds      []point               `json:"seeds"`
	Regions    []detection.Region    `json:"regions"`
	Count      int                   `json:"count"`
	Image      *imaging.RenderResult `json:"image,omitempty"`
}

func (s *Server) handleFrameExpandRegions(args json.RawMessage) (interface{}, error) {
	var a frameExpandRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	cfg := s.snapshot()
	if a.Threshold != nil {
		cfg.Segmentation.IntensityThreshold = *a.Threshold
	}
	expander, err := detection.NewRegionExpander(cfg.Segmentation.IntensityThreshold, cfg.Segmentation.NoiseFloor)
	if err != nil {
		return nil, err
	}

	var locator *detection.SeedLocator
	if a.Seeds == nil {
		if locator, err = newLocator(&cfg); err != nil {
			return nil, err
		}
	}

	f, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	seeds := toPoints(a.Seeds)
	if locator != nil {
		seeds = locator.Locate(f)
	}

	marked, regions, err := expander.Expand(f.Gray, seeds)
	if err != nil {
		return nil, err
	}

	result := &regionsResult{
		Threshold:  expander.Threshold(),
		NoiseFloor: expander.NoiseFloor(),
		Seeds:      make([]point, len(seeds)),
		Regions:    regions,
		Count:      len(regions),
	}
	for i, p := range seeds {
		result.Seeds[i] = point{X: p.X, Y: p.Y}
	}
	if a.IncludeImage {
		result.Image, err = imaging.RenderMarked(marked, detection.RegionOverlays(regions), a.Scale)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

type frameClassifyArgs struct {
	Path         string  `json:"path"`
	Threshold    *int    `json:"threshold"`
	IncludeImage bool    `json:"include_image"`
	Scale        float64 `json:"scale"`
}

type classifyResult struct {
	*detection.FrameResult
	Image *imaging.RenderResult `json:"image,omitempty"`
}

func (s *Server) handleFrameClassify(args json.RawMessage) (interface{}, error) {
	var a frameClassifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	cfg := s.snapshot()
	if a.Threshold != nil {
		cfg.Segmentation.IntensityThreshold = *a.Threshold
	}
	pc, err := cfg.PipelineConfig()
	if err != nil {
		return nil, err
	}
	pipeline, err := detection.NewPipeline(pc)
	if err != nil {
		return nil, err
	}

	f, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	fr, err := pipeline.Run(f)
	if err != nil {
		return nil, err
	}

	result := &classifyResult{FrameResult: fr}
	if a.IncludeImage {
		result.Image, err = imaging.RenderMarked(fr.Marked, detection.RegionOverlays(fr.Regions), a.Scale)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// === Calibration Handlers ===

type calibrateColorArgs struct {
	Path   string  `json:"path"`
	Points []point `json:"points"`
	Slot   int     `json:"slot"`
	Save   bool    `json:"save"`
}

type calibrateColorResult struct {
	Hex   string      `json:"hex"`
	RGB   imaging.RGB `json:"rgb"`
	Slot  int         `json:"slot,omitempty"`
	Saved bool        `json:"saved"`
}

func (s *Server) handleCalibrateColor(args json.RawMessage) (interface{}, error) {
	var a calibrateColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Slot != 0 && a.Slot != 1 && a.Slot != 2 {
		return nil, fmt.Errorf("color slot must be 1 or 2, got %d", a.Slot)
	}

	f, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	rgb, err := calibration.CalibrateColor(f, toPoints(a.Points))
	if err != nil {
		return nil, err
	}

	result := &calibrateColorResult{Hex: rgb.Hex(), RGB: rgb, Slot: a.Slot}
	if a.Slot == 0 {
		return result, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cfg.SetColor(a.Slot, rgb); err != nil {
		return nil, err
	}
	if a.Save {
		if err := config.SaveConfig(s.cfg, s.cfgPath); err != nil {
			return nil, err
		}
		result.Saved = true
	}
	return result, nil
}

type trainSample struct {
	Path  string `json:"path"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
}

type trainClassesArgs struct {
	Samples []trainSample `json:"samples"`
	Save    bool          `json:"save"`
}

type trainClassesResult struct {
	Samples []calibration.Sample     `json:"samples"`
	Classes []detection.TrainedClass `json:"classes"`
	Saved   bool                     `json:"saved"`
}

func (s *Server) handleTrainClasses(args json.RawMessage) (interface{}, error) {
	var a trainClassesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := s.snapshot()
	expander, err := detection.NewRegionExpander(cfg.Segmentation.IntensityThreshold, cfg.Segmentation.NoiseFloor)
	if err != nil {
		return nil, err
	}

	samples := make([]calibration.Sample, 0, len(a.Samples))
	for i, ts := range a.Samples {
		label, err := detection.ParseLabel(ts.Label)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		f, err := s.cache.Load(ts.Path)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		sample, err := calibration.CollectSample(expander, f, image.Pt(ts.X, ts.Y), label)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		samples = append(samples, sample)
	}

	classes, err := calibration.TrainClasses(samples)
	if err != nil {
		return nil, err
	}

	result := &trainClassesResult{Samples: samples, Classes: classes}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Classification.Classes = classes
	if a.Save {
		if err := config.SaveConfig(s.cfg, s.cfgPath); err != nil {
			return nil, err
		}
		result.Saved = true
	}
	return result, nil
}

type configShowResult struct {
	Path    string   `json:"path"`
	YAML    string   `json:"yaml"`
	Ready   bool     `json:"ready"`
	Missing []string `json:"missing,omitempty"`
}

func (s *Server) handleConfigShow(args json.RawMessage) (interface{}, error) {
	cfg := s.snapshot()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("error marshaling config: %w", err)
	}

	result := &configShowResult{Path: s.cfgPath, YAML: string(data), Ready: true}
	if err := cfg.Validate(); err != nil {
		result.Ready = false
		result.Missing = strings.Split(err.Error(), "\n")
	}
	return result, nil
}
