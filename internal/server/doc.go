// Package server implements the MCP (Model Context Protocol) server for the
// parking vision pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes seed location,
// region growing, shape classification, and their calibration through the MCP
// protocol, so an MCP client can drive the pipeline on captured frames and
// inspect every intermediate stage.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Frames:
//   - frame_load: Load a frame and get metadata
//   - frame_sample_color: Get color at pixel
//
// Pipeline stages:
//   - frame_locate_seeds: Bisection seed search for the two marker colors
//   - frame_expand_regions: Region growing and characteristics
//   - frame_classify: Full pipeline with shape labels
//
// Calibration:
//   - calibrate_color: Average picked points into a marker color
//   - train_classes: Per-label statistics from labeled seeds
//   - config_show: Active configuration and missing calibration
//
// # Configuration
//
// The server owns one config.Config. Pipeline tools take a snapshot of it per
// call and build only the stages they need, so an incomplete configuration
// fails the tool call before any frame is read. Calibration tools update the
// in-memory configuration and write it back to the config file when called
// with save set.
//
// # Frame Caching
//
// Frames are cached by path and reused across tool calls, avoiding redundant
// disk I/O and intensity conversion. The cache persists for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := config.LoadConfig(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, path)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
