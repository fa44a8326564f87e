// Package server implements the MCP (Model Context Protocol) server for fiducial tag detection.
//
// This package provides a JSON-RPC 2.0 server that exposes tag detection through the MCP
// protocol, so MCP clients can locate tags in images and reason about their pose.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_crop: Extract rectangular region
//
// Tag Operations:
//   - apriltag_families: List the registered tag families
//   - apriltag_detect: Detect tags and return ids, corners, centres and homographies
//   - apriltag_overlay: Draw detected tags on the image
//   - apriltag_crop_tag: Perspective-corrected image of one tag
//
// The detection tools accept per-call overrides of the configured detector options
// (family, max_hamming, blur_radius, min_quad_area, min_contrast).
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images and their grayscale
// conversions, keyed by path. The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An image without tags is not an error; the detection result is simply empty.
//
// # Usage
//
//	cfg, _, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
