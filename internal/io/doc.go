// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Atomic file writing
//   - Directory creation
//   - Cover art decoding and scaling
//
// # File Operations
//
//	// Write data to file without exposing partial writes
//	err := ioutils.WriteFile("/path/to/export.json", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Image Processing
//
// The ImageService turns cover art into small thumbnails:
//
//	svc := ioutils.NewImageService()
//	thumb, _ := svc.Thumbnail(ctx, imageData, 24, 24)
package ioutils
