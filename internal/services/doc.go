// Package services defines shared utilities consumed by the per-file pipeline
// and the external tool clients.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, job source paths, and step names
//     for logging.
//   - Structured error markers plus the Wrap helper so job failures can be
//     classified (tool, i/o, configuration) when they are counted and recorded.
//
// The subpackages wrap the external executables (ffmpeg, exiftool) behind
// small clients whose command execution can be replaced in tests.
package services
