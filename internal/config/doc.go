// Package config loads, normalizes, and validates albumpress configuration.
//
// Two kinds of settings live here. Config is the optional TOML file: tool
// binaries, state and log directories, logging, and the run journal. Run is
// the per-invocation batch description assembled from command-line flags;
// it is validated once and then shared read-only by every per-file job.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
