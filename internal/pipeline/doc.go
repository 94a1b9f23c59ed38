// Package pipeline runs the per-file steps of a batch: the gate comment check,
// the transcode, the metadata rewrite (or a plain copy when neither template
// is configured), the timestamp policy, and the size guard.
//
// Each job reports exactly one Outcome. Tool exit codes are advisory; only a
// tool that cannot be started, a cancelled run, or a file I/O fault fails the
// job, and a failure stops the remaining steps for that file only.
package pipeline
