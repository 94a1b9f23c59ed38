package preflight

import (
	"os"
	"path/filepath"

	"albumpress/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for a run. A destination root that
// does not exist yet is checked through its nearest existing ancestor, since
// the batch creates it on demand.
func RunAll(run config.Run, stateDir string) []Result {
	results := []Result{
		CheckDirectoryAccess("Source directory", run.SourceRoot, AccessRead),
		CheckCreatable("Destination directory", run.DestRoot),
	}
	if stateDir != "" {
		results = append(results, CheckCreatable("State directory", stateDir))
	}
	return results
}

// CheckCreatable verifies that path is writable, or can be created because
// its nearest existing ancestor is.
func CheckCreatable(name, path string) Result {
	return CheckDirectoryAccess(name, existingAncestor(path), AccessWrite)
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

func existingAncestor(path string) string {
	current := filepath.Clean(path)
	for {
		if _, err := os.Stat(current); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return current
		}
		current = parent
	}
}
