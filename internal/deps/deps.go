// Package deps checks that the external executables a batch needs are
// installed before any file is touched.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency albumpress relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// Missing returns the required statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

// ToolRequirements builds the requirement list for a batch. A tool that the
// run will not invoke is still listed but marked optional so `check` can
// report it without failing.
func ToolRequirements(ffmpeg, exiftool string, needFFmpeg, needExifTool bool) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Runs the --argff transcode template",
			Optional:    !needFFmpeg,
		},
		{
			Name:        "ExifTool",
			Command:     exiftool,
			Description: "Runs the --argexif template and reads gate comments",
			Optional:    !needExifTool,
		},
	}
}
