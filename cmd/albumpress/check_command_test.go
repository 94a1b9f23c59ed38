package main

import (
	"path/filepath"
	"testing"
)

func TestCheckPassesWithStubs(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "check", "--src", env.src, "--dst", env.dst)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "ExifTool")
	requireContains(t, out, "Destination directory")
	requireContains(t, out, "All checks passed")
}

func TestCheckReportsMissingTool(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Tools.ExifTool = filepath.Join(env.baseDir, "missing-exiftool")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := env.run(t, "check")
	if err == nil {
		t.Fatalf("expected failure, output:\n%s", out)
	}
	requireContains(t, out, "MISSING")

	// Only ffmpeg is required for a transcode-only run.
	out, _, err = env.run(t, "check", "--argff", "-i %in% %out%")
	if err != nil {
		t.Fatalf("check with --argff: %v\n%s", err, out)
	}
	requireContains(t, out, "WARN")
}

func TestCheckReportsMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "check", "--src", filepath.Join(env.baseDir, "nope")); err == nil {
		t.Fatal("expected failure for missing source")
	}
}
