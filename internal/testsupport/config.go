package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"albumpress/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithoutHistory disables the run journal.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithStubbedBinaries writes exit-0 stub executables for the provided names,
// prepends their directory to PATH and points the config at them. If names
// is empty, ffmpeg and exiftool are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "exiftool"}
		}
		for _, name := range names {
			b.setTool(name, WriteStub(b.t, b.binDir(), name, "exit 0\n"))
		}
	}
}

// WithStubScript installs a stub whose body is the given shell script.
func WithStubScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		b.setTool(name, WriteStub(b.t, b.binDir(), name, body))
	}
}

func (b *configBuilder) binDir() string {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	if path := os.Getenv("PATH"); !containsDir(path, binDir) {
		if setter, ok := b.t.(interface{ Setenv(string, string) }); ok {
			setter.Setenv("PATH", binDir+string(os.PathListSeparator)+path)
		}
	}
	return binDir
}

func (b *configBuilder) setTool(name, path string) {
	switch name {
	case "ffmpeg":
		b.cfg.Tools.FFmpeg = path
	case "exiftool":
		b.cfg.Tools.ExifTool = path
	}
}

func containsDir(pathList, dir string) bool {
	for _, entry := range filepath.SplitList(pathList) {
		if entry == dir {
			return true
		}
	}
	return false
}

// WriteStub writes an executable shell script named name into dir.
func WriteStub(t testing.TB, dir, name, body string) string {
	t.Helper()
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
