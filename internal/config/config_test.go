package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"albumpress/internal/config"
)

func TestDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected config file to be absent, got exists at %s", path)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "albumpress")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.LockDir() != filepath.Join(wantState, "locks") {
		t.Fatalf("unexpected lock dir: %q", cfg.LockDir())
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.ExifTool != "exiftool" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Run.Threads != 1 {
		t.Fatalf("unexpected default threads: %d", cfg.Run.Threads)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "albumpress.toml")
	content := `[tools]
ffmpeg = "/opt/bin/ffmpeg"

[paths]
state_dir = "~/state"

[logging]
format = "JSON"
level = "Debug"

[run]
threads = 4
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %s, got %s (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Tools.FFmpeg != "/opt/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg: %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.ExifTool != "exiftool" {
		t.Fatalf("expected exiftool default to survive, got %q", cfg.Tools.ExifTool)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if cfg.Run.Threads != 4 {
		t.Fatalf("unexpected threads: %d", cfg.Run.Threads)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(configPath, []byte("[tools]\nhandbrake = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestEnvOverridesToolBinaries(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("ALBUMPRESS_FFMPEG", "/custom/ffmpeg")
	t.Setenv("ALBUMPRESS_EXIFTOOL", "/custom/exiftool")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.FFmpeg != "/custom/ffmpeg" || cfg.Tools.ExifTool != "/custom/exiftool" {
		t.Fatalf("env overrides not applied: %+v", cfg.Tools)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Logging.RetentionDays != 30 {
		t.Fatalf("unexpected retention: %d", cfg.Logging.RetentionDays)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(out, "[tools]") || !strings.Contains(out, "ffmpeg = 'ffmpeg'") {
		t.Fatalf("unexpected encoding:\n%s", out)
	}
}

func TestRunValidate(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		name    string
		run     config.Run
		wantErr string
	}{
		{name: "missing src", run: config.Run{DestRoot: base, Extensions: []string{"jpg"}, Threads: 1}, wantErr: "--src"},
		{name: "missing dst", run: config.Run{SourceRoot: base, Extensions: []string{"jpg"}, Threads: 1}, wantErr: "--dst"},
		{name: "same roots", run: config.Run{SourceRoot: base, DestRoot: base, Extensions: []string{"jpg"}, Threads: 1}, wantErr: "differ"},
		{name: "dst inside src", run: config.Run{SourceRoot: base, DestRoot: filepath.Join(base, "out"), Extensions: []string{"jpg"}, Threads: 1}, wantErr: "inside"},
		{name: "no ext", run: config.Run{SourceRoot: filepath.Join(base, "a"), DestRoot: filepath.Join(base, "b"), Extensions: []string{" ", ""}, Threads: 1}, wantErr: "--ext"},
		{name: "zero threads", run: config.Run{SourceRoot: filepath.Join(base, "a"), DestRoot: filepath.Join(base, "b"), Extensions: []string{"jpg"}}, wantErr: "--thread"},
		{name: "bad date", run: config.Run{SourceRoot: filepath.Join(base, "a"), DestRoot: filepath.Join(base, "b"), Extensions: []string{"jpg"}, Threads: 1, Date: "newest"}, wantErr: "--date"},
		{name: "ok", run: config.Run{SourceRoot: filepath.Join(base, "a"), DestRoot: filepath.Join(base, "b"), Extensions: []string{".JPG", "png"}, Threads: 2, Date: config.DateMax}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := tt.run
			err := run.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got := strings.Join(run.Extensions, ","); got != ".JPG,png" {
					t.Fatalf("unexpected extensions: %q", got)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunVeryVerboseImpliesVerbose(t *testing.T) {
	base := t.TempDir()
	run := config.Run{
		SourceRoot:  filepath.Join(base, "a"),
		DestRoot:    filepath.Join(base, "b"),
		Extensions:  []string{"jpg"},
		Threads:     1,
		VeryVerbose: true,
	}
	if err := run.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !run.Verbose {
		t.Fatal("expected --vvv to imply verbose")
	}
}

func TestRunToolRequirements(t *testing.T) {
	run := config.Run{}
	if !run.PassThrough() || run.NeedsFFmpeg() || run.NeedsExifTool() {
		t.Fatalf("empty run should be pass-through only")
	}
	run.Comment = "done"
	if !run.NeedsExifTool() || !run.PassThrough() {
		t.Fatalf("comment alone needs exiftool but still copies")
	}
	run.TranscodeArgs = "-i %in% %out%"
	if !run.NeedsFFmpeg() || run.PassThrough() {
		t.Fatalf("transcode template disables pass-through")
	}
}

func TestParseDatePolicy(t *testing.T) {
	for in, want := range map[string]config.DatePolicy{"": config.DateNone, "COPY": config.DateCopy, " min ": config.DateMin, "max": config.DateMax} {
		got, err := config.ParseDatePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseDatePolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := config.ParseDatePolicy("latest"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
