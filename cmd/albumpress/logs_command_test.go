package main

import (
	"os"
	"path/filepath"
	"testing"

	"albumpress/internal/testsupport"
)

func TestLogsRequiresFileLogging(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "logs"); err == nil {
		t.Fatal("expected error when file logging is disabled")
	}
}

func TestLogsShowsRunRecords(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	f, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("\n[logging]\nfile = true\n")
	_ = f.Close()

	env.seed(t, "a.jpg")
	if _, _, err := env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg"); err != nil {
		t.Fatalf("run: %v", err)
	}
	requireExists(t, filepath.Join(env.cfg.Paths.LogDir, "albumpress.log"))

	out, _, err := env.run(t, "logs", "-n", "100")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "[batch] batch finished")

	out, _, err = env.run(t, "logs", "--raw")
	if err != nil {
		t.Fatalf("logs --raw: %v", err)
	}
	requireContains(t, out, `"msg":"batch finished"`)
}
