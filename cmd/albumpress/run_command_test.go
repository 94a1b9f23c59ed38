package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"albumpress/internal/pipeline"
	"albumpress/internal/runlock"
	"albumpress/internal/testsupport"
)

func TestRunCopiesMatchingFilesWithoutTemplates(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, "a.jpg", "b.png", "c.txt")

	out, _, err := env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg,png", "--thread", "2")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireExists(t, filepath.Join(env.dst, "a.jpg"))
	requireExists(t, filepath.Join(env.dst, "b.png"))
	requireMissing(t, filepath.Join(env.dst, "c.txt"))
	requireContains(t, out, "Summary")
	requireContains(t, out, "File Count")

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one journaled run, got %d", len(runs))
	}
	if r := runs[0]; r.Total != 2 || r.Processed != 2 || r.Ignored != 0 || !r.Finished() {
		t.Fatalf("unexpected journaled run: %+v", r)
	}
}

func TestRunWithTemplatesTagsOutputsAndHonorsGate(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, "a.jpg", "nested/b.jpg")
	// a.jpg already carries the comment, so it must be skipped.
	if err := os.WriteFile(filepath.Join(env.src, "a.jpg.comment"), []byte("compressed"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := env.run(t,
		"--src", env.src, "--dst", env.dst, "--ext", "jpg",
		"--argff", "-y -i %in% %out%",
		"--argexif", "-overwrite_original %out%",
		"-c", "compressed", "-t", "2", "-d", "copy",
	)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireMissing(t, filepath.Join(env.dst, "a.jpg"))
	requireExists(t, filepath.Join(env.dst, "nested", "b.jpg"))

	tag, err := os.ReadFile(filepath.Join(env.dst, "nested", "b.jpg.comment"))
	if err != nil {
		t.Fatalf("expected output to be tagged: %v", err)
	}
	if string(tag) != "compressed" {
		t.Fatalf("unexpected tag %q", tag)
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.ListRuns(context.Background(), 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns: %v %d", err, len(runs))
	}
	if runs[0].Ignored != 1 || runs[0].Processed != 1 || runs[0].Total != 2 {
		t.Fatalf("unexpected counters: %+v", runs[0])
	}
}

func TestRunIgnoreExistingSecondPass(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, "a.jpg", "b.jpg")

	args := []string{"--src", env.src, "--dst", env.dst, "--ext", "jpg", "-i"}
	if _, _, err := env.run(t, args...); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, _, err := env.run(t, args...); err != nil {
		t.Fatalf("second run: %v", err)
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil || len(runs) != 2 {
		t.Fatalf("ListRuns: %v %d", err, len(runs))
	}
	var second = runs[0]
	if runs[1].StartedAt.After(runs[0].StartedAt) {
		second = runs[1]
	}
	if second.Ignored != 2 || second.Processed != 0 {
		t.Fatalf("second run should ignore everything: %+v", second)
	}
	outcomes, err := store.RunOutcomes(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("RunOutcomes: %v", err)
	}
	for _, o := range outcomes {
		if o.Status != pipeline.StatusIgnored || o.Stage != "exists" {
			t.Fatalf("unexpected outcome %+v", o)
		}
	}
}

func TestRunToolFailureIsToleratedAndCounted(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FailingScript),
		testsupport.WithStubScript("exiftool", testsupport.FakeExifToolScript),
	)
	env.seed(t, "a.jpg")

	out, _, err := env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg", "--argff", "-i %in% %out%")
	if err != nil {
		t.Fatalf("a non-zero tool exit must not fail the batch: %v", err)
	}
	requireContains(t, out, "tool exited with non-zero status")
}

func TestRunArgumentErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, "a.jpg")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing src", []string{"--dst", env.dst, "--ext", "jpg"}, "--src is required"},
		{"missing dst", []string{"--src", env.src, "--ext", "jpg"}, "--dst is required"},
		{"missing ext", []string{"--src", env.src, "--dst", env.dst}, "--ext"},
		{"bad thread", []string{"--src", env.src, "--dst", env.dst, "--ext", "jpg", "-t", "0"}, "--thread"},
		{"bad date", []string{"--src", env.src, "--dst", env.dst, "--ext", "jpg", "-d", "newest"}, "--date"},
		{"dst inside src", []string{"--src", env.src, "--dst", filepath.Join(env.src, "out"), "--ext", "jpg"}, "inside"},
		{"shell operator", []string{"--src", env.src, "--dst", env.dst, "--ext", "jpg", "--argff", "-i %in% %out% ; rm -rf /"}, "--argff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an argument error")
			}
			requireContains(t, err.Error(), tt.want)
			requireMissing(t, env.dst)
		})
	}
}

func TestRunMissingToolFailsBeforeWork(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Tools.FFmpeg = filepath.Join(env.baseDir, "no-such-ffmpeg")
	writeTestConfig(t, env.configPath, env.cfg)
	env.seed(t, "a.jpg")

	_, _, err := env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg", "--argff", "-i %in% %out%")
	if err == nil {
		t.Fatal("expected missing dependency error")
	}
	requireContains(t, err.Error(), "FFmpeg")
	requireMissing(t, env.dst)
}

func TestRunRejectsLockedDestination(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, "a.jpg")

	held, err := runlock.Acquire(env.cfg.LockDir(), env.dst)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer held.Release()

	_, _, err = env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg")
	if !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	requireMissing(t, filepath.Join(env.dst, "a.jpg"))
}

func TestRunWithoutHistory(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithStubbedBinaries(),
		testsupport.WithoutHistory(),
	)
	env.seed(t, "a.jpg")

	if _, _, err := env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg", "-k"); err != nil {
		t.Fatalf("run: %v", err)
	}
	requireExists(t, filepath.Join(env.dst, "a.jpg"))
	requireMissing(t, env.cfg.HistoryPath())
}

func TestRunKeepsSmallerOriginalAndCopiesDates(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithStubScript("ffmpeg", testsupport.FakeGrowingFFmpegScript),
		testsupport.WithStubbedBinaries("exiftool"),
	)
	testsupport.WriteTree(t, env.src, map[string]int64{"2019/a.jpg": 100, "2019/b.jpg": 300})
	when := time.Date(2019, 7, 4, 12, 0, 0, 0, time.UTC)
	testsupport.SetTimes(t, filepath.Join(env.src, "2019", "a.jpg"), when)

	out, _, err := env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg",
		"--argff", "-y -i %in% %out%", "-k", "-d", "min")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}

	info, err := os.Stat(filepath.Join(env.dst, "2019", "a.jpg"))
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() != 100 {
		t.Fatalf("expected the original to be kept, size=%d", info.Size())
	}
	if !info.ModTime().Equal(when) {
		t.Fatalf("expected source mtime %v, got %v", when, info.ModTime())
	}
	requireContains(t, out, "output file is larger, copied original")

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.ListRuns(context.Background(), 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns: %v", err)
	}
	if runs[0].KeptOriginal != 2 || runs[0].Processed != 2 {
		t.Fatalf("unexpected counters: %+v", runs[0])
	}
}
