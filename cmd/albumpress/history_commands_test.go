package main

import (
	"context"
	"testing"

	"albumpress/internal/testsupport"
)

func TestHistoryListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history before any run: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	env.seed(t, "a.jpg", "b.jpg")
	if _, _, err := env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg"); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err = env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, env.src)
	requireContains(t, out, "finished")

	runs, err := testsupport.MustOpenHistory(t, env.cfg).ListRuns(context.Background(), 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns: %v", err)
	}

	out, _, err = env.run(t, "history", "show", shortID(runs[0].ID))
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, "a.jpg")
	requireContains(t, out, "processed")

	out, _, err = env.run(t, "history", "show", runs[0].ID, "--failed")
	if err != nil {
		t.Fatalf("history show --failed: %v", err)
	}
	requireContains(t, out, "No file outcomes recorded")
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, "a.jpg")
	if _, _, err := env.run(t, "--src", env.src, "--dst", env.dst, "--ext", "jpg"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, _, err := env.run(t, "history", "show", "does-not-exist"); err == nil {
		t.Fatal("expected unknown run error")
	}
}
