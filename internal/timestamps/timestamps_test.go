package timestamps_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"albumpress/internal/config"
	"albumpress/internal/timestamps"
)

func writeFile(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
}

func modTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info.ModTime()
}

func TestMinMax(t *testing.T) {
	early := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tm := timestamps.Times{Created: late, Modified: early}
	if !tm.Min().Equal(early) || !tm.Max().Equal(late) {
		t.Fatalf("min/max wrong: %v %v", tm.Min(), tm.Max())
	}
	tm = timestamps.Times{Created: early, Modified: late}
	if !tm.Min().Equal(early) || !tm.Max().Equal(late) {
		t.Fatalf("min/max wrong when swapped: %v %v", tm.Min(), tm.Max())
	}
}

func TestPlan(t *testing.T) {
	created := time.Date(2010, 5, 5, 0, 0, 0, 0, time.UTC)
	modified := time.Date(2012, 6, 6, 0, 0, 0, 0, time.UTC)
	src := timestamps.Times{Created: created, Modified: modified}

	tests := []struct {
		policy      config.DatePolicy
		wantCreated time.Time
		wantMod     time.Time
		wantOK      bool
	}{
		{config.DateCopy, created, modified, true},
		{config.DateMin, created, created, true},
		{config.DateMax, modified, modified, true},
		{config.DateNone, time.Time{}, time.Time{}, false},
		{config.DatePolicy("newest"), time.Time{}, time.Time{}, false},
	}
	for _, tt := range tests {
		c, m, ok := timestamps.Plan(tt.policy, src)
		if ok != tt.wantOK || !c.Equal(tt.wantCreated) || !m.Equal(tt.wantMod) {
			t.Fatalf("Plan(%q) = %v %v %v", tt.policy, c, m, ok)
		}
	}
}

func TestApplyMinEqualisesToEarliest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	old := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	writeFile(t, src, old)
	writeFile(t, dst, time.Time{})

	if err := timestamps.Apply(config.DateMin, src, dst); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	srcTimes, err := timestamps.Read(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := modTime(t, dst); !got.Equal(srcTimes.Min()) {
		t.Fatalf("dst mtime = %v, want %v", got, srcTimes.Min())
	}
	if !srcTimes.Min().Equal(old) {
		t.Fatalf("expected the backdated mtime to be the minimum, got %v", srcTimes.Min())
	}
}

func TestApplyMaxEqualisesToLatest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	writeFile(t, src, time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC))
	writeFile(t, dst, time.Time{})

	if err := timestamps.Apply(config.DateMax, src, dst); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	srcTimes, err := timestamps.Read(src)
	if err != nil {
		t.Fatal(err)
	}
	got := modTime(t, dst)
	if !got.Equal(srcTimes.Max()) {
		t.Fatalf("dst mtime = %v, want %v", got, srcTimes.Max())
	}
	if timestamps.CanSetCreation() {
		dstTimes, err := timestamps.Read(dst)
		if err != nil {
			t.Fatal(err)
		}
		if !dstTimes.Created.Equal(dstTimes.Modified) {
			t.Fatalf("expected equal creation and modification, got %v and %v", dstTimes.Created, dstTimes.Modified)
		}
	}
}

func TestApplyCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	stamp := time.Date(2015, 8, 9, 10, 11, 12, 0, time.UTC)
	writeFile(t, src, stamp)
	writeFile(t, dst, time.Time{})

	if err := timestamps.Apply(config.DateCopy, src, dst); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := modTime(t, dst); !got.Equal(stamp) {
		t.Fatalf("dst mtime = %v, want %v", got, stamp)
	}
}

func TestApplyNoneLeavesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	writeFile(t, src, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC))
	before := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, dst, before)

	if err := timestamps.Apply(config.DateNone, src, dst); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := modTime(t, dst); !got.Equal(before) {
		t.Fatalf("dst mtime changed to %v", got)
	}
}

func TestApplyMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.jpg")
	writeFile(t, dst, time.Time{})
	if err := timestamps.Apply(config.DateCopy, filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
}
