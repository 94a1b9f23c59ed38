//go:build darwin

package timestamps

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBirthTimeDarwin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jpg")
	before := time.Now().Add(-time.Minute)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// An mtime earlier than the birth time would also move the birth time.
	later := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	birth, ok := birthTime(path, nil)
	if !ok {
		t.Fatal("expected a birth time on darwin")
	}
	if birth.Before(before) || !birth.Before(later) {
		t.Fatalf("birth time %v is not the creation time (mtime %v)", birth, later)
	}

	times, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if !times.Created.Equal(birth) || !times.Modified.Equal(later) {
		t.Fatalf("Read = %+v, want created %v modified %v", times, birth, later)
	}
}
