package feedstore

import (
	"os"
	"path/filepath"
	"testing"
)

func testFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return f, dir
}

func TestWriteReadDelete(t *testing.T) {
	f, _ := testFS(t)

	content := []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n")
	if err := f.Write("team.ics", content); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := f.Read("team.ics")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: %q", got)
	}

	if err := f.Delete("team.ics"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.Read("team.ics"); err == nil {
		t.Errorf("expected error reading deleted feed")
	}
}

func TestList_OnlyICSFiles(t *testing.T) {
	f, dir := testFS(t)

	if err := f.Write("a.ics", []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n")); err != nil {
		t.Fatal(err)
	}
	if err := f.Write("nested/b.ics", []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a feed"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := f.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(files), files)
	}
	for _, ff := range files {
		if ff.Checksum == "" {
			t.Errorf("missing checksum for %s", ff.Path)
		}
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	f, _ := testFS(t)

	if _, err := f.Read("../escape.ics"); err == nil {
		t.Errorf("expected traversal rejection")
	}
	if err := f.Write("/abs.ics", []byte("x")); err == nil {
		t.Errorf("expected absolute path rejection")
	}
	if _, err := f.Read(""); err == nil {
		t.Errorf("expected empty path rejection")
	}
}
