package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./RAPID/TASK1  ", expected: "RAPID/TASK1"},
		{name: "Backslashes", input: `RAPID\TASK1\PROGMOD`, expected: "RAPID/TASK1/PROGMOD"},
		{name: "Relative", input: "foo/../bar", expected: "bar"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePatternPath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestRelSlash(t *testing.T) {
	t.Parallel()

	root := filepath.Join("backup", "RAPID")
	got := RelSlash(root, filepath.Join(root, "TASK1", "PROGMOD", "Main.mod"))
	if got != "TASK1/PROGMOD/Main.mod" {
		t.Fatalf("unexpected relative path %q", got)
	}
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	exts := []string{".mod", ".prg", ".sys", ".cfg"}
	cases := []struct {
		path     string
		expected bool
	}{
		{path: "Main.mod", expected: true},
		{path: "BASE.SYS", expected: true},
		{path: "cell.Prg", expected: true},
		{path: "EIO.cfg", expected: true},
		{path: "notes.txt", expected: false},
		{path: "Makefile", expected: false},
		{path: "archive.mod.bak", expected: false},
	}

	for _, tc := range cases {
		if got := HasExtension(tc.path, exts); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.path, tc.expected, got)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	m := map[string]bool{"b": true, "a": true, "c": false}
	keys := SortedKeys(m)
	expected := []string{"a", "b", "c"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, key := range expected {
		if keys[i] != key {
			t.Fatalf("expected %q at %d, got %q", key, i, keys[i])
		}
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.tsv")
	content := []byte("hello")

	if err := WriteFileWithDirs(path, content, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("expected %q, got %q", string(content), string(got))
	}
}
