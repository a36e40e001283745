package cab

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mustWrite := func(rel string, data []byte) {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	mustWrite("docs/readme.txt", []byte("readme"))
	mustWrite("docs/license.txt", []byte("license"))
	mustWrite("bin/tool.exe", []byte("exe"))
	mustWrite("top.txt", []byte("top"))
	return root
}

func TestGenerateManifestSingleFolder(t *testing.T) {
	root := buildTree(t)
	entries, err := GenerateManifest(root, AssignSingleFolder)
	if err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	for _, e := range entries {
		if e.FolderIndex != 0 {
			t.Errorf("entry %+v not in folder 0", e)
		}
	}
}

func TestGenerateManifestPerTopLevelDir(t *testing.T) {
	root := buildTree(t)
	entries, err := GenerateManifest(root, AssignPerTopLevelDir)
	if err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	folders := map[string]int{}
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.SourcePath)
		if err != nil {
			t.Fatalf("Rel: %v", err)
		}
		folders[filepath.ToSlash(rel)] = e.FolderIndex
	}

	if folders["docs/readme.txt"] != folders["docs/license.txt"] {
		t.Error("files under the same top-level directory must share a folder")
	}
	if folders["docs/readme.txt"] == folders["bin/tool.exe"] {
		t.Error("files under different top-level directories must not share a folder")
	}
	if folders["top.txt"] == folders["docs/readme.txt"] {
		t.Error("a top-level file must not share a folder with a subdirectory's files")
	}
}

func TestWriteManifestRoundTripsThroughParseManifest(t *testing.T) {
	entries := []ManifestEntry{
		{FolderIndex: 0, SourcePath: "a/b.txt"},
		{FolderIndex: 1, SourcePath: "c.txt"},
	}
	var buf bytes.Buffer
	if err := WriteManifest(entries, &buf); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	got, err := ParseManifest(&buf)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}
