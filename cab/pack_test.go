package cab

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

// TestRoundTripIdentity covers property 1: for any set of files and any
// folder grouping, extract(pack(...)) reproduces every file's bytes
// exactly, at every compression level.
func TestRoundTripIdentity(t *testing.T) {
	dir := t.TempDir()
	aPath := writeTempFile(t, dir, "a.txt", []byte("AAAA"))
	bPath := writeTempFile(t, dir, "b.txt", []byte("BBBB"))

	for level := 0; level <= 9; level++ {
		entries := []ManifestEntry{
			{FolderIndex: 0, SourcePath: aPath},
			{FolderIndex: 0, SourcePath: bPath},
		}

		var buf bytes.Buffer
		if err := Pack(context.Background(), entries, level, &buf, PackOptions{}); err != nil {
			t.Fatalf("level %d: Pack failed: %v", level, err)
		}

		c, err := Open(buf.Bytes())
		if err != nil {
			t.Fatalf("level %d: Open failed: %v", level, err)
		}

		destDir := filepath.Join(dir, "out", string(rune('0'+level)))
		if err := c.Extract(context.Background(), destDir, ExtractOptions{}); err != nil {
			t.Fatalf("level %d: Extract failed: %v", level, err)
		}

		gotA, err := os.ReadFile(filepath.Join(destDir, "a.txt"))
		if err != nil || string(gotA) != "AAAA" {
			t.Errorf("level %d: a.txt = %q, %v", level, gotA, err)
		}
		gotB, err := os.ReadFile(filepath.Join(destDir, "b.txt"))
		if err != nil || string(gotB) != "BBBB" {
			t.Errorf("level %d: b.txt = %q, %v", level, gotB, err)
		}
	}
}

// TestScenarioS1 is the literal two-file, single-folder scenario from the
// end-to-end scenario list.
func TestScenarioS1(t *testing.T) {
	dir := t.TempDir()
	aPath := writeTempFile(t, dir, "a.txt", []byte("AAAA"))
	bPath := writeTempFile(t, dir, "b.txt", []byte("BBBB"))

	entries := []ManifestEntry{
		{FolderIndex: 0, SourcePath: aPath},
		{FolderIndex: 0, SourcePath: bPath},
	}
	var buf bytes.Buffer
	if err := Pack(context.Background(), entries, 6, &buf, PackOptions{}); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	c, err := Open(buf.Bytes())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(c.Folders) != 1 {
		t.Fatalf("cFolders = %d, want 1", len(c.Folders))
	}
	if len(c.Files) != 2 {
		t.Fatalf("cFiles = %d, want 2", len(c.Files))
	}
	byName := map[string]File{}
	for _, f := range c.Files {
		byName[f.Name] = f
	}
	if f := byName["a.txt"]; f.UoffFolderStart != 0 || f.CbFile != 4 {
		t.Errorf("a.txt = %+v, want offset=0 size=4", f)
	}
	if f := byName["b.txt"]; f.UoffFolderStart != 4 || f.CbFile != 4 {
		t.Errorf("b.txt = %+v, want offset=4 size=4", f)
	}
}

// TestScenarioS2 covers property 2 (bounded chunking): a 40,000-byte file
// in one folder must split into exactly two blocks of 32768 and 7232
// uncompressed bytes.
func TestScenarioS2(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte{'A'}, 40000)
	p := writeTempFile(t, dir, "big.bin", data)

	entries := []ManifestEntry{{FolderIndex: 0, SourcePath: p}}
	var buf bytes.Buffer
	if err := Pack(context.Background(), entries, 6, &buf, PackOptions{}); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	c, err := Open(buf.Bytes())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(c.Folders) != 1 {
		t.Fatalf("cFolders = %d, want 1", len(c.Folders))
	}
	blocks, err := IterBlocks(buf.Bytes(), c.Folders[0])
	if err != nil {
		t.Fatalf("IterBlocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("block count = %d, want 2", len(blocks))
	}
	if blocks[0].CbUncomp != 32768 || blocks[1].CbUncomp != 7232 {
		t.Errorf("block sizes = %d, %d, want 32768, 7232", blocks[0].CbUncomp, blocks[1].CbUncomp)
	}
}

// TestScenarioS3 covers two single-file folders.
func TestScenarioS3(t *testing.T) {
	dir := t.TempDir()
	aPath := writeTempFile(t, dir, "a", []byte("a"))
	bPath := writeTempFile(t, dir, "b", []byte("b"))

	entries := []ManifestEntry{
		{FolderIndex: 0, SourcePath: aPath},
		{FolderIndex: 1, SourcePath: bPath},
	}
	var buf bytes.Buffer
	if err := Pack(context.Background(), entries, 6, &buf, PackOptions{}); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	c, err := Open(buf.Bytes())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(c.Folders) != 2 {
		t.Fatalf("cFolders = %d, want 2", len(c.Folders))
	}
	for i, f := range c.Folders {
		if f.CCFData != 1 {
			t.Errorf("folder %d has %d blocks, want 1", i, f.CCFData)
		}
	}
}

// TestConcurrentMatchesSequential covers property 9: Extract/Pack with a
// worker pool of size 1 versus N>1 produce identical results (for Pack,
// identical apart from the clock-derived setID).
func TestConcurrentMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	var entries []ManifestEntry
	for i := 0; i < 6; i++ {
		p := writeTempFile(t, dir, string(rune('a'+i))+".bin", bytes.Repeat([]byte{byte('A' + i)}, 5000))
		entries = append(entries, ManifestEntry{FolderIndex: i, SourcePath: p})
	}

	var seq, par bytes.Buffer
	if err := Pack(context.Background(), entries, 6, &seq, PackOptions{Workers: 1}); err != nil {
		t.Fatalf("sequential Pack: %v", err)
	}
	if err := Pack(context.Background(), entries, 6, &par, PackOptions{Workers: 4}); err != nil {
		t.Fatalf("parallel Pack: %v", err)
	}
	// setID (header bytes 32..34) comes from the clock on every Pack call,
	// so it is cleared in both copies before comparing the rest.
	seqBytes := append([]byte(nil), seq.Bytes()...)
	parBytes := append([]byte(nil), par.Bytes()...)
	putU16(seqBytes[32:34], 0)
	putU16(parBytes[32:34], 0)
	if !bytes.Equal(seqBytes, parBytes) {
		t.Error("sequential and parallel Pack produced different output")
	}

	c, err := Open(seq.Bytes())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seqDir, parDir := filepath.Join(dir, "seq"), filepath.Join(dir, "par")
	if err := c.Extract(context.Background(), seqDir, ExtractOptions{Workers: 1}); err != nil {
		t.Fatalf("sequential Extract: %v", err)
	}
	if err := c.Extract(context.Background(), parDir, ExtractOptions{Workers: 4}); err != nil {
		t.Fatalf("parallel Extract: %v", err)
	}
	for i := 0; i < 6; i++ {
		name := string(rune('a'+i)) + ".bin"
		a, errA := os.ReadFile(filepath.Join(seqDir, name))
		b, errB := os.ReadFile(filepath.Join(parDir, name))
		if errA != nil || errB != nil || !bytes.Equal(a, b) {
			t.Errorf("%s differs between sequential and parallel extract", name)
		}
	}
}
