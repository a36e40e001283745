package cab

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// AssignMode selects how GenerateManifest groups discovered files into
// cabinet folders.
type AssignMode int

const (
	// AssignPerTopLevelDir puts every regular file found under a given
	// top-level entry of the source directory into that entry's own
	// folder; top-level regular files (not inside any subdirectory) each
	// get their own folder.
	AssignPerTopLevelDir AssignMode = iota
	// AssignSingleFolder puts every discovered file into folder 0.
	AssignSingleFolder
)

// GenerateManifest walks srcDir and returns the manifest entries needed
// to pack its files, assigning folders according to mode. Entries are
// grouped per folder and ordered so that, written out via WriteManifest,
// they satisfy the pack manifest format's "entries for a folder are
// contiguous" requirement.
func GenerateManifest(srcDir string, mode AssignMode) ([]ManifestEntry, error) {
	fsys := os.DirFS(srcDir)
	matches, err := doublestar.Glob(fsys, "**")
	if err != nil {
		return nil, fmt.Errorf("cab: walking %s: %w", srcDir, err)
	}
	sort.Strings(matches)

	var files []string
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("cab: stat %s: %w", m, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, m)
	}

	switch mode {
	case AssignSingleFolder:
		entries := make([]ManifestEntry, len(files))
		for i, rel := range files {
			entries[i] = ManifestEntry{FolderIndex: 0, SourcePath: filepath.Join(srcDir, filepath.FromSlash(rel))}
		}
		return entries, nil
	case AssignPerTopLevelDir:
		return assignPerTopLevelDir(srcDir, files), nil
	default:
		return nil, fmt.Errorf("cab: unknown assign mode %d", mode)
	}
}

// assignPerTopLevelDir groups relative paths by their first path
// component, assigning one folder index per distinct top-level component
// in first-seen order, and returns entries grouped contiguously by
// folder.
func assignPerTopLevelDir(srcDir string, files []string) []ManifestEntry {
	folderOf := make(map[string]int)
	var order []string
	for _, rel := range files {
		top := rel
		if idx := firstSlash(rel); idx >= 0 {
			top = rel[:idx]
		}
		if _, ok := folderOf[top]; !ok {
			folderOf[top] = len(order)
			order = append(order, top)
		}
	}

	byFolder := make([][]string, len(order))
	for _, rel := range files {
		top := rel
		if idx := firstSlash(rel); idx >= 0 {
			top = rel[:idx]
		}
		k := folderOf[top]
		byFolder[k] = append(byFolder[k], rel)
	}

	var entries []ManifestEntry
	for k, rels := range byFolder {
		for _, rel := range rels {
			entries = append(entries, ManifestEntry{FolderIndex: k, SourcePath: filepath.Join(srcDir, filepath.FromSlash(rel))})
		}
	}
	return entries
}

func firstSlash(p string) int {
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			return i
		}
	}
	return -1
}

// WriteManifest writes entries in the §6 manifest text format.
func WriteManifest(entries []ManifestEntry, w io.Writer) error {
	for _, e := range entries {
		line := fmt.Sprintf("%d,%s\n", e.FolderIndex, toSlash(e.SourcePath))
		if _, err := w.Write([]byte(line)); err != nil {
			return err
		}
	}
	return nil
}
