package cab

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// ManifestEntry is one line of a pack manifest: a source path and the
// cabinet folder it belongs to.
type ManifestEntry struct {
	FolderIndex int
	SourcePath  string
}

// manifestEntry is the internal, per-folder working form used by the
// pack pipeline; it additionally knows its position in the file table.
type manifestEntry struct {
	ManifestEntry
	fileIndex int
}

// ParseManifest reads the pack manifest format: one "<folder_index>,<source_path>"
// line per file, folder indices nonnegative, the final line's trailing
// newline optional. Entries for a given folder must be contiguous and
// already in the order they should occupy within that folder; this
// function does not reorder them.
func ParseManifest(r io.Reader) ([]ManifestEntry, error) {
	var entries []ManifestEntry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		idx := strings.IndexByte(text, ',')
		if idx < 0 {
			return nil, &ManifestError{Line: line, Msg: "missing ',' separating folder index from path"}
		}
		folderStr, sourcePath := text[:idx], text[idx+1:]
		folder, err := strconv.Atoi(folderStr)
		if err != nil || folder < 0 {
			return nil, &ManifestError{Line: line, Msg: fmt.Sprintf("invalid folder index %q", folderStr)}
		}
		if sourcePath == "" {
			return nil, &ManifestError{Line: line, Msg: "empty source path"}
		}
		entries = append(entries, ManifestEntry{FolderIndex: folder, SourcePath: sourcePath})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cab: reading manifest: %w", err)
	}
	return entries, nil
}

// folderCount returns max(FolderIndex)+1 across entries, or 0 if entries
// is empty.
func folderCount(entries []ManifestEntry) int {
	max := -1
	for _, e := range entries {
		if e.FolderIndex > max {
			max = e.FolderIndex
		}
	}
	return max + 1
}

// entriesForFolder returns, in manifest order, the entries assigned to
// folder k, tagged with their absolute position in the file table (the
// count of entries seen across all folders before them).
func entriesForFolder(entries []ManifestEntry, k int) []manifestEntry {
	var out []manifestEntry
	seen := 0
	for _, e := range entries {
		if e.FolderIndex == k {
			out = append(out, manifestEntry{ManifestEntry: e, fileIndex: seen})
		}
		seen++
	}
	return out
}

// archiveName returns the last path segment of a manifest source path,
// which is what gets written as the CFFILE name.
func archiveName(sourcePath string) string {
	return path.Base(toSlash(sourcePath))
}

// toSlash normalizes OS-specific separators to '/' before taking the
// final path segment, so a manifest built on any platform yields the
// same archived name.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
