package cab

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Cabinet is a parsed view over an archive's byte range: the header plus
// its folder and file tables. The underlying bytes are never copied;
// Cabinet only slices into base.
type Cabinet struct {
	base    []byte
	Header  Header
	Folders []Folder
	Files   []File
}

// Open parses base (typically a memory-mapped archive) into a Cabinet.
func Open(base []byte) (*Cabinet, error) {
	h, err := ParseHeader(base)
	if err != nil {
		return nil, err
	}
	folders, err := IterFolders(base, h)
	if err != nil {
		return nil, err
	}
	files, err := IterFiles(base, h)
	if err != nil {
		return nil, err
	}
	return &Cabinet{base: base, Header: h, Folders: folders, Files: files}, nil
}

// List writes a human-readable dump of the cabinet's header, folders and
// files to w. It tolerates folders with an unsupported compression type,
// printing a placeholder instead of failing: List is presentational, not
// a validator.
func (c *Cabinet) List(w io.Writer) error {
	fmt.Fprintf(w, "cabinet: %d bytes, %d folder(s), %d file(s)\n", c.Header.CbCabinet, c.Header.CFolders, c.Header.CFiles)
	for i, f := range c.Folders {
		compression := "unknown"
		switch f.Compression() {
		case CompressNone:
			compression = "stored"
		case CompressMSZIP:
			compression = "ms-zip"
		default:
			compression = fmt.Sprintf("0x%x", f.TypeCompress)
		}
		fmt.Fprintf(w, "folder %d: %d block(s), compression=%s\n", i, f.CCFData, compression)
	}
	for _, f := range c.Files {
		fmt.Fprintf(w, "  %-32s folder=%d offset=%d size=%d\n", f.Name, f.IFolder, f.UoffFolderStart, f.CbFile)
	}
	return nil
}

// ExtractOptions configures Extract beyond the required destination
// directory.
type ExtractOptions struct {
	// Workers bounds how many folders are decompressed concurrently.
	// <=0 means unbounded.
	Workers int
}

// Extract decompresses every folder and writes each archived file to
// destDir/<name>, creating destDir (mode 0755) if it does not exist.
// Folders are decompressed concurrently with one another; within a
// folder, blocks are necessarily sequential because of dictionary
// chaining (see extractFolder).
func (c *Cabinet) Extract(ctx context.Context, destDir string, opts ExtractOptions) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	// Resolve and validate destination paths up front, before doing any
	// decompression work, so a malicious archive is rejected without
	// spending CPU on folders whose files will never be written.
	outPaths := make([]string, len(c.Files))
	for i, f := range c.Files {
		p, err := sanitizedJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		outPaths[i] = p
	}

	decoded := make([][][]byte, len(c.Folders))
	eg, egCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for k, folder := range c.Folders {
		k, folder := k, folder
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			blocks, err := extractFolder(c.base, k, folder)
			if err != nil {
				return err
			}
			decoded[k] = blocks
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, f := range c.Files {
		if int(f.IFolder) >= len(decoded) {
			return &RangeError{What: fmt.Sprintf("file %q folder index", f.Name), Off: int(f.IFolder), Size: len(decoded)}
		}
		data, err := copyFileBytes(decoded[f.IFolder], f.UoffFolderStart, f.CbFile)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPaths[i], data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// sanitizedJoin joins destDir with an archived name, refusing names that
// would escape destDir via an absolute path or ".." traversal.
func sanitizedJoin(destDir, name string) (string, error) {
	clean := strings.ReplaceAll(name, "\\", "/")
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "/") {
		return "", &PathEscapeError{Name: name}
	}
	joined := filepath.Join(destDir, clean)
	rel, err := filepath.Rel(destDir, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &PathEscapeError{Name: name}
	}
	return joined, nil
}
