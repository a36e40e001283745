package cab

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// metadataMode selects how CFFILE date/time/attribs are populated on
// pack.
type metadataMode int

const (
	// metadataZero zeroes date/time/attribs, matching the historical
	// default: the cabinet carries no filesystem metadata.
	metadataZero metadataMode = iota
	// metadataFromStat derives date/time from each source file's mtime;
	// attribs stay zero. An explicit opt-in, see PackOptions.
	metadataFromStat
)

// PackOptions configures Pack beyond the required manifest/level/output.
type PackOptions struct {
	// PreserveMetadata, if true, derives each file's CFFILE date/time
	// from its source file's modification time instead of writing
	// zero. Off by default so existing callers see unchanged output.
	PreserveMetadata bool

	// Workers bounds how many folders are packed concurrently. <=0
	// means unbounded.
	Workers int
}

// Pack builds a cabinet from entries (as parsed from a manifest file; see
// ParseManifest) at the given compression level (0-9) and writes it to
// w. Folders are packed concurrently with one another; apart from the
// header's setID, which is taken from the clock on every call, the bytes
// written to w, and their order, are identical regardless of the degree
// of concurrency used.
func Pack(ctx context.Context, entries []ManifestEntry, level int, w io.Writer, opts PackOptions) error {
	if err := checkLevel(level); err != nil {
		return err
	}

	meta := metadataZero
	if opts.PreserveMetadata {
		meta = metadataFromStat
	}

	nFolders := folderCount(entries)
	type folderResult struct {
		blockStream   []byte
		files         []File
		folderEntries []manifestEntry
	}
	results := make([]folderResult, nFolders)

	eg, egCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for k := 0; k < nFolders; k++ {
		k := k
		folderEntries := entriesForFolder(entries, k)
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			blockStream, files, err := packFolder(k, folderEntries, level, meta)
			if err != nil {
				return err
			}
			results[k] = folderResult{blockStream: blockStream, files: files, folderEntries: folderEntries}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// Flatten per-folder file records back into file-table order (the
	// manifest's line order): packFolder returns files in the same order
	// as the folderEntries it was given, and each manifestEntry knows its
	// absolute position in the file table.
	files := make([]File, len(entries))
	for k := 0; k < nFolders; k++ {
		for i, f := range results[k].files {
			files[results[k].folderEntries[i].fileIndex] = f
		}
	}

	folders := make([]Folder, nFolders)
	coffFiles := uint32(headerSize + nFolders*folderEntrySize)
	fileTableSize := uint32(0)
	for _, f := range files {
		fileTableSize += uint32(fileEntrySize + len(f.Name) + 1)
	}
	blockBase := coffFiles + fileTableSize

	cursor := blockBase
	for k := 0; k < nFolders; k++ {
		folders[k] = Folder{
			CoffCabStart: cursor,
			CCFData:      countBlocks(results[k].blockStream),
			TypeCompress: CompressMSZIP,
		}
		cursor += uint32(len(results[k].blockStream))
	}

	h := Header{
		CbCabinet:    cursor,
		CoffFiles:    coffFiles,
		VersionMinor: 3,
		VersionMajor: 1,
		CFolders:     uint16(nFolders),
		CFiles:       uint16(len(files)),
		SetID:        uint16(time.Now().UnixMicro() & 0xffff),
	}

	if _, err := w.Write(putHeader(h)); err != nil {
		return err
	}
	for _, f := range folders {
		if _, err := w.Write(putFolder(f)); err != nil {
			return err
		}
	}
	for _, f := range files {
		if _, err := w.Write(putFile(f)); err != nil {
			return err
		}
	}
	for k := 0; k < nFolders; k++ {
		if _, err := w.Write(results[k].blockStream); err != nil {
			return err
		}
	}
	return nil
}

// countBlocks recovers the number of CFDATA blocks serialized into
// stream by replaying its header chain; used because packFolder returns
// raw bytes rather than a block count.
func countBlocks(stream []byte) uint16 {
	var n uint16
	off := 0
	for off+dataBlockHeaderSize <= len(stream) {
		cbData := int(stream[off+4]) | int(stream[off+5])<<8
		off += dataBlockHeaderSize + cbData
		n++
	}
	return n
}

// loadFolderFiles reads every manifest entry assigned to folder folderIdx
// into one contiguous staging buffer, and builds the corresponding File
// records (UoffFolderStart/CbFile/IFolder/Name, plus Date/Time/Attribs
// per meta).
func loadFolderFiles(folderIdx int, entries []manifestEntry, meta metadataMode) ([]byte, []File, error) {
	stats := make([]os.FileInfo, len(entries))
	var total int64
	for i, e := range entries {
		fi, err := os.Stat(e.SourcePath)
		if err != nil {
			return nil, nil, err
		}
		stats[i] = fi
		total += fi.Size()
	}

	staging := make([]byte, total)
	files := make([]File, len(entries))
	var off int64
	for i, e := range entries {
		size := stats[i].Size()
		f, err := os.Open(e.SourcePath)
		if err != nil {
			return nil, nil, err
		}
		n, err := io.ReadFull(f, staging[off:off+size])
		f.Close()
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return nil, nil, err
		}
		if int64(n) != size {
			return nil, nil, &BufferOverflowError{What: "source file changed size while packing: " + e.SourcePath}
		}

		rec := File{
			CbFile:          uint32(size),
			UoffFolderStart: uint32(off),
			IFolder:         uint16(folderIdx),
			Name:            archiveName(e.SourcePath),
		}
		if meta == metadataFromStat {
			rec.Date, rec.Time = dosDateTime(stats[i].ModTime())
		}
		files[i] = rec
		off += size
	}
	return staging, files, nil
}

// dosDateTime converts t to the packed DOS date/time fields CFFILE uses:
// date is (year-1980)<<9 | month<<5 | day, time is hour<<11 | minute<<5 |
// (second/2).
func dosDateTime(t time.Time) (date, clock uint16) {
	y := t.Year()
	if y < 1980 {
		y = 1980
	}
	date = uint16((y-1980)<<9) | uint16(int(t.Month())<<5) | uint16(t.Day())
	clock = uint16(t.Hour()<<11) | uint16(t.Minute()<<5) | uint16(t.Second()/2)
	return date, clock
}
