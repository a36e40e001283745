package cab

import (
	"log/slog"
)

// extractFolder decompresses every block of folder (whose index is
// folderIdx, used only for diagnostics) and returns one uncompressed
// buffer per block, in order. Block i>0 is inflated using block i-1's
// uncompressed bytes as a preset dictionary, so blocks must be processed
// strictly in order within a folder.
//
// A nonzero but mismatching block checksum is logged as a structured
// warning and otherwise ignored: historically-corrupt archives are still
// expected to extract best-effort.
func extractFolder(base []byte, folderIdx int, folder Folder) ([][]byte, error) {
	blocks, err := IterBlocks(base, folder)
	if err != nil {
		return nil, err
	}

	compression := folder.Compression()
	if compression != CompressNone && compression != CompressMSZIP {
		return nil, &UnsupportedCompressionError{Folder: folderIdx, Type: folder.TypeCompress}
	}

	out := make([][]byte, len(blocks))
	var dict []byte
	for i, b := range blocks {
		if b.CbUncomp > maxBlockSize {
			return nil, &BufferOverflowError{What: "block uncompressed size exceeds 32768"}
		}

		var uncompressed []byte
		switch compression {
		case CompressNone:
			if int(b.CbData) != int(b.CbUncomp) {
				return nil, &TruncatedBlockError{Folder: folderIdx, Block: i, Want: int(b.CbUncomp), Got: int(b.CbData)}
			}
			uncompressed = append([]byte(nil), b.Payload...)
		case CompressMSZIP:
			if len(b.Payload) < 2 || b.Payload[0] != mszipTag[0] || b.Payload[1] != mszipTag[1] {
				return nil, &CodecError{Op: "ms-zip tag", Err: errInvalidTag}
			}
			uncompressed, err = inflateBlock(b.Payload[2:], int(b.CbUncomp), dict)
			if err != nil {
				return nil, err
			}
		}

		if b.Csum != 0 {
			if got := blockChecksum(b.CbData, b.CbUncomp, b.Payload); got != b.Csum {
				slog.Warn("cab: block checksum mismatch", "folder", folderIdx, "block", i, "want", b.Csum, "got", got)
			}
		}

		out[i] = uncompressed
		dict = uncompressed
	}
	return out, nil
}

var errInvalidTag = &tagError{}

type tagError struct{}

func (*tagError) Error() string { return "missing ms-zip \"CK\" tag" }

// copyFileBytes copies the cbFile bytes of a file starting at
// uoffFolderStart out of the virtual concatenation of a folder's
// per-block uncompressed buffers and returns them in a new slice.
func copyFileBytes(blocks [][]byte, uoffFolderStart, cbFile uint32) ([]byte, error) {
	dst := make([]byte, 0, cbFile)
	start := uint64(uoffFolderStart)
	remaining := uint64(cbFile)
	var seen uint64

	for _, buf := range blocks {
		blen := uint64(len(buf))
		if seen+blen <= start {
			seen += blen
			continue
		}
		var off uint64
		if start > seen {
			off = start - seen
		}
		avail := blen - off
		take := avail
		if take > remaining {
			take = remaining
		}
		dst = append(dst, buf[off:off+take]...)
		remaining -= take
		seen += blen
		if remaining == 0 {
			break
		}
	}
	if remaining != 0 {
		return nil, &RangeError{What: "file data", Off: int(start), Size: int(seen)}
	}
	return dst, nil
}

// packFolder lays out the files assigned to one folder into a staging
// buffer, slices it into <=32768-byte chunks, and deflates each chunk
// (seeded with the previous chunk as dictionary) into a serialized CFDATA
// block stream. It returns the assembled block stream and the File
// records (with UoffFolderStart/CbFile/IFolder populated) in manifest
// order.
func packFolder(folderIdx int, entries []manifestEntry, level int, meta metadataMode) ([]byte, []File, error) {
	if err := checkLevel(level); err != nil {
		return nil, nil, err
	}

	staging, files, err := loadFolderFiles(folderIdx, entries, meta)
	if err != nil {
		return nil, nil, err
	}

	sw := newStagingWriter()
	var dict []byte
	for off := 0; off < len(staging); {
		end := off + maxBlockSize
		if end > len(staging) {
			end = len(staging)
		}
		chunk := staging[off:end]

		compressed, err := deflateBlock(chunk, level, dict)
		if err != nil {
			return nil, nil, err
		}

		payload := make([]byte, 0, 2+len(compressed))
		payload = append(payload, mszipTag[:]...)
		payload = append(payload, compressed...)

		cbData := uint16(len(payload))
		cbUncomp := uint16(len(chunk))
		csum := blockChecksum(cbData, cbUncomp, payload)

		sw.writeBlock(DataBlockHeader{Csum: csum, CbData: cbData, CbUncomp: cbUncomp}, payload)

		dict = chunk
		off = end
	}

	return sw.Bytes(), files, nil
}
