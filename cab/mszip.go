package cab

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// inflateBlock decompresses one ms-zip block payload (the bytes after the
// two-byte "CK" tag) into exactly cbUncomp bytes, optionally seeded with
// dict (the previous block's uncompressed output) as a preset dictionary.
//
// Each call is a fresh, finish-in-one-shot raw-deflate stream: the format
// resets the codec between blocks rather than carrying deflate state
// across them, so a new reader is constructed per block instead of
// reusing one across the folder.
func inflateBlock(payload []byte, cbUncomp int, dict []byte) ([]byte, error) {
	var r io.ReadCloser
	if len(dict) == 0 {
		r = flate.NewReader(bytes.NewReader(payload))
	} else {
		r = flate.NewReaderDict(bytes.NewReader(payload), dict)
	}
	defer r.Close()

	out := make([]byte, cbUncomp)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, &CodecError{Op: "inflate", Err: err}
	}
	if n != cbUncomp {
		return nil, &TruncatedBlockError{Want: cbUncomp, Got: n}
	}
	return out, nil
}

// deflateBlock compresses chunk (at most maxBlockSize bytes) into a raw
// deflate stream at the given level, optionally seeded with dict (the
// previous chunk's uncompressed bytes) as a preset dictionary.
func deflateBlock(chunk []byte, level int, dict []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w *flate.Writer
	var err error
	if len(dict) == 0 {
		w, err = flate.NewWriter(&buf, level)
	} else {
		w, err = flate.NewWriterDict(&buf, level, dict)
	}
	if err != nil {
		return nil, &CodecError{Op: "deflate init", Err: err}
	}
	if _, err := w.Write(chunk); err != nil {
		return nil, &CodecError{Op: "deflate write", Err: err}
	}
	if err := w.Close(); err != nil {
		return nil, &CodecError{Op: "deflate close", Err: err}
	}
	return buf.Bytes(), nil
}

// checkLevel validates a pack compression level against the 0..9 range
// this format's encoder accepts.
func checkLevel(level int) error {
	if level < 0 || level > 9 {
		return fmt.Errorf("cab: compression level %d out of range [0,9]", level)
	}
	return nil
}
