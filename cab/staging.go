package cab

import (
	"io"

	"github.com/orcaman/writerseeker"
)

// stagingWriter assembles one folder's serialized CFDATA block stream.
// Each block's header is written as a zero-valued placeholder, the
// payload follows immediately, and then the writer seeks back to patch
// the header once cbData/cbUncomp/csum are known — mirroring, without
// unsafe pointer patching, the original tool's habit of writing a sector
// structure up front and filling it in once compression has run.
type stagingWriter struct {
	w *writerseeker.WriterSeeker
}

func newStagingWriter() *stagingWriter {
	return &stagingWriter{w: &writerseeker.WriterSeeker{}}
}

// writeBlock appends one CFDATA block (header + payload) to the stream.
func (s *stagingWriter) writeBlock(hdr DataBlockHeader, payload []byte) {
	headerOff, _ := s.w.Seek(0, io.SeekEnd)
	s.w.Write(make([]byte, dataBlockHeaderSize)) // placeholder
	s.w.Write(payload)

	end, _ := s.w.Seek(0, io.SeekEnd)
	s.w.Seek(headerOff, io.SeekStart)
	s.w.Write(putDataBlockHeader(hdr))
	s.w.Seek(end, io.SeekStart)
}

// Bytes returns the assembled block stream.
func (s *stagingWriter) Bytes() []byte {
	b, _ := io.ReadAll(s.w.Reader())
	return b
}
