package cab

import "fmt"

// ParseHeader reads and validates the 36-byte CFHEADER at the start of
// base. It fails with BadSignatureError if the magic does not read
// "MSCF", or RangeError if base is shorter than headerSize.
func ParseHeader(base []byte) (Header, error) {
	var h Header
	c := newCursor(base)

	sig, err := c.bytes(4, "header signature")
	if err != nil {
		return h, err
	}
	if !bytes4Equal(sig, Signature) {
		var got [4]byte
		copy(got[:], sig)
		return h, &BadSignatureError{Got: got}
	}

	var readErr error
	read32 := func(what string) uint32 {
		v, err := c.u32(what)
		if err != nil && readErr == nil {
			readErr = err
		}
		return v
	}
	read16 := func(what string) uint16 {
		v, err := c.u16(what)
		if err != nil && readErr == nil {
			readErr = err
		}
		return v
	}
	read8 := func(what string) uint8 {
		v, err := c.u8(what)
		if err != nil && readErr == nil {
			readErr = err
		}
		return v
	}

	h.Reserved1 = read32("reserved1")
	h.CbCabinet = read32("cbCabinet")
	h.Reserved2 = read32("reserved2")
	h.CoffFiles = read32("coffFiles")
	h.Reserved3 = read32("reserved3")
	h.VersionMinor = read8("versionMinor")
	h.VersionMajor = read8("versionMajor")
	h.CFolders = read16("cFolders")
	h.CFiles = read16("cFiles")
	h.Flags = read16("flags")
	h.SetID = read16("setID")
	h.ICabinet = read16("iCabinet")
	if readErr != nil {
		return Header{}, readErr
	}

	if h.Flags&FlagReservePresent != 0 {
		if _, err := skipReserveBlock(c); err != nil {
			return Header{}, err
		}
	}

	return h, nil
}

// skipReserveBlock consumes the optional CFHEADER reserve block (present
// when FlagReservePresent is set) without interpreting its content: the
// per-folder and per-block reserve sizes it declares, and the header's
// own app-specific reserve bytes.
func skipReserveBlock(c *cursor) (headerReserve struct{ folder, data uint8 }, err error) {
	cbCFHeader, err := c.u16("reserve header size")
	if err != nil {
		return headerReserve, err
	}
	headerReserve.folder, err = c.u8("reserve folder size")
	if err != nil {
		return headerReserve, err
	}
	headerReserve.data, err = c.u8("reserve data size")
	if err != nil {
		return headerReserve, err
	}
	if _, err := c.bytes(int(cbCFHeader), "reserve header data"); err != nil {
		return headerReserve, err
	}
	return headerReserve, nil
}

// headerEnd returns the byte offset immediately after the CFHEADER and
// its optional reserve block, i.e. where the folder table begins.
func headerEnd(base []byte, h Header) (int, error) {
	c := newCursorAt(base, headerSize)
	if h.Flags&FlagReservePresent != 0 {
		if _, err := skipReserveBlock(c); err != nil {
			return 0, err
		}
	}
	return c.off, nil
}

func bytes4Equal(b []byte, want [4]byte) bool {
	return len(b) == 4 && b[0] == want[0] && b[1] == want[1] && b[2] == want[2] && b[3] == want[3]
}

// IterFolders returns the header's cFolders CFFOLDER entries.
func IterFolders(base []byte, h Header) ([]Folder, error) {
	off, err := headerEnd(base, h)
	if err != nil {
		return nil, err
	}
	c := newCursorAt(base, off)
	folders := make([]Folder, 0, h.CFolders)
	for i := 0; i < int(h.CFolders); i++ {
		what := fmt.Sprintf("folder entry %d", i)
		coff, err := c.u32(what)
		if err != nil {
			return nil, err
		}
		n, err := c.u16(what)
		if err != nil {
			return nil, err
		}
		typ, err := c.u16(what)
		if err != nil {
			return nil, err
		}
		folders = append(folders, Folder{CoffCabStart: coff, CCFData: n, TypeCompress: typ})
	}
	return folders, nil
}

// IterFiles returns the header's cFiles CFFILE entries, each with its
// associated name, starting at h.CoffFiles.
func IterFiles(base []byte, h Header) ([]File, error) {
	c := newCursorAt(base, int(h.CoffFiles))
	files := make([]File, 0, h.CFiles)
	for i := 0; i < int(h.CFiles); i++ {
		what := fmt.Sprintf("file entry %d", i)
		var f File
		var err error
		if f.CbFile, err = c.u32(what); err != nil {
			return nil, err
		}
		if f.UoffFolderStart, err = c.u32(what); err != nil {
			return nil, err
		}
		if f.IFolder, err = c.u16(what); err != nil {
			return nil, err
		}
		if f.Date, err = c.u16(what); err != nil {
			return nil, err
		}
		if f.Time, err = c.u16(what); err != nil {
			return nil, err
		}
		if f.Attribs, err = c.u16(what); err != nil {
			return nil, err
		}
		if f.Name, err = c.cstring(what + " name"); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// block is one parsed CFDATA entry: its header plus the payload slice it
// describes, aliasing base.
type block struct {
	DataBlockHeader
	Payload []byte
}

// IterBlocks returns folder's cCFData CFDATA (header, payload) pairs,
// starting at folder.CoffCabStart.
func IterBlocks(base []byte, folder Folder) ([]block, error) {
	c := newCursorAt(base, int(folder.CoffCabStart))
	blocks := make([]block, 0, folder.CCFData)
	for i := 0; i < int(folder.CCFData); i++ {
		what := fmt.Sprintf("data block %d", i)
		var hdr DataBlockHeader
		var err error
		if hdr.Csum, err = c.u32(what); err != nil {
			return nil, err
		}
		if hdr.CbData, err = c.u16(what); err != nil {
			return nil, err
		}
		if hdr.CbUncomp, err = c.u16(what); err != nil {
			return nil, err
		}
		payload, err := c.bytes(int(hdr.CbData), what+" payload")
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block{DataBlockHeader: hdr, Payload: payload})
	}
	return blocks, nil
}

// putHeader serializes h into a fresh 36-byte CFHEADER. Producers in this
// package never set FlagReservePresent, so the reserve block is never
// emitted.
func putHeader(h Header) []byte {
	b := make([]byte, headerSize)
	copy(b[0:4], Signature[:])
	putU32(b[4:8], h.Reserved1)
	putU32(b[8:12], h.CbCabinet)
	putU32(b[12:16], h.Reserved2)
	putU32(b[16:20], h.CoffFiles)
	putU32(b[20:24], h.Reserved3)
	b[24] = h.VersionMinor
	b[25] = h.VersionMajor
	putU16(b[26:28], h.CFolders)
	putU16(b[28:30], h.CFiles)
	putU16(b[30:32], h.Flags)
	putU16(b[32:34], h.SetID)
	putU16(b[34:36], h.ICabinet)
	return b
}

// putFolder serializes one CFFOLDER entry.
func putFolder(f Folder) []byte {
	b := make([]byte, folderEntrySize)
	putU32(b[0:4], f.CoffCabStart)
	putU16(b[4:6], f.CCFData)
	putU16(b[6:8], f.TypeCompress)
	return b
}

// putFile serializes one CFFILE entry followed by its NUL-terminated
// name.
func putFile(f File) []byte {
	b := make([]byte, fileEntrySize+len(f.Name)+1)
	putU32(b[0:4], f.CbFile)
	putU32(b[4:8], f.UoffFolderStart)
	putU16(b[8:10], f.IFolder)
	putU16(b[10:12], f.Date)
	putU16(b[12:14], f.Time)
	putU16(b[14:16], f.Attribs)
	copy(b[fileEntrySize:], f.Name)
	// trailing byte is left zero as the NUL terminator
	return b
}

// putDataBlockHeader serializes one CFDATA header.
func putDataBlockHeader(h DataBlockHeader) []byte {
	b := make([]byte, dataBlockHeaderSize)
	putU32(b[0:4], h.Csum)
	putU16(b[4:6], h.CbData)
	putU16(b[6:8], h.CbUncomp)
	return b
}
