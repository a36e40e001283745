package cab

// Signature is the fixed 4-byte magic every cabinet starts with.
var Signature = [4]byte{'M', 'S', 'C', 'F'}

// Header flag bits.
const (
	FlagPrevCabinet uint16 = 1 << iota
	FlagNextCabinet
	FlagReservePresent
)

// Compression type, packed into the low 4 bits of CFFOLDER.TypeCompress.
const (
	CompressMask  uint16 = 0xf
	CompressNone  uint16 = 0x0
	CompressMSZIP uint16 = 0x1
	CompressQuantum uint16 = 0x2
	CompressLZX   uint16 = 0x3
)

// File attribute bits, as stored in CFFILE.Attribs.
const (
	AttribReadOnly uint16 = 1 << iota
	AttribHidden
	AttribSystem
	_
	_
	AttribArchive
	AttribExec
	AttribNameIsUTF
)

// mszipTag is the two-byte marker ("CK") that precedes every ms-zip
// payload.
var mszipTag = [2]byte{0x43, 0x4b}

// maxBlockSize is the largest number of uncompressed bytes a single CFDATA
// block may hold.
const maxBlockSize = 32768

// headerSize is the on-disk size of CFHEADER.
const headerSize = 36

// folderEntrySize is the on-disk size of one CFFOLDER entry.
const folderEntrySize = 8

// fileEntrySize is the on-disk size of one CFFILE entry, excluding its
// NUL-terminated name.
const fileEntrySize = 16

// dataBlockHeaderSize is the on-disk size of one CFDATA header, excluding
// its payload.
const dataBlockHeaderSize = 8

// Header is the CFHEADER structure: the 36-byte prologue of every cabinet.
type Header struct {
	Reserved1    uint32
	CbCabinet    uint32 // total size of the cabinet file, in bytes
	Reserved2    uint32
	CoffFiles    uint32 // absolute offset of the first CFFILE entry
	Reserved3    uint32
	VersionMinor uint8
	VersionMajor uint8
	CFolders     uint16 // number of CFFOLDER entries
	CFiles       uint16 // number of CFFILE entries
	Flags        uint16
	SetID        uint16
	ICabinet     uint16 // sequence number within a cabinet set
}

// Folder is the CFFOLDER structure: one compression stream descriptor.
type Folder struct {
	CoffCabStart uint32 // absolute offset of this folder's first CFDATA block
	CCFData      uint16 // number of CFDATA blocks in this folder
	TypeCompress uint16 // compression type, low 4 bits significant
}

// Compression returns the folder's compression type, with the reserved
// high bits masked off.
func (f Folder) Compression() uint16 { return f.TypeCompress & CompressMask }

// File is one CFFILE entry together with its associated name.
type File struct {
	CbFile          uint32 // uncompressed size, in bytes
	UoffFolderStart uint32 // byte offset within the owning folder's uncompressed stream
	IFolder         uint16 // index into the folder table
	Date            uint16 // DOS date
	Time            uint16 // DOS time
	Attribs         uint16
	Name            string
}

// DataBlockHeader is the CFDATA structure that precedes every block's
// payload.
type DataBlockHeader struct {
	Csum     uint32 // block checksum; 0 disables verification
	CbData   uint16 // payload length, including ms-zip framing
	CbUncomp uint16 // uncompressed length, at most maxBlockSize
}
