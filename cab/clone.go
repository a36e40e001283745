package cab

// Clone patches target's mutable header and file fields (reserved1/2/3,
// versionMajor/Minor, flags, setID, iCabinet, and per-file date/time/
// attribs) in place from reference, and reports whether anything was
// changed. It refuses with StructuralMismatchError if cFolders, cFiles,
// any folder's typeCompress, any file's iFolder, or any file's name
// disagree between the two archives — those fields describe the
// compressed body and cannot be safely rewritten without re-compressing
// it.
//
// target must be a writable byte range (e.g. from a writable mmap); on
// success its mutable fields are updated in place and the caller is
// responsible for flushing them back to disk.
func Clone(reference []byte, target []byte) (changed bool, err error) {
	refHeader, err := ParseHeader(reference)
	if err != nil {
		return false, err
	}
	tgtHeader, err := ParseHeader(target)
	if err != nil {
		return false, err
	}

	if tgtHeader.CoffFiles != refHeader.CoffFiles {
		return false, &StructuralMismatchError{Field: "coffFiles"}
	}
	if tgtHeader.CFolders != refHeader.CFolders {
		return false, &StructuralMismatchError{Field: "cFolders"}
	}
	if tgtHeader.CFiles != refHeader.CFiles {
		return false, &StructuralMismatchError{Field: "cFiles"}
	}

	refFolders, err := IterFolders(reference, refHeader)
	if err != nil {
		return false, err
	}
	tgtFolders, err := IterFolders(target, tgtHeader)
	if err != nil {
		return false, err
	}
	for i := range refFolders {
		if refFolders[i].TypeCompress != tgtFolders[i].TypeCompress {
			return false, &StructuralMismatchError{Field: "folder typeCompress"}
		}
	}

	refFiles, err := IterFiles(reference, refHeader)
	if err != nil {
		return false, err
	}
	tgtFiles, err := IterFiles(target, tgtHeader)
	if err != nil {
		return false, err
	}
	for i := range refFiles {
		if refFiles[i].IFolder != tgtFiles[i].IFolder {
			return false, &StructuralMismatchError{Field: "file iFolder"}
		}
		if refFiles[i].Name != tgtFiles[i].Name {
			return false, &StructuralMismatchError{Field: "file name"}
		}
	}

	if patchHeader(target, refHeader, tgtHeader) {
		changed = true
	}
	if patchFileFields(target, tgtHeader, refFiles, tgtFiles) {
		changed = true
	}
	return changed, nil
}

// patchHeader overwrites target's mutable CFHEADER fields from ref where
// they differ, and reports whether anything changed.
func patchHeader(target []byte, ref, tgt Header) bool {
	changed := false
	set32 := func(off int, v uint32) {
		putU32(target[off:off+4], v)
	}
	set16 := func(off int, v uint16) {
		putU16(target[off:off+2], v)
	}
	set8 := func(off int, v uint8) {
		target[off] = v
	}

	if ref.Reserved1 != tgt.Reserved1 {
		set32(4, ref.Reserved1)
		changed = true
	}
	if ref.Reserved2 != tgt.Reserved2 {
		set32(12, ref.Reserved2)
		changed = true
	}
	if ref.Reserved3 != tgt.Reserved3 {
		set32(20, ref.Reserved3)
		changed = true
	}
	if ref.VersionMinor != tgt.VersionMinor {
		set8(24, ref.VersionMinor)
		changed = true
	}
	if ref.VersionMajor != tgt.VersionMajor {
		set8(25, ref.VersionMajor)
		changed = true
	}
	if ref.Flags != tgt.Flags {
		set16(30, ref.Flags)
		changed = true
	}
	if ref.SetID != tgt.SetID {
		set16(32, ref.SetID)
		changed = true
	}
	if ref.ICabinet != tgt.ICabinet {
		set16(34, ref.ICabinet)
		changed = true
	}
	return changed
}

// patchFileFields overwrites each target CFFILE's date/time/attribs from
// the corresponding reference entry where they differ. tgtHeader.CoffFiles
// locates the file table within target; each entry's on-disk size is
// re-derived from its name length so entries can be walked without
// re-parsing.
func patchFileFields(target []byte, tgtHeader Header, ref, tgt []File) bool {
	changed := false
	off := int(tgtHeader.CoffFiles)
	for i := range tgt {
		// CFFILE layout: cbFile(4) uoffFolderStart(4) iFolder(2) date(2)
		// time(2) attribs(2), see container.go's putFile.
		if ref[i].Date != tgt[i].Date {
			putU16(target[off+10:off+12], ref[i].Date)
			changed = true
		}
		if ref[i].Time != tgt[i].Time {
			putU16(target[off+12:off+14], ref[i].Time)
			changed = true
		}
		if ref[i].Attribs != tgt[i].Attribs {
			putU16(target[off+14:off+16], ref[i].Attribs)
			changed = true
		}
		off += fileEntrySize + len(tgt[i].Name) + 1
	}
	return changed
}
