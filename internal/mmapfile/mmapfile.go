// Package mmapfile gives the cab command suite a read-only or writable
// byte-range view of a file on disk, backed by a real mmap where the
// platform supports one and by a plain read/write fallback elsewhere.
// The cab package itself never sees which backend produced its []byte.
package mmapfile

// File is a byte-range view of an on-disk file.
type File struct {
	data     []byte
	syncFunc func() error
	closer   func() error
}

// Bytes returns the file's current contents. For a writable File, writes
// into the returned slice are only guaranteed durable after Sync.
func (f *File) Bytes() []byte { return f.data }

// Sync flushes in-memory modifications back to the underlying file. It is
// a no-op for read-only Files.
func (f *File) Sync() error {
	if f.syncFunc != nil {
		return f.syncFunc()
	}
	return nil
}

// Close releases the mapping (or, for the fallback backend, is a no-op).
func (f *File) Close() error {
	if f.closer != nil {
		return f.closer()
	}
	return nil
}
