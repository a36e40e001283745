//go:build !unix

package mmapfile

import "os"

// Open reads path's full contents into memory, read-only.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// OpenWritable reads path's full contents into memory; Sync rewrites the
// whole file from the current buffer contents.
func OpenWritable(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &File{data: data}
	f.syncFunc = func() error {
		return os.WriteFile(path, f.data, 0644)
	}
	return f, nil
}
