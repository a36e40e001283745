// Command cab-extract unpacks every file in a cabinet into a destination
// directory.
package main

import (
	"context"
	"flag"
	"log"

	"git.dolansoft.org/lorenz/gocab/cab"
	"git.dolansoft.org/lorenz/gocab/internal/clierr"
	"git.dolansoft.org/lorenz/gocab/internal/mmapfile"
)

var flagWorkers = flag.Int("workers", 0, "number of folders to decompress concurrently (0 = unbounded)")

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		log.Fatalf("usage: cab-extract <archive> <dest_dir>")
	}
	archivePath, destDir := flag.Arg(0), flag.Arg(1)

	f, err := mmapfile.Open(archivePath)
	if err != nil {
		clierr.Fail("failed to open archive: %v", err)
	}
	defer f.Close()

	c, err := cab.Open(f.Bytes())
	if err != nil {
		clierr.Fail("failed to parse archive: %v", err)
	}

	if err := c.Extract(context.Background(), destDir, cab.ExtractOptions{Workers: *flagWorkers}); err != nil {
		clierr.Fail("failed to extract archive: %v", err)
	}
}
