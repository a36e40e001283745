// Command cab-list prints a cabinet's header, folder, and file table.
package main

import (
	"flag"
	"log"
	"os"

	"git.dolansoft.org/lorenz/gocab/cab"
	"git.dolansoft.org/lorenz/gocab/internal/clierr"
	"git.dolansoft.org/lorenz/gocab/internal/mmapfile"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: cab-list <archive>")
	}

	f, err := mmapfile.Open(flag.Arg(0))
	if err != nil {
		clierr.Fail("failed to open archive: %v", err)
	}
	defer f.Close()

	c, err := cab.Open(f.Bytes())
	if err != nil {
		clierr.Fail("failed to parse archive: %v", err)
	}

	if err := c.List(os.Stdout); err != nil {
		clierr.Fail("failed to list archive: %v", err)
	}
}
