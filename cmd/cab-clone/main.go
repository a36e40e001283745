// Command cab-clone rewrites a target cabinet's mutable header and file
// fields to match a reference cabinet.
package main

import (
	"flag"
	"log"

	"git.dolansoft.org/lorenz/gocab/cab"
	"git.dolansoft.org/lorenz/gocab/internal/clierr"
	"git.dolansoft.org/lorenz/gocab/internal/mmapfile"
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		log.Fatalf("usage: cab-clone <reference> <target>")
	}
	refPath, targetPath := flag.Arg(0), flag.Arg(1)

	ref, err := mmapfile.Open(refPath)
	if err != nil {
		clierr.Fail("failed to open reference: %v", err)
	}
	defer ref.Close()

	target, err := mmapfile.OpenWritable(targetPath)
	if err != nil {
		clierr.Fail("failed to open target: %v", err)
	}
	defer target.Close()

	changed, err := cab.Clone(ref.Bytes(), target.Bytes())
	if err != nil {
		clierr.Fail("refusing to clone: %v", err)
	}
	if !changed {
		return
	}
	if err := target.Sync(); err != nil {
		clierr.Fail("failed to flush target: %v", err)
	}
}
