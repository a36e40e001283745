// Command cab-pack builds a cabinet from a manifest file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"git.dolansoft.org/lorenz/gocab/cab"
	"git.dolansoft.org/lorenz/gocab/internal/clierr"
)

var (
	flagWorkers          = flag.Int("workers", 0, "number of folders to compress concurrently (0 = unbounded)")
	flagPreserveMetadata = flag.Bool("preserve-metadata", false, "derive each file's date/time from its source file's modification time instead of writing zero")
)

func main() {
	flag.Parse()
	if flag.NArg() != 3 {
		log.Fatalf("usage: cab-pack <manifest> <level 0..9> <output>")
	}
	manifestPath, levelArg, outPath := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	level, err := strconv.Atoi(levelArg)
	if err != nil {
		log.Fatalf("invalid compression level %q: %v", levelArg, err)
	}

	mf, err := os.Open(manifestPath)
	if err != nil {
		clierr.Fail("failed to open manifest: %v", err)
	}
	entries, err := cab.ParseManifest(mf)
	mf.Close()
	if err != nil {
		clierr.Fail("failed to parse manifest: %v", err)
	}

	out, err := os.CreateTemp(filepath.Dir(outPath), "cab-pack-*")
	if err != nil {
		clierr.Fail("failed to create temporary output: %v", err)
	}
	tmpPath := out.Name()
	defer os.Remove(tmpPath)

	opts := cab.PackOptions{Workers: *flagWorkers, PreserveMetadata: *flagPreserveMetadata}
	if err := cab.Pack(context.Background(), entries, level, out, opts); err != nil {
		out.Close()
		clierr.Fail("failed to pack archive: %v", err)
	}
	if err := out.Close(); err != nil {
		clierr.Fail("failed to finalize output: %v", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		clierr.Fail("failed to write output: %v", err)
	}
}
