// Command cab-manifest derives a pack manifest from a source directory
// tree, suitable as direct input to cab-pack.
package main

import (
	"flag"
	"log"
	"os"

	"git.dolansoft.org/lorenz/gocab/cab"
	"git.dolansoft.org/lorenz/gocab/internal/clierr"
)

var (
	flagPerDir       = flag.Bool("per-dir", true, "put each top-level entry of source_dir in its own folder")
	flagSingleFolder = flag.Bool("single-folder", false, "put everything in folder 0")
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		log.Fatalf("usage: cab-manifest <source_dir> <manifest_out>")
	}
	srcDir, manifestOut := flag.Arg(0), flag.Arg(1)

	mode := cab.AssignPerTopLevelDir
	if *flagSingleFolder {
		mode = cab.AssignSingleFolder
	} else if !*flagPerDir {
		mode = cab.AssignSingleFolder
	}

	entries, err := cab.GenerateManifest(srcDir, mode)
	if err != nil {
		clierr.Fail("failed to walk source directory: %v", err)
	}

	out, err := os.Create(manifestOut)
	if err != nil {
		clierr.Fail("failed to create manifest output: %v", err)
	}
	defer out.Close()

	if err := cab.WriteManifest(entries, out); err != nil {
		clierr.Fail("failed to write manifest: %v", err)
	}
}
