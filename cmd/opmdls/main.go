// Command opmdls opens an openPMD series read-only and prints its
// standard attributes and iteration keys, the way a quick dataset
// sanity-check tool would.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/C0nsultant/openpmd-go/cmn/nlog"
	"github.com/C0nsultant/openpmd-go/core"
	"github.com/C0nsultant/openpmd-go/series"
)

func main() {
	defer nlog.Flush()

	path := flag.String("f", "", "path to a series file (e.g. /data/sim.h5 or /data/sim_%T.h5)")
	readWrite := flag.Bool("rw", false, "open READ_WRITE instead of READ_ONLY")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: opmdls -f <path>")
		os.Exit(2)
	}

	dir, name := filepath.Split(*path)
	access := core.AccessReadOnly
	if *readWrite {
		access = core.AccessReadWrite
	}

	s, err := series.Open(dir, name, access, core.FormatDummy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opmdls: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	printSeries(s)
}

func printSeries(s *series.Series) {
	version, _ := s.OpenPMD()
	basePath, _ := s.BasePath()
	encoding, _ := s.IterationEncodingAttr()
	fmt.Printf("openPMD:           %s\n", version)
	fmt.Printf("basePath:          %s\n", basePath)
	fmt.Printf("iterationEncoding: %s\n", encoding)
	fmt.Printf("iterations:        %v\n", s.Iterations().Keys())
}
