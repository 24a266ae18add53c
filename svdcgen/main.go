// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Svdcgen generates C register definitions from CMSIS-SVD files.
//
// Usage:
//
//	svdcgen [SVD_FILE...]
//
// With no arguments the SVD document is read from standard input. The
// generated declarations are written to standard output.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/embeddedgo/svdcgen/cgen"
	"github.com/embeddedgo/svdcgen/svd"
)

func dieErr(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "svdcgen:", err)
		os.Exit(1)
	}
}

func gen(w *bufio.Writer, sdev *svd.Device) {
	dev, err := cgen.Translate(sdev)
	dieErr(err)
	dieErr(cgen.Gen(w, dev))
	dieErr(w.Flush())
}

func main() {
	w := bufio.NewWriter(os.Stdout)
	if len(os.Args) <= 1 {
		sdev, err := svd.Parse(os.Stdin)
		dieErr(err)
		gen(w, sdev)
		return
	}
	for _, file := range os.Args[1:] {
		sdev, err := svd.ParseFile(file)
		dieErr(err)
		gen(w, sdev)
	}
}
