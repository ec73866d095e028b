package main

import (
	"fmt"
	"io"

	"github.com/HerbHall/testerhub/internal/version"
)

func runVersion(w io.Writer) {
	fmt.Fprintln(w, version.Info())
}
