// Command testerhub serves and exports the testing tools directory.
//
// Usage:
//
//	testerhub serve   [-config path]
//	testerhub export  [-format json|csv] [-o file] [filters]
//	testerhub facets  [-catalog path]
//	testerhub mcp     [-config path]
//	testerhub backup  [-config path] [-output file]
//	testerhub restore -input file [-data-dir dir] [-force]
//	testerhub version
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "serve":
		err = runServe(args)
	case "export":
		err = runExport(args, os.Stdout)
	case "facets":
		err = runFacets(args, os.Stdout)
	case "mcp":
		err = runMCP(args)
	case "backup":
		err = runBackup(args, os.Stdout)
	case "restore":
		err = runRestore(args, os.Stdout)
	case "version", "-version", "--version":
		runVersion(os.Stdout)
	case "help", "-h", "-help", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "testerhub %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `testerhub - faceted search over software testing tools

Commands:
  serve     run the HTTP API
  export    write filtered tools as JSON or CSV
  facets    print the filter facets of a catalog
  mcp       serve MCP tools over stdio
  backup    archive the settings store and config file
  restore   extract a backup archive
  version   print version information
`)
}
