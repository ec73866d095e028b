package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HerbHall/testerhub/internal/catalog"
	"github.com/HerbHall/testerhub/internal/export"
)

// tagList collects a repeatable -tag flag.
type tagList []string

func (t *tagList) String() string { return strings.Join(*t, ",") }

func (t *tagList) Set(v string) error {
	*t = append(*t, v)
	return nil
}

func runExport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	catalogPath := fs.String("catalog", "", "catalog file (default: embedded catalog)")
	format := fs.String("format", "json", "output format: json or csv")
	output := fs.String("o", "", "output file, - for stdout (default: ai-tools-export.<format>)")
	search := fs.String("search", "", "search text")
	category := fs.String("category", "All", "category name or key")
	pricing := fs.String("pricing", "All", "pricing: All, Free/OS or Paid")
	var tags tagList
	fs.Var(&tags, "tag", "required tag or framework (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	criteria, err := catalog.NewCriteria(*search, *category, *pricing, tags)
	if err != nil {
		return err
	}
	cat, err := openCatalog(*catalogPath)
	if err != nil {
		return err
	}
	tools, err := catalog.NewEngine(cat).Filter(criteria)
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = f.FileName()
	}
	if path == "-" {
		return export.Write(stdout, f, tools)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(file, f, tools); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %d tools to %s\n", len(tools), path)
	return nil
}
