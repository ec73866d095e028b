package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/HerbHall/testerhub/internal/catalog"
)

func runFacets(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("facets", flag.ContinueOnError)
	catalogPath := fs.String("catalog", "", "catalog file (default: embedded catalog)")
	asJSON := fs.Bool("json", false, "print facets as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := openCatalog(*catalogPath)
	if err != nil {
		return err
	}
	tools, err := cat.Entries()
	if err != nil {
		return err
	}
	f := catalog.ExtractFacets(tools)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}

	fmt.Fprintf(stdout, "Categories: %s\n", strings.Join(f.Categories, ", "))
	pricing := make([]string, len(f.Pricing))
	for i, p := range f.Pricing {
		pricing[i] = string(p)
	}
	fmt.Fprintf(stdout, "Pricing: %s\n", strings.Join(pricing, ", "))
	for _, g := range f.Groups {
		fmt.Fprintf(stdout, "%s: %s\n", g.Name, strings.Join(g.Tags, ", "))
	}
	if other := catalog.UngroupedTags(tools, catalog.DefaultFacetGroups); len(other) > 0 {
		fmt.Fprintf(stdout, "Other tags: %s\n", strings.Join(other, ", "))
	}
	return nil
}
