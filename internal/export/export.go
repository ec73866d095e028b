// Package export serializes filtered tool sets for download and summarizes
// them for status text.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/HerbHall/testerhub/pkg/models"
)

// Download file names.
const (
	ExportFileName    = "ai-tools-export.json"
	CSVExportFileName = "ai-tools-export.csv"
)

// Format is an export document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ListSeparator joins frameworks and tags inside a single CSV cell.
const ListSeparator = ";"

// ErrListSeparator is returned when a framework or tag contains
// ListSeparator and so cannot be written as CSV.
var ErrListSeparator = errors.New("list value contains " + ListSeparator)

// ParseFormat parses a format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FileName returns the download file name for the format.
func (f Format) FileName() string {
	if f == FormatCSV {
		return CSVExportFileName
	}
	return ExportFileName
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Count is the number of tools in a result set.
func Count(tools []models.Tool) int {
	return len(tools)
}

// Write serializes tools to w in the given format.
func Write(w io.Writer, f Format, tools []models.Tool) error {
	if f == FormatCSV {
		return WriteCSV(w, tools)
	}
	return WriteJSON(w, tools)
}

// WriteJSON writes tools as an indented JSON array. A nil or empty set is
// written as [].
func WriteJSON(w io.Writer, tools []models.Tool) error {
	if tools == nil {
		tools = []models.Tool{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tools); err != nil {
		return fmt.Errorf("encode tools: %w", err)
	}
	return nil
}

// csvHeaders returns the CSV column headers.
func csvHeaders() []string {
	return []string{
		"id", "name", "category", "description", "url", "how_to_use",
		"frameworks", "tags", "is_paid", "is_open_source", "agent_strategy",
		"version", "logo",
	}
}

// toolToCSVRow converts a tool to a CSV row in csvHeaders order. List fields
// are joined with ListSeparator and absent optional fields are empty.
func toolToCSVRow(t *models.Tool) []string {
	return []string{
		t.ID,
		t.Name,
		string(t.Category),
		t.Description,
		t.URL,
		t.HowToUse,
		strings.Join(t.Frameworks, ListSeparator),
		strings.Join(t.Tags, ListSeparator),
		strconv.FormatBool(t.IsPaid),
		strconv.FormatBool(t.IsOpenSource),
		t.AgentStrategy,
		deref(t.Version),
		deref(t.Logo),
	}
}

// Check reports whether tools can be written in format f. CSV cannot hold a
// framework or tag containing ListSeparator, since ReadCSV would split it.
func (f Format) Check(tools []models.Tool) error {
	if f != FormatCSV {
		return nil
	}
	for i := range tools {
		for _, list := range [][]string{tools[i].Frameworks, tools[i].Tags} {
			for _, v := range list {
				if strings.Contains(v, ListSeparator) {
					return fmt.Errorf("tool %q: %w: %q", tools[i].ID, ErrListSeparator, v)
				}
			}
		}
	}
	return nil
}

// WriteCSV writes a header row followed by one row per tool. Frameworks and
// tags are joined with ListSeparator, so a value containing it is rejected
// with ErrListSeparator before anything is written.
func WriteCSV(w io.Writer, tools []models.Tool) error {
	if err := FormatCSV.Check(tools); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range tools {
		if err := cw.Write(toolToCSVRow(&tools[i])); err != nil {
			return fmt.Errorf("write csv row %q: %w", tools[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
