package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/HerbHall/testerhub/pkg/models"
)

// csvColumnCount is the number of columns in the CSV format.
const csvColumnCount = 13

// ReadCSV parses a document written by WriteCSV. The header row is required
// and must match the export column order.
func ReadCSV(r io.Reader) ([]models.Tool, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	want := csvHeaders()
	if len(header) < len(want) {
		return nil, fmt.Errorf("csv: expected %d columns, got %d", len(want), len(header))
	}
	for i, name := range want {
		if strings.TrimSpace(header[i]) != name {
			return nil, fmt.Errorf("csv: column %d is %q, want %q", i+1, header[i], name)
		}
	}

	tools := []models.Tool{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return tools, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		t, err := csvRowToTool(row)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		tools = append(tools, t)
	}
}

// csvRowToTool parses a CSV row into a Tool. Returns error for invalid data.
func csvRowToTool(row []string) (models.Tool, error) {
	if len(row) < csvColumnCount {
		return models.Tool{}, fmt.Errorf("expected %d columns, got %d", csvColumnCount, len(row))
	}

	// Re-slice to exactly csvColumnCount so gosec can verify bounds statically.
	r := row[:csvColumnCount]

	var t models.Tool
	t.ID = r[0]
	t.Name = r[1]

	cat, err := models.ParseCategory(r[2])
	if err != nil {
		return models.Tool{}, err
	}
	t.Category = cat

	t.Description = r[3]
	t.URL = r[4]
	t.HowToUse = r[5]
	t.Frameworks = splitList(r[6])
	t.Tags = splitList(r[7])

	if t.IsPaid, err = parseFlag("is_paid", r[8]); err != nil {
		return models.Tool{}, err
	}
	if t.IsOpenSource, err = parseFlag("is_open_source", r[9]); err != nil {
		return models.Tool{}, err
	}

	t.AgentStrategy = r[10]
	if r[11] != "" {
		v := r[11]
		t.Version = &v
	}
	if r[12] != "" {
		l := r[12]
		t.Logo = &l
	}
	return t, nil
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ListSeparator)
}

func parseFlag(name, s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}
