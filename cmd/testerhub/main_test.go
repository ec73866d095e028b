package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/testerhub/pkg/models"
)

func TestRunExport_JSONToStdout(t *testing.T) {
	var out bytes.Buffer
	err := runExport([]string{"-o", "-", "-pricing", "Paid", "-category", "visual"}, &out)
	require.NoError(t, err)

	var tools []models.Tool
	require.NoError(t, json.Unmarshal(out.Bytes(), &tools))
	require.NotEmpty(t, tools)
	for i := range tools {
		assert.True(t, tools[i].IsPaid)
		assert.Equal(t, models.CategoryVisual, tools[i].Category)
	}
}

func TestRunExport_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.csv")
	var out bytes.Buffer
	err := runExport([]string{"-format", "csv", "-o", path, "-tag", "Python", "-tag", "RAG"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(rows), 1)
	assert.Equal(t, "id", rows[0][0])
}

func TestRunExport_InvalidInput(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runExport([]string{"-format", "xml"}, &out))
	assert.Error(t, runExport([]string{"-category", "snacks"}, &out))
	assert.Error(t, runExport([]string{"-pricing", "cheap"}, &out))
}

func TestRunFacets(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runFacets(nil, &out))
	assert.True(t, strings.HasPrefix(out.String(), "Categories: All, "))
	assert.Contains(t, out.String(), "Pricing: All, Free/OS, Paid")
	assert.Contains(t, out.String(), "Platforms: ")

	out.Reset()
	require.NoError(t, runFacets([]string{"-json"}, &out))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Contains(t, decoded, "groups")
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	runVersion(&out)
	assert.True(t, strings.HasPrefix(out.String(), "testerhub "))
}

func TestRunBackupRestore(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("settings:\n  backend: bolt\n  bolt_path: prefs.bolt\n"), 0o600))

	archive := filepath.Join(dir, "b.tar.gz")
	var out bytes.Buffer
	require.NoError(t, runBackup([]string{"-config", cfg, "-output", archive}, &out))
	assert.Contains(t, out.String(), archive)

	out.Reset()
	target := filepath.Join(dir, "restored")
	require.NoError(t, runRestore([]string{"-input", archive, "-data-dir", target}, &out))
	_, err := os.Stat(filepath.Join(target, "custom.yaml"))
	require.NoError(t, err)

	assert.Error(t, runRestore(nil, &out))
}

func TestOpenCatalog_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.csv")
	var out bytes.Buffer
	require.NoError(t, runExport([]string{"-format", "csv", "-o", path, "-category", "runners"}, &out))

	cat, err := openCatalog(path)
	require.NoError(t, err)
	tools, err := cat.Entries()
	require.NoError(t, err)
	require.NotEmpty(t, tools)
	for i := range tools {
		assert.Equal(t, models.CategoryRunners, tools[i].Category)
	}
}
