// internal/reporting/reporter_test.go
package reporting_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/analytics"
	"github.com/xkilldash9x/heronet/internal/reporting"
)

func sampleSummary() analytics.Summary {
	alpha := schemas.Hero{ID: 1, Name: "Alpha", CreatedAt: schemas.NewDate(2025, time.October, 15)}
	beta := schemas.Hero{ID: 2, Name: "dataiskole", CreatedAt: schemas.NewDate(2025, time.October, 17)}
	return analytics.Summary{
		TotalHeroes: 2,
		TotalLinks:  1,
		AsOf:        schemas.NewDate(2025, time.October, 17),
		WindowDays:  3,
		TopK:        3,
		Recent:      []schemas.Hero{alpha, beta},
		Top:         []analytics.Ranked{{Hero: alpha, Degree: 1}, {Hero: beta, Degree: 1}},
		EgoName:     "dataiskole",
		Ego:         &analytics.Ego{Hero: beta, Neighbors: []schemas.Hero{alpha}},
	}
}

func TestNew_Stdout(t *testing.T) {
	for _, path := range []string{"stdout", ""} {
		r, err := reporting.New(reporting.FormatText, path)
		require.NoError(t, err)
		assert.NoError(t, r.Close(), "closing stdout is a no-op")
	}
}

func TestNew_File(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stats.json")

	r, err := reporting.New(reporting.FormatJSON, out)
	require.NoError(t, err)
	require.NoError(t, r.Write(sampleSummary()))
	require.NoError(t, r.Close())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_superheroes": 2`)
}

func TestNew_Failure_UnsupportedFormat(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "output.sarif")

	r, err := reporting.New("sarif", tmpFile)
	assert.Error(t, err)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "unsupported output format: sarif")
	assert.NoFileExists(t, tmpFile, "no file is created for an unknown format")

	_, err = reporting.NewWriter("xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNew_Failure_BadPath(t *testing.T) {
	_, err := reporting.New(reporting.FormatText, filepath.Join(t.TempDir(), "missing", "dir", "out.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	r, err := reporting.NewWriter(reporting.FormatText, &buf)
	require.NoError(t, err)
	require.NoError(t, r.Write(sampleSummary()))

	want := `
=== Superhero Network Analysis ===
Total superheroes: 2
Total connections: 1

Recently added (last 3 days):
- Alpha (ID: 1, Added: 2025-10-15)
- dataiskole (ID: 2, Added: 2025-10-17)

Top 3 most connected:
- Alpha (ID: 1): 1 connections
- dataiskole (ID: 2): 1 connections

dataiskole info:
- Added: 2025-10-17
- Friends:
  - Alpha (ID: 1)
`
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_WithoutEgo(t *testing.T) {
	summary := sampleSummary()
	summary.Ego = nil

	var buf bytes.Buffer
	r, err := reporting.NewWriter(reporting.FormatText, &buf)
	require.NoError(t, err)
	require.NoError(t, r.Write(summary))

	assert.NotContains(t, buf.String(), "info:")
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r, err := reporting.NewWriter(reporting.FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, r.Write(sampleSummary()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 2, decoded["total_superheroes"])
	assert.EqualValues(t, 1, decoded["total_connections"])
	assert.Equal(t, "2025-10-17", decoded["as_of"])

	recent := decoded["recently_added"].([]interface{})
	require.Len(t, recent, 2)
	assert.Equal(t, "2025-10-15", recent[0].(map[string]interface{})["created_at"])

	ego := decoded["ego"].(map[string]interface{})
	assert.Len(t, ego["friends"], 1)
}
