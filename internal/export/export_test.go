package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/types"
)

func sample() model.Snapshot {
	budget := 40.0
	return model.Snapshot{
		Resources: []model.Resource{{ID: "R1", FullName: "Ada", Rate: 100, Location: model.Onshore, Company: "Acme"}},
		Projects:  []model.Project{{PVNumber: "P1", Name: "Platform", OracleAccount: "OA", Budget: &budget}},
		Forecasts: []model.Forecast{{ID: "f1", ResourceID: "R1", ProjectPVNumber: "P1",
			Allocations: model.Allocations{types.MustParseMonth("2025-03"): 50}}},
		Actuals: []model.Actual{{ID: "a1", ResourceID: "R1", ProjectPVNumber: "P1",
			Month: types.MustParseMonth("2025-04"), CapitalCost: 48}},
	}
}

func TestWriteSnapshotThenReadRestores(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), All))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestWriteIndentsTwoSpaces(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Projects))

	want := `[
  {
    "pvNumber": "P1",
    "name": "Platform",
    "oracleAccount": "OA",
    "budget": 40
  }
]
`
	assert.Equal(t, want, buf.String())
}

func TestWriteForecastMonthKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Forecasts))
	assert.Contains(t, buf.String(), `"2025-03": 50`)
}

func TestWriteEmptyCollectionIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model.Snapshot{}, Actuals))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, model.Snapshot{}, All))
	assert.JSONEq(t, `{"forecasts":[],"resources":[],"projects":[],"actuals":[]}`, buf.String())
}

func TestReadRejects(t *testing.T) {
	tests := map[string]string{
		"collection not snapshot": `[{"id":"R1"}]`,
		"unknown field":           `{"resources":[],"extra":1}`,
		"bad month key":           `{"forecasts":[{"id":"f","allocations":{"2025-3":10}}]}`,
		"truncated":               `{"resources":[`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseCollection(t *testing.T) {
	for in, want := range map[string]Collection{
		"":          All,
		"all":       All,
		"Forecasts": Forecasts,
		" actuals ": Actuals,
	} {
		got, err := ParseCollection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseCollection("budgets")
	assert.Error(t, err)
}

func TestWriteFileThenReadRestores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capex.json")
	require.NoError(t, WriteFile(path, sample(), All))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := Read(f)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestWriteFileTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0o644))

	require.NoError(t, WriteFile(path, sample(), Projects))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "x")
	assert.Contains(t, string(data), `"pvNumber": "P1"`)
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	err := WriteFile(path, sample(), All)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating")
}

func TestWriteFileUnknownCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	err := WriteFile(path, sample(), Collection("budgets"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown collection")
}
