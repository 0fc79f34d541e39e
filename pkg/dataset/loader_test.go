package dataset

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gradeval/pkg/core"

	"github.com/stretchr/testify/require"
)

func TestFileDatasetJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")

	records := []core.Record{
		{ID: "1", Query: "What is water?", Answer: "A liquid.", Expected: "H2O"},
		{ID: "2", Query: "What is fire?", Answer: "Combustion."},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	ds := NewFileDataset(path)
	count, err := ds.Len(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)

	ch, errCh := ds.Records(context.Background())
	var got []core.Record
	for record := range ch {
		got = append(got, record)
	}
	for err := range errCh {
		require.NoError(t, err)
	}
	require.Len(t, got, 2)
	require.Equal(t, "What is water?", got[0].Query)
	require.Equal(t, "H2O", got[0].Expected)
}

func TestFileDatasetJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")

	content := `{"id":"1","query":"What is Go?","answer":"A language."}
{"id":"2","query":"What is Rust?","answer":"Also a language."}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	ds := NewFileDataset(path)
	count, err := ds.Len(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)

	ch, errCh := ds.Records(context.Background())
	var got []core.Record
	for record := range ch {
		got = append(got, record)
	}
	for err := range errCh {
		require.NoError(t, err)
	}
	require.Len(t, got, 2)
	require.Equal(t, "A language.", got[0].Answer)
}

func TestFileDatasetRejectsJSONObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"1"}`), 0o600))

	ds := NewFileDataset(path)
	_, err := ds.Len(context.Background())
	require.Error(t, err)
}

func TestSliceDataset(t *testing.T) {
	ds := NewSliceDataset([]core.Record{
		{ID: "1", Query: "q", Answer: "a"},
	}, "")
	require.Equal(t, "inline", ds.Name())

	count, err := ds.Len(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)

	ch, errCh := ds.Records(context.Background())
	var got []core.Record
	for record := range ch {
		got = append(got, record)
	}
	for err := range errCh {
		require.NoError(t, err)
	}
	require.Len(t, got, 1)
	require.Equal(t, "q", got[0].Query)
}
