package persist_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relift-dev/relift/pkg/persist"
)

type sampleState struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
	Count int      `json:"count"`
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	persister := persist.NewPersister[sampleState](persist.NewJSONCodec())

	saved := &sampleState{Name: "Alpha", Items: []string{"a", "b"}, Count: 2}
	require.NoError(t, persister.Save(path, saved))

	loaded, err := persister.Load(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	persister := persist.NewPersister[sampleState](persist.NewJSONCodec())

	require.NoError(t, persister.Save(path, &sampleState{Name: "Alpha"}))
	require.NoError(t, persister.Save(path, &sampleState{Name: "Beta"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())

	loaded, err := persister.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Beta", loaded.Name)
}

func TestConcurrentReaderNeverSeesPartialWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	persister := persist.NewPersister[sampleState](persist.NewJSONCodec())

	require.NoError(t, persister.Save(path, &sampleState{Name: "seed"}))

	done := make(chan struct{})
	readErr := make(chan error, 1)

	go func() {
		defer close(readErr)

		for {
			select {
			case <-done:
				return
			default:
			}

			data, err := os.ReadFile(path)
			if err != nil {
				readErr <- fmt.Errorf("read during save: %w", err)
				return
			}

			if !json.Valid(data) {
				readErr <- fmt.Errorf("observed a document that is not valid JSON: %q", data)
				return
			}
		}
	}()

	for i := range 200 {
		state := &sampleState{Name: "writer", Items: []string{"a", "b", "c"}, Count: i}
		require.NoError(t, persister.Save(path, state))
	}

	close(done)

	for err := range readErr {
		require.NoError(t, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	persister := persist.NewPersister[sampleState](persist.NewJSONCodec())

	_, err := persister.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadMalformedDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	persister := persist.NewPersister[sampleState](persist.NewJSONCodec())

	_, err := persister.Load(path)
	assert.Error(t, err)
}

func TestJSONCodecIndentation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, persist.SaveState(path, persist.NewJSONCodec(), &sampleState{Name: "Alpha"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"name\": \"Alpha\"")
}
