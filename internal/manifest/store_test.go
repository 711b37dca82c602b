package manifest_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
	"github.com/relift-dev/relift/internal/manifest"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestLoadMissingManifestIsFreshRun(t *testing.T) {
	t.Parallel()

	store := manifest.NewStore()

	m, err := store.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := manifest.DefaultPath(dir)
	store := manifest.NewStoreWithClock(fixedClock(testStart.Add(time.Minute)))

	m := manifest.New(config.Config{OutputPath: dir, Workers: 1}, testStart)
	m = m.RecordSuccess("Alpha")
	m = m.RecordFailure("Beta", "generation [Beta]: render failed", "template error", testStart.Add(30*time.Second))

	require.NoError(t, store.Save(m, path))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, []string{"Alpha"}, loaded.Successful)
	require.Len(t, loaded.Failed, 1)
	assert.Equal(t, "Beta", loaded.Failed[0].Component)
	assert.Equal(t, manifest.SchemaVersion, loaded.Version)

	// Save finalizes end time and duration at the store clock.
	require.NotNil(t, loaded.EndTime)
	require.NotNil(t, loaded.DurationMS)
	assert.Equal(t, int64(60_000), *loaded.DurationMS)
}

func TestSaveDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.json")
	store := manifest.NewStoreWithClock(fixedClock(testStart.Add(time.Minute)))

	m := manifest.New(config.Config{}, testStart)
	require.NoError(t, store.Save(m, path))

	assert.Nil(t, m.EndTime)
	assert.Nil(t, m.DurationMS)
}

func TestLoadCorruptedManifestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{truncated"},
		{name: "wrong shape", data: `{"successful": "not-a-list"}`},
		{name: "missing required fields", data: `{"successful": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "manifest.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			_, err := manifest.NewStore().Load(path)
			require.Error(t, err)
			assert.True(t, component.IsFatal(err))
			assert.Equal(t, component.PhaseManifest, component.PhaseOf(err))
		})
	}
}

func TestLoadRejectsUnknownSchemaVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.json")
	store := manifest.NewStoreWithClock(fixedClock(testStart))

	m := manifest.New(config.Config{}, testStart)
	require.NoError(t, store.Save(m, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["version"] = "2.0.0"

	rewritten, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, rewritten, 0o644))

	_, loadErr := store.Load(path)
	require.Error(t, loadErr)
	assert.True(t, component.IsFatal(loadErr))
}

func TestWireFormatFieldNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.json")
	store := manifest.NewStoreWithClock(fixedClock(testStart.Add(time.Second)))

	m := manifest.New(config.Config{}, testStart)
	m = m.RecordFailure("Beta", "boom", "trace", testStart)
	require.NoError(t, store.Save(m, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	for _, key := range []string{"successful", "failed", "config", "startTime", "endTime", "duration", "version"} {
		assert.Contains(t, doc, key)
	}

	failed, ok := doc["failed"].([]any)
	require.True(t, ok)
	require.Len(t, failed, 1)

	rec, ok := failed[0].(map[string]any)
	require.True(t, ok)

	for _, key := range []string{"component", "error", "timestamp", "stack"} {
		assert.Contains(t, rec, key)
	}
}
