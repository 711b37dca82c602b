package manifest

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
	"github.com/relift-dev/relift/pkg/persist"
)

//go:embed schema.json
var manifestSchema string

// Store persists manifests as single atomic JSON documents.
//
// Load distinguishes two shapes of absence: a missing file is the
// "fresh run" sentinel (nil manifest, nil error); anything else that
// prevents reading a well-formed manifest is a fatal ManifestStoreError.
type Store struct {
	codec *persist.JSONCodec
	clock func() time.Time
}

// NewStore creates a manifest store using the wall clock.
func NewStore() *Store {
	return &Store{codec: persist.NewJSONCodec(), clock: time.Now}
}

// NewStoreWithClock creates a manifest store with an injected clock, for
// deterministic timestamps in tests.
func NewStoreWithClock(clock func() time.Time) *Store {
	return &Store{codec: persist.NewJSONCodec(), clock: clock}
}

// DefaultPath returns the manifest location under the run-log directory of
// the given output root.
func DefaultPath(outputDir string) string {
	return filepath.Join(outputDir, config.DefaultManifestDirName, config.DefaultManifestFileName)
}

// Create returns a fresh manifest stamped with the store clock.
func (s *Store) Create(cfg config.Config) *Manifest {
	return New(cfg, s.clock())
}

// Load reads a previously persisted manifest from path.
//
// Returns (nil, nil) when no manifest exists yet. A manifest that exists
// but cannot be read, fails schema validation, or carries an unknown
// schema version is a corrupted store and yields a ManifestStoreError.
func (s *Store) Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, component.ManifestStoreError("read manifest", err)
	}

	validateErr := validateDocument(data)
	if validateErr != nil {
		return nil, component.ManifestStoreError("corrupted manifest", validateErr)
	}

	var m Manifest

	unmarshalErr := json.Unmarshal(data, &m)
	if unmarshalErr != nil {
		return nil, component.ManifestStoreError("decode manifest", unmarshalErr)
	}

	if m.Version != SchemaVersion {
		return nil, component.ManifestStoreError(
			fmt.Sprintf("unsupported manifest version %q (want %q)", m.Version, SchemaVersion), nil)
	}

	return &m, nil
}

// Save finalizes end time and duration on a copy of m and writes it to
// path as a single atomic artifact. The containing directory is created if
// needed. Saving the same logical state twice produces byte-identical
// output except for the recomputed timestamp fields.
func (s *Store) Save(m *Manifest, path string) error {
	finalized := m.Finalize(s.clock())

	err := persist.SaveState(path, s.codec, finalized)
	if err != nil {
		return component.ManifestStoreError("write manifest", err)
	}

	return nil
}

// validateDocument checks raw manifest bytes against the embedded schema.
func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		issues := result.Errors()
		if len(issues) > 0 {
			return fmt.Errorf("schema violation: %s", issues[0].String())
		}

		return errors.New("schema violation")
	}

	return nil
}
