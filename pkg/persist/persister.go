package persist

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Directory permission for state directories created on save.
const stateDirPerm = 0o755

// SaveState atomically saves the given state to path using codec.
//
// The containing directory is created if needed. The encoded document is
// written to a temp file in the same directory, synced, then renamed over
// path, so a concurrent reader never observes a half-written file.
func SaveState(path string, codec Codec, state any) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, stateDirPerm)
	if err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	var buf bytes.Buffer

	err = codec.Encode(&buf, state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".relift-tmp-*"+codec.Extension())
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		// No-ops once the rename has succeeded.
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_, err = tmp.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	err = tmp.Sync()
	if err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}

	return nil
}

// LoadState loads state from path using codec.
// The state parameter must be a pointer to the target struct.
func LoadState(path string, codec Codec, state any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}

// Persister handles I/O for a specific state type using a Codec.
type Persister[T any] struct {
	codec Codec
}

// NewPersister creates a persister with the given codec.
func NewPersister[T any](codec Codec) *Persister[T] {
	return &Persister[T]{codec: codec}
}

// Save atomically writes state to path.
func (p *Persister[T]) Save(path string, state *T) error {
	return SaveState(path, p.codec, state)
}

// Load restores state from path into a fresh value.
func (p *Persister[T]) Load(path string) (*T, error) {
	var state T

	err := LoadState(path, p.codec, &state)
	if err != nil {
		return nil, err
	}

	return &state, nil
}
