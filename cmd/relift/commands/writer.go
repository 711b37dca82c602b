package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/relift-dev/relift/internal/component"
)

const (
	artifactDirPerm  = 0o755
	artifactFilePerm = 0o644
)

// artifactWriter materializes successful results on disk. Failures in the
// result stream carry no artifact and are skipped; a write error is logged
// but never aborts the batch, since the manifest already recorded the
// migration itself as successful.
type artifactWriter struct {
	dryRun bool
	logger *slog.Logger
}

func newArtifactWriter(dryRun bool, logger *slog.Logger) *artifactWriter {
	return &artifactWriter{dryRun: dryRun, logger: logger}
}

func (w *artifactWriter) handleResult(res component.Result) {
	if !res.Success() {
		return
	}

	artifact := res.Artifact()

	if w.dryRun {
		w.logger.Info("dry run, skipping artifact write",
			"component", artifact.Name, "path", artifact.OutputPath)

		return
	}

	err := w.write(artifact)
	if err != nil {
		w.logger.Error("writing artifact files",
			"component", artifact.Name, "error", err)
	}
}

func (w *artifactWriter) write(a *component.Artifact) error {
	mkdirErr := os.MkdirAll(a.OutputPath, artifactDirPerm)
	if mkdirErr != nil {
		return fmt.Errorf("create artifact dir: %w", mkdirErr)
	}

	docs, docsErr := json.MarshalIndent(a.Docs, "", "  ")
	if docsErr != nil {
		return fmt.Errorf("encode doc blocks: %w", docsErr)
	}

	files := map[string][]byte{
		a.Name + ".tsx":       []byte(a.Source),
		a.Name + ".types.ts":  []byte(a.PropsContract),
		a.Name + ".docs.json": docs,
		"README.md":           []byte(a.Readme),
	}

	if a.StateContract != "" {
		files[a.Name+".state.ts"] = []byte(a.StateContract)
	}

	if a.ResponseContract != "" {
		files[a.Name+".response.ts"] = []byte(a.ResponseContract)
	}

	if a.TestScaffold != "" {
		files[a.Name+".test.tsx"] = []byte(a.TestScaffold)
	}

	for name, content := range files {
		writeErr := os.WriteFile(filepath.Join(a.OutputPath, name), content, artifactFilePerm)
		if writeErr != nil {
			return fmt.Errorf("write %s: %w", name, writeErr)
		}
	}

	return nil
}
