package compose

import (
	"fmt"
	"os"
	"path/filepath"
)

// workspace is the per-run scratch directory holding every intermediate
// artifact (clips, concat lists, tracks, subtitle descriptor, the
// unverified final file). Cleanup removes it wholesale, so intermediates
// disappear on success and failure paths alike and no partial final
// artifact is ever left behind.
type workspace struct {
	dir string
}

func newWorkspace(outputDir, runID string) (*workspace, error) {
	dir := filepath.Join(outputDir, "work_"+runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &workspace{dir: dir}, nil
}

func (w *workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}

func (w *workspace) cleanup() {
	_ = os.RemoveAll(w.dir)
}

// finalize verifies the rendered artifact is non-empty, then moves it out
// of the workspace under its public name.
func (w *workspace) finalize(tmpPath, finalPath string) error {
	info, err := os.Stat(tmpPath)
	if err != nil {
		return fmt.Errorf("final artifact missing: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("final artifact %s is empty", tmpPath)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}
