package replay

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/pitchside/internal/fsutil"
)

// Artifact file names written under a run directory.
const (
	TrajectoryFile = "trajectory.png"
	ResidualFile   = "residual.html"
)

// WriteArtifacts renders the run's diagnostics into dir/<runID>/ and
// returns the written paths.
func WriteArtifacts(fsys fsutil.FileSystem, dir, runID string, d *Diagnostics) ([]string, error) {
	runDir := filepath.Join(dir, runID)
	if err := fsys.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	outputs := []struct {
		name   string
		render func(io.Writer) error
	}{
		{TrajectoryFile, d.WriteTrajectoryPNG},
		{ResidualFile, func(w io.Writer) error { return d.RenderResidualHTML(w, "run "+runID) }},
	}
	var paths []string
	for _, o := range outputs {
		path := filepath.Join(runDir, o.name)
		if err := writeFile(fsys, path, o.render); err != nil {
			return paths, err
		}
		logf("wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(fsys fsutil.FileSystem, path string, render func(io.Writer) error) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
