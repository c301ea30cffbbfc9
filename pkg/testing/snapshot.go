package testing

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/collapsible/pkg/dom"
)

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "COLLAPSIBLE_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the width of the window and the heights of every
// managed container.
type Snapshot struct {
	Width       float64         `yaml:"width"`
	Collapsible []ContainerNode `yaml:"collapsible"`
}

// ContainerNode is one managed container in a Snapshot.
type ContainerNode struct {
	Element   string  `yaml:"element"`
	State     string  `yaml:"state"`
	Collapsed float64 `yaml:"collapsed"`
	Expanded  float64 `yaml:"expanded"`
	Rendered  float64 `yaml:"rendered"`
	Animating bool    `yaml:"animating,omitempty"`
}

// CaptureSnapshot records every controller in attachment order.
func (t *SceneTester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{Width: t.doc.Width()}
	for _, c := range t.reg.Controllers() {
		n := c.Element().(*dom.Node)
		snap.Collapsible = append(snap.Collapsible, ContainerNode{
			Element:   n.String(),
			State:     c.State().String(),
			Collapsed: round2(c.CollapsedHeight()),
			Expanded:  round2(c.ExpandedHeight()),
			Rendered:  round2(t.doc.Height(n)),
			Animating: n.Animating(),
		})
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When the update variable is
// set to 1, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-expected +actual):\n%s\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a diff between other and this snapshot, or the empty string
// if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
