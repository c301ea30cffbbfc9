// Package config loads scene files: a document tree, the containers to make
// collapsible, and an optional script of user actions.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/collapsible"
	"github.com/go-drift/collapsible/pkg/dom"
	"github.com/go-drift/collapsible/pkg/errors"
)

// SchemaMajor is the scene schema major version this package reads.
const SchemaMajor = "v1"

// DefaultSchema is assumed when a scene omits its schema.
const DefaultSchema = "v1.0.0"

// Scene represents a scene file.
type Scene struct {
	Schema       string            `yaml:"schema,omitempty"`
	Window       WindowConfig      `yaml:"window"`
	Transition   TransitionConfig  `yaml:"transition"`
	Root         []Node            `yaml:"root"`
	Collapsibles []CollapsibleSpec `yaml:"collapsibles"`
	Script       []string          `yaml:"script,omitempty"`
}

// WindowConfig contains window settings.
type WindowConfig struct {
	Width float64 `yaml:"width,omitempty"`
}

// TransitionConfig contains height transition settings.
type TransitionConfig struct {
	Duration string `yaml:"duration,omitempty"`
	Curve    string `yaml:"curve,omitempty"`
}

// Node describes one element and its subtree.
type Node struct {
	ID       string            `yaml:"id,omitempty"`
	Tag      string            `yaml:"tag,omitempty"`
	Class    string            `yaml:"class,omitempty"`
	Text     string            `yaml:"text,omitempty"`
	Height   float64           `yaml:"height,omitempty"`
	Margin   []float64         `yaml:"margin,omitempty,flow"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Children []Node            `yaml:"children,omitempty"`
}

// CollapsibleSpec selects containers and configures their controllers.
type CollapsibleSpec struct {
	Select    string `yaml:"select"`
	Trigger   string `yaml:"trigger,omitempty"`
	Collapsed bool   `yaml:"collapsed,omitempty"`
	Observe   bool   `yaml:"observe,omitempty"`
}

// Load reads and validates the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError("config.Load", "failed to read %s: %w", path, err)
	}
	scene, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return scene, nil
}

// Parse decodes and validates a scene. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var scene Scene
	if err := dec.Decode(&scene); err != nil && err != io.EOF {
		return nil, configError("config.Parse", "failed to parse scene: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

// Validate checks the schema version, the transition settings and every
// node and collapsible entry.
func (s *Scene) Validate() error {
	schema := strings.TrimSpace(s.Schema)
	if schema == "" {
		schema = DefaultSchema
	}
	if !strings.HasPrefix(schema, "v") {
		schema = "v" + schema
	}
	if !semver.IsValid(schema) {
		return configError("config.Validate", "schema %q is not a semantic version", s.Schema)
	}
	if major := semver.Major(schema); major != SchemaMajor {
		return configError("config.Validate", "schema %s is not supported (want %s.x)", schema, SchemaMajor)
	}
	s.Schema = schema

	if s.Window.Width < 0 {
		return configError("config.Validate", "window.width must not be negative (got %v)", s.Window.Width)
	}
	if _, err := s.Duration(); err != nil {
		return err
	}
	if _, err := s.Curve(); err != nil {
		return err
	}

	for i := range s.Root {
		if err := validateNode(&s.Root[i], fmt.Sprintf("root[%d]", i)); err != nil {
			return err
		}
	}
	for i, c := range s.Collapsibles {
		if strings.TrimSpace(c.Select) == "" {
			return configError("config.Validate", "collapsibles[%d].select is required", i)
		}
	}
	for i, line := range s.Script {
		if _, err := ParseStep(line); err != nil {
			return configError("config.Validate", "script[%d]: %w", i, err)
		}
	}
	return nil
}

func validateNode(n *Node, path string) error {
	if n.Height < 0 {
		return configError("config.Validate", "%s.height must not be negative", path)
	}
	if len(n.Margin) > 2 {
		return configError("config.Validate", "%s.margin takes one or two values (got %d)", path, len(n.Margin))
	}
	for i := range n.Children {
		if err := validateNode(&n.Children[i], fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Duration returns the configured transition duration, or
// dom.DefaultDuration when unset.
func (s *Scene) Duration() (time.Duration, error) {
	if s.Transition.Duration == "" {
		return dom.DefaultDuration, nil
	}
	d, err := time.ParseDuration(s.Transition.Duration)
	if err != nil || d < 0 {
		return 0, configError("config.Validate", "transition.duration %q is not a valid duration", s.Transition.Duration)
	}
	return d, nil
}

// Curve returns the configured easing curve.
func (s *Scene) Curve() (animation.Curve, error) {
	curve, ok := animation.CurveByName(s.Transition.Curve)
	if !ok {
		return nil, configError("config.Validate", "unknown transition.curve %q", s.Transition.Curve)
	}
	return curve, nil
}

// DocumentOptions returns the dom options for this scene. A nil clock means
// the system clock.
func (s *Scene) DocumentOptions(clock animation.Clock) dom.Options {
	// Validate has already checked both.
	d, _ := s.Duration()
	curve, _ := s.Curve()
	return dom.Options{
		Width:    s.Window.Width,
		Duration: d,
		Curve:    curve,
		Clock:    clock,
	}
}

// Build appends the scene's node tree to the document root.
func (s *Scene) Build(doc *dom.Document) error {
	for _, n := range s.Root {
		if err := build(doc, doc.Root(), n); err != nil {
			return configError("config.Build", "%w", err)
		}
	}
	return nil
}

func build(doc *dom.Document, parent *dom.Node, spec Node) error {
	tag := spec.Tag
	if tag == "" {
		tag = "div"
	}
	n := doc.CreateElement(tag).SetHeight(spec.Height).SetText(spec.Text)
	if spec.ID != "" {
		n.SetAttr("id", spec.ID)
	}
	if spec.Class != "" {
		n.SetAttr("class", spec.Class)
	}
	for k, v := range spec.Attrs {
		n.SetAttr(k, v)
	}
	switch len(spec.Margin) {
	case 1:
		n.SetMargin(spec.Margin[0], spec.Margin[0])
	case 2:
		n.SetMargin(spec.Margin[0], spec.Margin[1])
	}
	if err := doc.AppendChild(parent, n); err != nil {
		return err
	}
	for _, c := range spec.Children {
		if err := build(doc, n, c); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the entry into controller options.
func (c CollapsibleSpec) Options() collapsible.Options {
	return collapsible.Options{
		Trigger:            c.Trigger,
		InitiallyCollapsed: c.Collapsed,
		ObserveMutations:   c.Observe,
	}
}

// Attach creates controllers for every collapsibles entry, in order. Entries
// whose selector matches nothing are construction errors. Errors are
// combined; controllers that could be created are returned.
func (s *Scene) Attach(doc *dom.Document, reg *collapsible.Registry) ([]*collapsible.Controller, error) {
	var (
		all  []*collapsible.Controller
		errs error
	)
	for _, spec := range s.Collapsibles {
		cs, err := reg.New(doc.QueryAll(doc.Root(), spec.Select), spec.Options())
		all = append(all, cs...)
		errs = multierr.Append(errs, err)
	}
	return all, errs
}

func configError(op, format string, args ...any) error {
	return &errors.Error{Op: op, Kind: errors.KindConfig, Err: fmt.Errorf(format, args...)}
}
