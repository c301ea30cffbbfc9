package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/collapsible"
	"github.com/go-drift/collapsible/pkg/dom"
	"github.com/go-drift/collapsible/pkg/errors"
)

const faqScene = `
schema: v1.2.0
window:
  width: 480
transition:
  duration: 150ms
  curve: linear
root:
  - id: faq
    tag: section
    children:
      - tag: h2
        class: header
        height: 40
      - tag: p
        height: 100
        margin: [5, 15]
      - id: nested
        tag: section
        attrs:
          data-collapsible-collapsed: ""
        children:
          - tag: h3
            class: header
            height: 30
          - height: 90
collapsibles:
  - select: "section"
    trigger: .header
    observe: true
script:
  - "click #nested"
  - "append #faq more text here"
  - advance 50ms
  - settle
`

func TestParse(t *testing.T) {
	scene, err := Parse([]byte(faqScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scene.Schema != "v1.2.0" {
		t.Errorf("Schema = %q", scene.Schema)
	}
	d, _ := scene.Duration()
	if d != 150*time.Millisecond {
		t.Errorf("Duration = %v", d)
	}
	want := []CollapsibleSpec{{Select: "section", Trigger: ".header", Observe: true}}
	if diff := cmp.Diff(want, scene.Collapsibles); diff != "" {
		t.Errorf("collapsibles mismatch (-want +got):\n%s", diff)
	}
	if got := scene.Root[0].Children[1].Margin; !cmp.Equal(got, []float64{5, 15}) {
		t.Errorf("margin = %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"bad yaml", "root: [", "failed to parse scene"},
		{"unknown field", "colour: red", "field colour not found"},
		{"schema major", "schema: v2.0.0", "not supported"},
		{"schema garbage", "schema: latest", "not a semantic version"},
		{"negative width", "window: {width: -1}", "window.width"},
		{"duration", "transition: {duration: soon}", "transition.duration"},
		{"curve", "transition: {curve: bouncy}", "transition.curve"},
		{"margin", "root: [{margin: [1, 2, 3]}]", "root[0].margin"},
		{"nested height", "root: [{children: [{height: -4}]}]", "root[0].children[0].height"},
		{"select", "collapsibles: [{trigger: .x}]", "collapsibles[0].select"},
		{"script", `script: ["jump x"]`, "script[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Kind != errors.KindConfig {
				t.Errorf("expected a config error, got %T", err)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	scene, err := Parse([]byte("schema: \"1.4\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scene.Schema != "v1.4" {
		t.Errorf("Schema = %q", scene.Schema)
	}
	opts := scene.DocumentOptions(nil)
	if opts.Duration != dom.DefaultDuration || opts.Curve == nil || opts.Width != 0 {
		t.Errorf("unexpected options %+v", opts)
	}

	empty, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if empty.Schema != DefaultSchema {
		t.Errorf("Schema = %q", empty.Schema)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faq.yaml")
	if err := os.WriteFile(path, []byte(faqScene), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestBuildAndAttach(t *testing.T) {
	scene, err := Parse([]byte(faqScene))
	if err != nil {
		t.Fatal(err)
	}
	doc := dom.New(scene.DocumentOptions(animation.NewFakeClock()))
	if doc.Width() != 480 {
		t.Errorf("Width = %v", doc.Width())
	}
	if err := scene.Build(doc); err != nil {
		t.Fatalf("Build: %v", err)
	}

	faq := doc.QueryNode(doc.Root(), "#faq")
	if faq == nil || len(faq.Children()) != 3 {
		t.Fatalf("unexpected tree under %v", faq)
	}

	reg := collapsible.NewRegistry(doc)
	cs, err := scene.Attach(doc, reg)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if len(cs) != 2 {
		t.Fatalf("expected 2 controllers, got %d", len(cs))
	}
	outer, nested := cs[0], cs[1]
	if outer.IsCollapsed() || !nested.IsCollapsed() {
		t.Errorf("states = %v, %v", outer.State(), nested.State())
	}
	if nested.Watcher() == nil {
		t.Error("observe should attach a watcher")
	}
	// 40 + (5 + 100 + 15) + collapsed nested 30.
	if got := outer.ExpandedHeight(); got != 190 {
		t.Errorf("outer expanded = %v, want 190", got)
	}
	if got := nested.Heights(); got != (collapsible.Heights{Collapsed: 30, Expanded: 120}) {
		t.Errorf("nested heights = %+v", got)
	}
}

func TestAttachUnmatchedSelector(t *testing.T) {
	scene := &Scene{Collapsibles: []CollapsibleSpec{{Select: ".missing"}}}
	doc := dom.New(dom.Options{})
	cs, err := scene.Attach(doc, collapsible.NewRegistry(doc))
	if len(cs) != 0 || !errors.IsConstruction(err) {
		t.Errorf("Attach = %v, %v", cs, err)
	}
}

func TestOptions(t *testing.T) {
	got := CollapsibleSpec{Select: "x", Trigger: ".h", Collapsed: true, Observe: true}.Options()
	if got.Trigger != ".h" || !got.InitiallyCollapsed || !got.ObserveMutations {
		t.Errorf("Options = %+v", got)
	}
}
