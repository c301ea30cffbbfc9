package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/collapsible"
	"github.com/go-drift/collapsible/pkg/config"
)

const scene = `
transition:
  duration: 100ms
  curve: linear
root:
  - id: faq
    tag: section
    children:
      - {tag: h2, class: header, height: 40}
      - {id: answer, height: 160}
collapsibles:
  - select: "#faq"
    trigger: .header
    collapsed: true
    observe: true
`

func newSession(t *testing.T) *Session {
	t.Helper()
	sc, err := config.Parse([]byte(scene))
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(sc, animation.NewFakeClock(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func apply(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, line := range lines {
		step, err := config.ParseStep(line)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Apply(step); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
}

func TestSession_ClickExpands(t *testing.T) {
	s := newSession(t)
	want := []Row{{Element: "section#faq", Depth: 1, State: collapsible.Collapsed, Collapsed: 40, Expanded: 200, Rendered: 40}}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("initial snapshot mismatch (-want +got):\n%s", diff)
	}

	apply(t, s, "click #faq", "advance 50ms")
	row := s.Snapshot()[0]
	if row.State != collapsible.Expanded || row.Rendered != 120 || !row.Animating {
		t.Errorf("mid-transition row = %+v", row)
	}

	apply(t, s, "settle")
	if got := s.Snapshot()[0].Rendered; got != 200 {
		t.Errorf("settled at %v, want 200", got)
	}
	if diff := cmp.Diff([]string{"toggle(expand) on section#faq"}, s.TakeEvents()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_AppendAndRemove(t *testing.T) {
	s := newSession(t)
	apply(t, s, "append #faq hello world", "remove #answer")

	row := s.Snapshot()[0]
	if row.Expanded != 40+13 {
		t.Errorf("expanded = %v, want 53", row.Expanded)
	}
	want := []string{"mutate(add) on section#faq", "mutate(remove) on section#faq"}
	if diff := cmp.Diff(want, s.TakeEvents()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_Errors(t *testing.T) {
	s := newSession(t)
	for _, line := range []string{"click #nope", "append .none x", "remove body"} {
		step, err := config.ParseStep(line)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Apply(step); err == nil {
			t.Errorf("%s: expected error", line)
		}
	}
}

func TestSession_RemoveReleasesManagedContainer(t *testing.T) {
	sc, err := config.Parse([]byte(`
transition: {duration: 100ms, curve: linear}
root:
  - id: faq
    tag: section
    children:
      - {tag: h2, class: header, height: 40}
      - id: item
        tag: section
        children:
          - {tag: h3, class: header, height: 20}
          - {height: 60}
collapsibles:
  - select: section
    trigger: .header
`))
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(sc, animation.NewFakeClock(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	if got := len(s.Snapshot()); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}

	apply(t, s, "remove #item")
	rows := s.Snapshot()
	if len(rows) != 1 || rows[0].Element != "section#faq" {
		t.Errorf("rows after remove = %+v", rows)
	}
}
