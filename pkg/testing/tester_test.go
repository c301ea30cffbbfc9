package testing_test

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/collapsible/pkg/collapsible"
	"github.com/go-drift/collapsible/pkg/dom"
	"github.com/go-drift/collapsible/pkg/errors"
	colltest "github.com/go-drift/collapsible/pkg/testing"
)

const nestedScene = `
window:
  width: 480
transition:
  duration: 100ms
  curve: linear
root:
  - id: faq
    tag: section
    children:
      - {tag: h2, class: header, height: 40}
      - {tag: p, height: 100, margin: [5, 15]}
      - id: nested
        tag: section
        attrs: {data-collapsible-collapsed: ""}
        children:
          - {tag: h3, class: header, height: 30}
          - {height: 90}
collapsibles:
  - select: section
    trigger: .header
`

func load(t *testing.T) *colltest.SceneTester {
	t.Helper()
	tester := colltest.NewSceneTesterWithT(t)
	if err := tester.LoadScene([]byte(nestedScene)); err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	return tester
}

func heights(tester *colltest.SceneTester, f colltest.Finder) [3]float64 {
	c := tester.Controller(f)
	return [3]float64{c.CollapsedHeight(), c.ExpandedHeight(), tester.Document().Height(c.Element().(*dom.Node))}
}

func TestSceneTester_LoadScene(t *testing.T) {
	tester := load(t)
	if got := tester.Registry().Len(); got != 2 {
		t.Fatalf("expected 2 controllers, got %d", got)
	}
	if got, want := heights(tester, colltest.ByID("faq")), [3]float64{40, 190, 190}; got != want {
		t.Errorf("faq heights = %v, want %v", got, want)
	}
	if got, want := heights(tester, colltest.ByID("nested")), [3]float64{30, 120, 30}; got != want {
		t.Errorf("nested heights = %v, want %v", got, want)
	}
}

func TestSceneTester_LoadSceneErrors(t *testing.T) {
	tester := colltest.NewSceneTesterWithT(t)
	if err := tester.LoadScene([]byte("window: {width: -1}")); err == nil {
		t.Error("expected a config error")
	}
	err := tester.LoadScene([]byte(`
root: [{id: faq, tag: section}]
collapsibles: [{select: "#faq", trigger: .header}]
`))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindConstruction {
		t.Errorf("expected a construction error, got %v", err)
	}
}

func TestSceneTester_TapAndSettle(t *testing.T) {
	tester := load(t)
	tester.Tap(colltest.ByID("nested"))

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if tester.Controller(colltest.ByID("nested")).IsCollapsed() {
		t.Fatal("expected nested to be expanded")
	}
	if got, want := heights(tester, colltest.ByID("faq")), [3]float64{40, 280, 280}; got != want {
		t.Errorf("faq heights = %v, want %v", got, want)
	}

	var got []string
	for _, ev := range tester.Events() {
		got = append(got, ev.String())
	}
	if diff := cmp.Diff([]string{"toggle(expand) on section#nested"}, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if len(tester.Events()) != 0 {
		t.Error("Events should clear the log")
	}
}

func TestSceneTester_ManualClock(t *testing.T) {
	tester := load(t)
	tester.Tap(colltest.ByID("nested"))
	tester.Pump()
	tester.Clock().Advance(50 * time.Millisecond)
	tester.Pump()

	nested := tester.Find(colltest.ByID("nested")).First()
	if !nested.Animating() {
		t.Error("expected nested to be animating")
	}
	if got := tester.Document().Height(nested); got != 75 {
		t.Errorf("height halfway = %v, want 75", got)
	}
}

func TestSceneTester_TapTrigger(t *testing.T) {
	tester := load(t)
	tester.Tap(colltest.Descendant(colltest.ByID("faq"), colltest.ByTag("h2")))
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if got, want := heights(tester, colltest.ByID("faq")), [3]float64{40, 190, 40}; got != want {
		t.Errorf("faq heights = %v, want %v", got, want)
	}
}

func TestSceneTester_PumpAndSettleTimeout(t *testing.T) {
	tester := load(t)
	tester.Tap(colltest.ByID("faq"))
	if err := tester.PumpAndSettle(10 * time.Millisecond); !stderrors.Is(err, colltest.ErrSettleTimeout) {
		t.Errorf("expected ErrSettleTimeout, got %v", err)
	}
}

func TestSceneTester_RecordsHandlerErrors(t *testing.T) {
	tester := load(t)
	header := tester.Find(colltest.Descendant(colltest.ByID("nested"), colltest.ByTag("h3"))).First()
	tester.Document().OverrideComputedHeight(header, "2.5em")

	tester.Tap(colltest.ByID("nested"))

	errs := tester.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0].Op != "collapsible.Expand" || errs[0].Kind != errors.KindMeasurement {
		t.Errorf("unexpected error %v", errs[0])
	}
	if !tester.Controller(colltest.ByID("nested")).IsCollapsed() {
		t.Error("a failed expand must leave the container collapsed")
	}
}

func TestSceneTester_CleanupRestoresHandler(t *testing.T) {
	prev := errors.SetHandler(nil)
	defer errors.SetHandler(prev)

	tester := colltest.NewSceneTester()
	tester.Cleanup()
	if _, ok := errors.DefaultHandler.(*errors.LogHandler); !ok {
		t.Errorf("handler not restored, got %T", errors.DefaultHandler)
	}
}

func TestSceneTester_ControllerPanicsForUnmanaged(t *testing.T) {
	tester := load(t)
	defer func() {
		if r := recover(); r == nil || !strings.Contains(fmt.Sprint(r), "is not collapsible") {
			t.Errorf("unexpected recover value %v", r)
		}
	}()
	tester.Controller(colltest.ByTag("h2"))
}

func TestSceneTester_Resize(t *testing.T) {
	tester := colltest.NewSceneTesterWithT(t)
	doc := tester.Document()
	panel := doc.CreateElement("section")
	header := doc.CreateElement("h2").AddClass("header").SetHeight(20)
	// 42 characters: 294px of text.
	body := doc.CreateElement("p").SetText(strings.Repeat("abcdef ", 6))
	for _, step := range []error{
		doc.AppendChild(doc.Root(), panel),
		doc.AppendChild(panel, header),
		doc.AppendChild(panel, body),
	} {
		if step != nil {
			t.Fatal(step)
		}
	}
	c, err := tester.Registry().Attach(panel, collapsible.Options{Trigger: ".header"})
	if err != nil {
		t.Fatal(err)
	}
	one := 20 + dom.LineHeight()
	if c.ExpandedHeight() != one {
		t.Fatalf("expanded = %v, want %v", c.ExpandedHeight(), one)
	}
	tester.SetWidth(200)
	if c.ExpandedHeight() <= one {
		t.Errorf("expected the text to wrap after resize, expanded = %v", c.ExpandedHeight())
	}
}

func TestSnapshot_MatchesFile(t *testing.T) {
	tester := load(t)
	tester.Tap(colltest.ByID("nested"))
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	tester.CaptureSnapshot().MatchesFile(t, filepath.Join("testdata", "nested_expanded.snapshot.yaml"))
}

type fakeT struct {
	fatal, errs []string
}

func (f *fakeT) Helper()      {}
func (f *fakeT) Name() string { return "TestFake" }
func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatal = append(f.fatal, fmt.Sprintf(format, args...))
}
func (f *fakeT) Errorf(format string, args ...any) {
	f.errs = append(f.errs, fmt.Sprintf(format, args...))
}

func TestSnapshot_MissingAndMismatch(t *testing.T) {
	tester := load(t)
	snap := tester.CaptureSnapshot()

	ft := &fakeT{}
	missing := filepath.Join(t.TempDir(), "none.yaml")
	snap.MatchesFile(ft, missing)
	if len(ft.fatal) != 1 || !strings.Contains(ft.fatal[0], colltest.UpdateSnapshotsEnv+"=1") {
		t.Errorf("unexpected failures %v", ft.fatal)
	}

	ft = &fakeT{}
	snap.MatchesFile(ft, filepath.Join("testdata", "nested_expanded.snapshot.yaml"))
	if len(ft.errs) != 1 || !strings.Contains(ft.errs[0], "snapshot mismatch") {
		t.Errorf("expected a mismatch, got %v", ft.errs)
	}
}

func TestSnapshot_UpdateFileRoundTrip(t *testing.T) {
	tester := load(t)
	snap := tester.CaptureSnapshot()
	path := filepath.Join(t.TempDir(), "sub", "snap.yaml")
	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}
	ft := &fakeT{}
	snap.MatchesFile(ft, path)
	if len(ft.fatal)+len(ft.errs) != 0 {
		t.Errorf("expected a match, got %v %v", ft.fatal, ft.errs)
	}
}
