package collapsible

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/dom"
	"github.com/go-drift/collapsible/pkg/events"
)

type fixture struct {
	t    *testing.T
	doc  *dom.Document
	reg  *Registry
	logs *observer.ObservedLogs
	seen []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc := dom.New(dom.Options{
		Width:    400,
		Duration: 100 * time.Millisecond,
		Curve:    animation.LinearCurve,
		Clock:    animation.NewFakeClock(),
	})
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{t: t, doc: doc, logs: logs}
	f.reg = NewRegistry(doc, WithLogger(zap.New(core)))

	// Everything bubbles to the root, so one subscription sees all events.
	record := func(ev *events.Event) { f.seen = append(f.seen, ev.String()) }
	f.reg.Bus().Subscribe(doc.Root(), events.Toggle, record)
	f.reg.Bus().Subscribe(doc.Root(), events.Mutate, record)
	return f
}

func (f *fixture) append(parent, child *dom.Node) *dom.Node {
	f.t.Helper()
	if err := f.doc.AppendChild(parent, child); err != nil {
		f.t.Fatalf("AppendChild: %v", err)
	}
	return child
}

// accordion appends section#name with an h2.header of the given height.
func (f *fixture) accordion(parent *dom.Node, name string, header float64) *dom.Node {
	f.t.Helper()
	sec := f.append(parent, f.doc.CreateElement("section").SetAttr("id", name))
	f.append(sec, f.doc.CreateElement("h2").SetAttr("class", "header").SetHeight(header))
	return sec
}

func (f *fixture) block(parent *dom.Node, height float64) *dom.Node {
	f.t.Helper()
	return f.append(parent, f.doc.CreateElement("div").SetHeight(height))
}

func (f *fixture) attach(el *dom.Node, opts Options) *Controller {
	f.t.Helper()
	if opts.Trigger == "" {
		opts.Trigger = ".header"
	}
	c, err := f.reg.Attach(el, opts)
	if err != nil {
		f.t.Fatalf("Attach(%s): %v", el, err)
	}
	return c
}

func (f *fixture) height(n *dom.Node) float64 {
	f.t.Helper()
	return f.doc.Height(n)
}

// takeEvents returns and clears the recorded event log.
func (f *fixture) takeEvents() []string {
	seen := f.seen
	f.seen = nil
	return seen
}

// recomputes returns the deltas of recompute log records for el, clearing
// the observed logs.
func (f *fixture) recomputes(el *dom.Node) []float64 {
	var deltas []float64
	for _, entry := range f.logs.TakeAll() {
		if entry.Message != "recompute" {
			continue
		}
		fields := entry.ContextMap()
		if fields["element"] == el.String() {
			deltas = append(deltas, fields["delta"].(float64))
		}
	}
	return deltas
}

func (f *fixture) assertHeights(c *Controller, collapsed, expanded float64) {
	f.t.Helper()
	if got := c.Heights(); got != (Heights{Collapsed: collapsed, Expanded: expanded}) {
		f.t.Errorf("%s heights = %+v, want {%v %v}", label(c.Element()), got, collapsed, expanded)
	}
}

func toggleEvent(action events.Action, name string) string {
	return fmt.Sprintf("toggle(%s) on section#%s", action, name)
}

func mutateEvent(action events.Action, name string) string {
	return fmt.Sprintf("mutate(%s) on section#%s", action, name)
}
