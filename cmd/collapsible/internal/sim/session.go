// Package sim runs a scene: it builds the document, attaches the
// collapsibles and applies scripted or interactive user actions.
package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/collapsible"
	"github.com/go-drift/collapsible/pkg/config"
	"github.com/go-drift/collapsible/pkg/dom"
	"github.com/go-drift/collapsible/pkg/events"
	"github.com/go-drift/collapsible/pkg/layout"
)

// Session is a live scene.
type Session struct {
	Doc *dom.Document
	Reg *collapsible.Registry

	log        *zap.Logger
	stopResize func()
	events     []string
	appended   int
}

// Row is one line of a height snapshot.
type Row struct {
	Element   string
	Depth     int
	State     collapsible.State
	Collapsed float64
	Expanded  float64
	Rendered  float64
	Animating bool
}

// New builds scene with clock and attaches its collapsibles. Attach errors
// are returned together with the session so callers can report them and
// carry on with the controllers that were created.
func New(scene *config.Scene, clock animation.Clock, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	doc := dom.New(scene.DocumentOptions(clock))
	if err := scene.Build(doc); err != nil {
		return nil, err
	}
	s := &Session{
		Doc: doc,
		Reg: collapsible.NewRegistry(doc, collapsible.WithLogger(log)),
		log: log,
	}
	record := func(ev *events.Event) {
		s.events = append(s.events, ev.String())
		s.log.Info("event", zap.Stringer("event", ev))
	}
	s.Reg.Bus().Subscribe(doc.Root(), events.Toggle, record)
	s.Reg.Bus().Subscribe(doc.Root(), events.Mutate, record)

	_, err := scene.Attach(doc, s.Reg)
	s.stopResize = s.Reg.WatchResize()
	return s, err
}

// Close releases every controller.
func (s *Session) Close() {
	if s.stopResize != nil {
		s.stopResize()
		s.stopResize = nil
	}
	s.Reg.Release()
}

// TakeEvents returns the events dispatched since the last call.
func (s *Session) TakeEvents() []string {
	out := s.events
	s.events = nil
	return out
}

// Apply performs one step. Steps that change the tree run a frame so
// mutation watchers see the change.
func (s *Session) Apply(step config.Step) error {
	s.log.Debug("step", zap.Stringer("step", step))
	switch step.Kind {
	case config.StepClick:
		n, err := s.find(step.Selector)
		if err != nil {
			return err
		}
		s.Click(n)
	case config.StepAppend:
		n, err := s.find(step.Selector)
		if err != nil {
			return err
		}
		if err := s.Append(n, step.Text); err != nil {
			return err
		}
	case config.StepRemove:
		n, err := s.find(step.Selector)
		if err != nil {
			return err
		}
		if err := s.Remove(n); err != nil {
			return err
		}
	case config.StepResize:
		s.Doc.Resize(step.Width)
	case config.StepAdvance:
		s.Doc.Advance(step.Duration)
	case config.StepSettle:
		s.Doc.Settle()
	default:
		return fmt.Errorf("unsupported step %q", step.Kind)
	}
	return nil
}

// Click activates n. Clicking a managed container clicks its trigger.
func (s *Session) Click(n *dom.Node) {
	var target layout.Element = n
	if c, ok := s.Reg.Lookup(n); ok {
		target = c.Trigger()
	}
	s.Reg.Bus().Emit(target, events.Click, nil)
}

// Append adds a paragraph with text to n.
func (s *Session) Append(n *dom.Node, text string) error {
	s.appended++
	p := s.Doc.CreateElement("p").SetText(text).SetAttr("id", fmt.Sprintf("appended-%d", s.appended))
	if err := s.Doc.AppendChild(n, p); err != nil {
		return err
	}
	s.Doc.Tick()
	return nil
}

// Remove detaches n from its parent and releases the controllers of any
// containers removed with it.
func (s *Session) Remove(n *dom.Node) error {
	if n.Parent() == nil {
		return fmt.Errorf("cannot remove %s", n)
	}
	if err := s.Doc.RemoveChild(n.Parent(), n); err != nil {
		return err
	}
	s.Doc.Tick()
	// Containers without an observing ancestor are not pruned by a watcher.
	if released := s.Reg.Prune(); released > 0 {
		s.log.Debug("released removed containers", zap.Int("count", released))
	}
	return nil
}

// Snapshot reports every managed container in registration order.
func (s *Session) Snapshot() []Row {
	var rows []Row
	for _, c := range s.Reg.Controllers() {
		n := c.Element().(*dom.Node)
		rows = append(rows, Row{
			Element:   n.String(),
			Depth:     n.Depth(),
			State:     c.State(),
			Collapsed: c.CollapsedHeight(),
			Expanded:  c.ExpandedHeight(),
			Rendered:  s.Doc.Height(n),
			Animating: n.Animating(),
		})
	}
	return rows
}

func (s *Session) find(selector string) (*dom.Node, error) {
	n := s.Doc.QueryNode(s.Doc.Root(), selector)
	if n == nil {
		return nil, fmt.Errorf("selector %q matches nothing", selector)
	}
	return n, nil
}
