package collapsible

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/go-drift/collapsible/pkg/errors"
	"github.com/go-drift/collapsible/pkg/events"
	"github.com/go-drift/collapsible/pkg/layout"
)

// Collection is a set of elements that share one configuration, such as
// the result of a selector query.
type Collection interface {
	Elements() []layout.Element
}

// Registry maps containers to their controllers. It owns the propagation
// chain between nested controllers and the event bus they emit on.
type Registry struct {
	host        layout.Host
	bus         *events.Bus
	resolver    *Resolver
	log         *zap.Logger
	controllers map[string]*Controller
	order       []*Controller
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithBus makes the registry emit on bus instead of a private one.
func WithBus(bus *events.Bus) RegistryOption {
	return func(r *Registry) { r.bus = bus }
}

// WithLogger sets the registry logger. Controllers without their own
// logger use it.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

// NewRegistry creates an empty registry for host.
func NewRegistry(host layout.Host, opts ...RegistryOption) *Registry {
	r := &Registry{
		host:        host,
		resolver:    NewResolver(host),
		controllers: make(map[string]*Controller),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.bus == nil {
		r.bus = events.NewBus(host.Parent)
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Bus returns the event bus controllers emit on.
func (r *Registry) Bus() *events.Bus { return r.bus }

// Host returns the document the registry is attached to.
func (r *Registry) Host() layout.Host { return r.host }

// Len returns the number of managed containers.
func (r *Registry) Len() int { return len(r.controllers) }

// Controllers returns the managed controllers in registration order.
func (r *Registry) Controllers() []*Controller { return slices.Clone(r.order) }

// Lookup returns the controller managing el.
func (r *Registry) Lookup(el layout.Element) (*Controller, bool) {
	if isNil(el) {
		return nil, false
	}
	c, ok := r.controllers[el.ID()]
	return c, ok
}

// New creates controllers for target, which must be a layout.Element, a
// []layout.Element or a Collection. Collections fan out: every element gets
// its own controller with the same options. Elements that fail are skipped
// and their errors combined; the controllers that were created are returned
// alongside the error.
func (r *Registry) New(target any, opts Options) ([]*Controller, error) {
	var elements []layout.Element
	switch t := target.(type) {
	case nil:
		return nil, constructionError(target, "target is nil")
	case layout.Element:
		c, err := r.Attach(t, opts)
		if err != nil {
			return nil, err
		}
		return []*Controller{c}, nil
	case []layout.Element:
		elements = t
	case Collection:
		elements = t.Elements()
	default:
		return nil, constructionError(target, "target is neither an element nor a collection of elements")
	}
	if len(elements) == 0 {
		return nil, constructionError(target, "collection is empty")
	}

	var (
		created []*Controller
		errs    error
	)
	for _, el := range elements {
		c, err := r.Attach(el, opts)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		created = append(created, c)
	}
	return created, errs
}

// Attach creates a controller for a single container. The container is
// measured immediately; if it starts collapsed its collapsed height is
// written as its explicit height. Ancestors are then re-measured so they
// account for the new controller's state.
func (r *Registry) Attach(el layout.Element, opts Options) (*Controller, error) {
	if isNil(el) {
		return nil, constructionError(el, "element is nil")
	}
	if _, ok := r.controllers[el.ID()]; ok {
		return nil, constructionError(el, fmt.Sprintf("%s is already collapsible", label(el)))
	}
	if opts.Logger == nil {
		opts.Logger = r.log
	}
	opts = opts.withDefaults()

	trigger := el
	if opts.Trigger != "" {
		trigger = r.host.Query(el, opts.Trigger)
		if trigger == nil {
			return nil, constructionError(el, fmt.Sprintf("trigger %q matches nothing inside %s", opts.Trigger, label(el)))
		}
	}

	state := Expanded
	if opts.InitiallyCollapsed || r.host.HasAttribute(el, CollapsedMarker) {
		state = Collapsed
	}

	h, err := r.resolver.Resolve(el, trigger, state == Collapsed)
	if err != nil {
		return nil, &errors.Error{Op: "collapsible.Attach", Kind: errors.KindMeasurement, Element: el.ID(), Err: err}
	}

	c := &Controller{
		reg:     r,
		el:      el,
		trigger: trigger,
		state:   state,
		heights: h.Clamp(),
		opts:    opts,
		log:     opts.Logger,
	}
	r.controllers[el.ID()] = c
	r.order = append(r.order, c)
	c.unsubClick = r.bus.Subscribe(trigger, events.Click, c.onClick)
	if opts.ObserveMutations {
		c.watcher = newWatcher(c)
	}
	c.log.Debug("attach",
		zap.String("element", label(el)),
		zap.Stringer("state", state),
		zap.Float64("collapsed", c.heights.Collapsed),
		zap.Float64("expanded", c.heights.Expanded),
		zap.Bool("observe", opts.ObserveMutations))

	if err := r.Propagate(c, 0); err != nil {
		return c, err
	}
	return c, nil
}

// Propagate hands delta to the nearest collapsible ancestor of c, which
// re-measures itself and propagates further. Without a live ancestor it does
// nothing.
func (r *Registry) Propagate(c *Controller, delta float64) error {
	parent := r.ancestor(c)
	if parent == nil {
		return nil
	}
	if parent == c {
		return ErrReentrant
	}
	r.log.Debug("propagate",
		zap.String("from", label(c.el)),
		zap.String("to", label(parent.el)),
		zap.Float64("delta", delta))
	return parent.RecomputeHeights(delta)
}

// ancestor finds the nearest registered ancestor of c that is still part of
// the document.
func (r *Registry) ancestor(c *Controller) *Controller {
	for p := r.host.Parent(c.el); p != nil; p = r.host.Parent(p) {
		if parent, ok := r.controllers[p.ID()]; ok {
			if !r.host.IsAttached(parent.el) {
				return nil
			}
			return parent
		}
	}
	return nil
}

// RecomputeAll releases the controllers of detached containers, then
// re-measures the others, innermost first. This is the window resize handler. Errors are combined; a failing
// controller does not stop the others.
func (r *Registry) RecomputeAll() error {
	r.Prune()
	depth := make(map[*Controller]int, len(r.order))
	var live []*Controller
	for _, c := range r.order {
		d := 0
		for p := r.host.Parent(c.el); p != nil; p = r.host.Parent(p) {
			d++
		}
		depth[c] = d
		live = append(live, c)
	}
	slices.SortStableFunc(live, func(a, b *Controller) int { return depth[b] - depth[a] })

	var errs error
	for _, c := range live {
		errs = multierr.Append(errs, c.RecomputeHeights(0))
	}
	return errs
}

// WatchResize recomputes every controller after each host resize.
// Returns a function that stops watching.
func (r *Registry) WatchResize() func() {
	return r.host.OnResize(func() {
		defer errors.Recover("collapsible.resize")
		for _, err := range multierr.Errors(r.RecomputeAll()) {
			report(err)
		}
	})
}

// Release releases every controller.
func (r *Registry) Release() {
	for _, c := range slices.Clone(r.order) {
		c.Release()
	}
}

// Prune releases every controller whose container has left the document and
// returns how many were released.
func (r *Registry) Prune() int {
	return r.prune(nil)
}

// prune releases detached controllers. A non-nil roots limits it to
// containers at or below one of the roots.
func (r *Registry) prune(roots []layout.Element) int {
	released := 0
	for _, c := range slices.Clone(r.order) {
		if r.host.IsAttached(c.el) || !r.within(c.el, roots) {
			continue
		}
		c.log.Debug("release detached", zap.String("element", label(c.el)))
		c.Release()
		released++
	}
	return released
}

func (r *Registry) within(el layout.Element, roots []layout.Element) bool {
	if roots == nil {
		return true
	}
	for _, root := range roots {
		if root.ID() == el.ID() || layout.IsAncestor(r.host, root, el) {
			return true
		}
	}
	return false
}

func (r *Registry) remove(c *Controller) {
	if r.controllers[c.el.ID()] != c {
		return
	}
	delete(r.controllers, c.el.ID())
	r.order = slices.DeleteFunc(r.order, func(x *Controller) bool { return x == c })
}

// isNil reports whether el is nil, including a nil pointer behind the
// interface.
func isNil(el layout.Element) bool {
	if el == nil {
		return true
	}
	v := reflect.ValueOf(el)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func constructionError(target any, reason string) error {
	return &errors.Error{
		Op:   "collapsible.New",
		Kind: errors.KindConstruction,
		Err:  &errors.ConstructionError{Target: target, Reason: reason},
	}
}
