package collapsible

import (
	"go.uber.org/zap"

	"github.com/go-drift/collapsible/pkg/events"
)

// CollapsedMarker is the attribute that starts a container collapsed
// regardless of Options.InitiallyCollapsed.
const CollapsedMarker = "data-collapsible-collapsed"

// Options configures the controllers created by Registry.New and
// Registry.Attach. The zero value is a valid configuration: the whole
// container is the trigger, it starts expanded and mutations are ignored.
type Options struct {
	// Trigger selects the header region inside the container. Its height is
	// the collapsed height and clicks on it toggle the container. Empty means
	// the container itself.
	Trigger string

	// InitiallyCollapsed starts the container collapsed. A container that
	// carries CollapsedMarker starts collapsed either way.
	InitiallyCollapsed bool

	// ObserveMutations attaches a Watcher to the container's child list.
	ObserveMutations bool

	// OnExpand, OnCollapse and OnMutate run after the matching event has
	// been dispatched.
	OnExpand   func(*events.Event)
	OnCollapse func(*events.Event)
	OnMutate   func(*events.Event)

	// Logger receives debug records. Nil means no logging.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
