package geometry

import "slices"

// Event identifies what kind of change a [Notifier] reports.
type Event int

const (
	// GeometryChanged reports that positions, lines or line colors changed,
	// so derived vertex data is stale.
	GeometryChanged Event = iota
	// HierarchyChanged reports a parent/child link was added or removed.
	HierarchyChanged
	// TransformChanged reports a rotation or translation was set.
	TransformChanged

	eventCount
)

func (e Event) String() string {
	switch e {
	case GeometryChanged:
		return "geometry-changed"
	case HierarchyChanged:
		return "hierarchy-changed"
	case TransformChanged:
		return "transform-changed"
	default:
		return "unknown"
	}
}

type subscriber struct {
	id int
	fn func(Event)
}

// Notifier delivers change events to subscribers and coalesces events
// raised inside (possibly nested) batches.
//
// While a batch is open, raised events are only recorded. When the
// outermost batch closes, each recorded kind is delivered once, in
// [Event] order. A batch that raises nothing delivers nothing.
//
// A Notifier is not safe for concurrent use.
type Notifier struct {
	depth   int
	pending [eventCount]bool
	subs    []subscriber
	nextID  int
}

// NewNotifier returns a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn for every event and returns a function that
// removes it again.
func (n *Notifier) Subscribe(fn func(Event)) (unsubscribe func()) {
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscriber{id: id, fn: fn})
	return func() {
		n.subs = slices.DeleteFunc(n.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Subscribers returns the number of registered subscribers.
func (n *Notifier) Subscribers() int { return len(n.subs) }

// Depth returns the number of currently open batches.
func (n *Notifier) Depth() int { return n.depth }

// Batch runs fn with delivery deferred until the outermost batch ends. The
// batch closes even if fn panics.
func (n *Notifier) Batch(fn func() error) error {
	n.depth++
	defer n.end()
	return fn()
}

// Raise records e and delivers it immediately when no batch is open.
func (n *Notifier) Raise(e Event) {
	n.pending[e] = true
	if n.depth == 0 {
		n.flush()
	}
}

func (n *Notifier) end() {
	if n.depth > 0 {
		n.depth--
	}
	if n.depth == 0 {
		n.flush()
	}
}

func (n *Notifier) flush() {
	for e := Event(0); e < eventCount; e++ {
		if !n.pending[e] {
			continue
		}
		n.pending[e] = false
		// Subscribers may unsubscribe while being notified.
		for _, s := range slices.Clone(n.subs) {
			s.fn(e)
		}
	}
}
