package registry

import (
	"fmt"
	"io"
	"sync"

	"xdao.co/appreg/node"
)

// Event is an observability record emitted after a successful state
// transition. Events are for external indexing; the registry's own
// behavior never depends on them.
type Event interface {
	// Name is the stable event name (e.g. "org-registered").
	Name() string
}

type OrgRegistered struct {
	OrgNode node.Node
	Label   string
	Admin   Address
}

type OrgAdminChanged struct {
	OrgNode node.Node
	Admin   Address
}

type AppRegistered struct {
	OrgNode node.Node
	AppNode node.Node
	Label   string
	Proxy   Address
	Admin   Address
}

type AppAdminChanged struct {
	AppNode node.Node
	Admin   Address
}

type VersionPublished struct {
	AppNode        node.Node
	VersionNode    node.Node
	Version        uint64
	Implementation Address
}

func (OrgRegistered) Name() string    { return "org-registered" }
func (OrgAdminChanged) Name() string  { return "org-admin-changed" }
func (AppRegistered) Name() string    { return "app-registered" }
func (AppAdminChanged) Name() string  { return "app-admin-changed" }
func (VersionPublished) Name() string { return "version-published" }

// Sink receives registry events. Emit is called synchronously inside
// the operation's critical section and must not call back into the
// registry.
type Sink interface {
	Emit(Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// MultiSink fans out to sinks in slice order; callers supply a fixed
// order to keep delivery deterministic.
type MultiSink struct {
	Sinks []Sink
}

func (m MultiSink) Emit(e Event) {
	for _, s := range m.Sinks {
		if s != nil {
			s.Emit(e)
		}
	}
}

// Recorder collects events for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// LogSink writes one line per event to W.
type LogSink struct {
	W io.Writer
}

func (l LogSink) Emit(e Event) {
	if l.W == nil {
		return
	}
	switch ev := e.(type) {
	case OrgRegistered:
		fmt.Fprintf(l.W, "%s org=%s label=%s admin=%s\n", ev.Name(), ev.OrgNode, ev.Label, ev.Admin)
	case OrgAdminChanged:
		fmt.Fprintf(l.W, "%s org=%s admin=%s\n", ev.Name(), ev.OrgNode, ev.Admin)
	case AppRegistered:
		fmt.Fprintf(l.W, "%s org=%s app=%s label=%s proxy=%s admin=%s\n", ev.Name(), ev.OrgNode, ev.AppNode, ev.Label, ev.Proxy, ev.Admin)
	case AppAdminChanged:
		fmt.Fprintf(l.W, "%s app=%s admin=%s\n", ev.Name(), ev.AppNode, ev.Admin)
	case VersionPublished:
		fmt.Fprintf(l.W, "%s app=%s version=%d node=%s impl=%s\n", ev.Name(), ev.AppNode, ev.Version, ev.VersionNode, ev.Implementation)
	default:
		fmt.Fprintf(l.W, "%s\n", e.Name())
	}
}
