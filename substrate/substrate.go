// Package substrate declares the frame I/O substrate the gateway core
// consumes (spec.md §6, "Frame substrate interface consumed"). The
// substrate itself — how frames actually arrive on an interface and how
// bits get put on the wire — is explicitly out of scope for this
// repository; this package only names the boundary, plus an in-memory
// fake used by tests and a reference Linux adapter for the
// lifecycle-facing half of the interface (see netlink.go).
package substrate

import "framegw/frame"

// InterfaceType identifies an interface's link-layer type, used to
// restrict interface-gone eviction (spec.md §4.5) and ADD-time interface
// resolution to interfaces this gateway actually handles.
type InterfaceType uint8

const (
	InterfaceTypeUnknown InterfaceType = iota
	// InterfaceTypeBus is the link-layer type this gateway forwards
	// frames over.
	InterfaceTypeBus
)

// EventKind classifies an interface-lifecycle notification.
type EventKind uint8

const (
	EventUp EventKind = iota
	EventGone
)

// Event is a single interface-lifecycle notification (spec.md §6,
// "Interface-lifecycle messages consumed").
type Event struct {
	Kind  EventKind
	Iface uint32
}

// FilterHandle is an opaque token identifying one registered filter, used
// only to unregister it later.
type FilterHandle interface{}

// FrameSubstrate is everything the gateway core needs from the frame I/O
// layer. Implementations must satisfy spec.md §5's suspension-point
// constraints: CloneShared, DeepCopy, and Send must never block, and must
// fail fast (returning ok=false or an error) rather than wait.
type FrameSubstrate interface {
	// RegisterFilter installs callback to run, on the caller's own
	// goroutine, for every frame accepted on iface by (id, mask).
	// callback must not block. Returns a handle for later
	// unregistration, or an error if iface does not resolve or is the
	// wrong link-layer type.
	RegisterFilter(iface uint32, id, mask uint32, callback func(*frame.Buffer)) (FilterHandle, error)

	// UnregisterFilter removes a previously installed filter. It is a
	// no-op if the handle is already unregistered.
	UnregisterFilter(handle FilterHandle) error

	// CloneShared returns a shared-reference (zero-copy) view of buf.
	// ok is false if the allocation mode backing the clone failed.
	CloneShared(buf *frame.Buffer) (clone *frame.Buffer, ok bool)

	// DeepCopy returns an independent copy of buf, safe to mutate
	// without aliasing the original. ok is false on allocation
	// failure.
	DeepCopy(buf *frame.Buffer) (copy *frame.Buffer, ok bool)

	// Send hands buf to the substrate for transmission on
	// buf.OutIface. echo controls whether the substrate may loop the
	// frame back to its own source interface.
	Send(buf *frame.Buffer, echo bool) error

	// InterfaceIsUp reports whether iface is administratively up.
	InterfaceIsUp(iface uint32) bool

	// InterfaceType reports iface's link-layer type.
	InterfaceType(iface uint32) InterfaceType

	// SubscribeInterfaceEvents registers cb to be called for every
	// interface-lifecycle event. It returns an unsubscribe function.
	SubscribeInterfaceEvents(cb func(Event)) (unsubscribe func())
}
