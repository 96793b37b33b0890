// Package lifecycle reacts to interface-lifecycle notifications (spec.md
// §3/§4.5, "LifecycleHook"), evicting every job touching an interface
// that disappears. The dispatch-by-event-kind shape follows the
// teacher's hooks.Run, which switches on a fixed set of named stages;
// here the set is just EventUp/EventGone.
package lifecycle

import (
	"framegw/logging"
	"framegw/registry"
	"framegw/substrate"
)

// Hook subscribes to a FrameSubstrate's interface-lifecycle events and
// evicts affected jobs from reg.
type Hook struct {
	reg *registry.Registry
	sub substrate.FrameSubstrate

	unsubscribe func()
}

// New returns a Hook wired to reg, not yet subscribed.
func New(reg *registry.Registry, sub substrate.FrameSubstrate) *Hook {
	return &Hook{reg: reg, sub: sub}
}

// Start subscribes to interface events. Calling Start twice without an
// intervening Stop replaces the previous subscription.
func (h *Hook) Start() {
	h.unsubscribe = h.sub.SubscribeInterfaceEvents(h.onEvent)
}

// Stop unsubscribes from interface events. It is a no-op if Start was
// never called.
func (h *Hook) Stop() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// onEvent is the substrate callback: EventGone triggers eviction; every
// other event kind is ignored. onEvent does not check link type itself:
// the restriction to bus-type interfaces is applied by the event source
// (LinuxSubstrate only forwards events for bus links).
func (h *Hook) onEvent(ev substrate.Event) {
	if ev.Kind != substrate.EventGone {
		return
	}
	n := h.reg.RemoveByInterface(ev.Iface)
	if n > 0 {
		logging.Info("evicted jobs on interface gone", "iface", ev.Iface, "count", n)
	}
}
