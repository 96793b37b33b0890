package substrate

import (
	"fmt"
	"sync"

	"framegw/frame"
)

// Fake is an in-memory FrameSubstrate for tests: it tracks interface
// up/down and link-type state itself, delivers frames to registered
// filters synchronously via Deliver, and lets tests inject allocation and
// send failures to exercise the hot path's failure handling.
type Fake struct {
	mu sync.Mutex

	up    map[uint32]bool
	ktype map[uint32]InterfaceType

	filters    map[int]fakeFilter
	nextHandle int

	subs    map[int]func(Event)
	nextSub int

	// FailClone, when true, makes CloneShared report allocation
	// failure.
	FailClone bool
	// FailDeepCopy, when true, makes DeepCopy report allocation
	// failure.
	FailDeepCopy bool
	// FailSend, when non-nil, is returned by every Send call.
	FailSend error

	// Sent records every buffer handed to Send, in order.
	Sent []*frame.Buffer
}

type fakeFilter struct {
	iface    uint32
	id, mask uint32
	callback func(*frame.Buffer)
}

// NewFake returns a ready-to-use Fake substrate. Interfaces default to
// down/unknown-type until SetUp/SetInterfaceType marks them.
func NewFake() *Fake {
	return &Fake{
		up:      make(map[uint32]bool),
		ktype:   make(map[uint32]InterfaceType),
		filters: make(map[int]fakeFilter),
		subs:    make(map[int]func(Event)),
	}
}

// SetUp marks iface administratively up or down.
func (f *Fake) SetUp(iface uint32, up bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.up[iface] = up
}

// SetInterfaceType marks iface's link-layer type.
func (f *Fake) SetInterfaceType(iface uint32, t InterfaceType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ktype[iface] = t
}

// RegisterFilter implements FrameSubstrate. It accepts any iface and never
// returns an error: the Fake does not check interface resolution or link
// type here.
func (f *Fake) RegisterFilter(iface uint32, id, mask uint32, callback func(*frame.Buffer)) (FilterHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextHandle++
	h := f.nextHandle
	f.filters[h] = fakeFilter{iface: iface, id: id, mask: mask, callback: callback}
	return h, nil
}

// UnregisterFilter implements FrameSubstrate.
func (f *Fake) UnregisterFilter(handle FilterHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := handle.(int)
	if !ok {
		return fmt.Errorf("substrate: invalid filter handle %v", handle)
	}
	delete(f.filters, h)
	return nil
}

// CloneShared implements FrameSubstrate.
func (f *Fake) CloneShared(buf *frame.Buffer) (*frame.Buffer, bool) {
	if f.FailClone {
		return nil, false
	}
	clone := *buf
	return &clone, true
}

// DeepCopy implements FrameSubstrate.
func (f *Fake) DeepCopy(buf *frame.Buffer) (*frame.Buffer, bool) {
	if f.FailDeepCopy {
		return nil, false
	}
	cpy := *buf
	return &cpy, true
}

// Send implements FrameSubstrate.
func (f *Fake) Send(buf *frame.Buffer, echo bool) error {
	if f.FailSend != nil {
		return f.FailSend
	}
	f.mu.Lock()
	f.Sent = append(f.Sent, buf)
	f.mu.Unlock()
	return nil
}

// InterfaceIsUp implements FrameSubstrate.
func (f *Fake) InterfaceIsUp(iface uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.up[iface]
}

// InterfaceType implements FrameSubstrate.
func (f *Fake) InterfaceType(iface uint32) InterfaceType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ktype[iface]
}

// SubscribeInterfaceEvents implements FrameSubstrate.
func (f *Fake) SubscribeInterfaceEvents(cb func(Event)) func() {
	f.mu.Lock()
	f.nextSub++
	id := f.nextSub
	f.subs[id] = cb
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// Deliver simulates a frame arriving on iface: it calls every matching
// registered filter's callback synchronously, the way the real substrate
// would invoke the hot path from its receive path.
func (f *Fake) Deliver(iface uint32, buf *frame.Buffer) {
	f.mu.Lock()
	var matched []func(*frame.Buffer)
	for _, flt := range f.filters {
		if flt.iface != iface {
			continue
		}
		if buf.Frame.ID&flt.mask != flt.id&flt.mask {
			continue
		}
		matched = append(matched, flt.callback)
	}
	f.mu.Unlock()

	for _, cb := range matched {
		cb(buf)
	}
}

// FireEvent delivers an interface-lifecycle event to every subscriber,
// simulating what a real lifecycle source (e.g. netlink) would publish.
func (f *Fake) FireEvent(ev Event) {
	f.mu.Lock()
	cbs := make([]func(Event), 0, len(f.subs))
	for _, cb := range f.subs {
		cbs = append(cbs, cb)
	}
	f.mu.Unlock()

	for _, cb := range cbs {
		cb(ev)
	}
}
