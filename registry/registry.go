// Package registry holds the concurrent set of resident jobs (spec.md
// §3/§4.2, "Registry"). Reads are lock-free; writes are serialized.
package registry

import (
	"sync"
	"sync/atomic"

	"framegw/frame"
	"framegw/gwerr"
	"framegw/job"
	"framegw/jobspec"
	"framegw/substrate"
)

// Dispatch is called on the substrate's own receive goroutine for every
// frame a resident job's filter accepts. It must not block (spec.md §5).
type Dispatch func(j *job.Job, buf *frame.Buffer)

// Registry is the routing table: the set of resident jobs, indexed only
// by linear scan (spec.md §4.2 names no secondary index). The current
// set is published via an atomic.Pointer so Snapshot and the substrate's
// own filter callbacks never take a lock; Add/RemoveX serialize on mu so
// filter registration and set membership change together.
type Registry struct {
	mu  sync.Mutex
	set atomic.Pointer[[]*job.Job]

	sub      substrate.FrameSubstrate
	dispatch Dispatch
}

// New returns an empty Registry that installs filters on sub and, on
// every accepted frame, invokes dispatch with the matching Job.
func New(sub substrate.FrameSubstrate, dispatch Dispatch) *Registry {
	r := &Registry{sub: sub, dispatch: dispatch}
	empty := make([]*job.Job, 0)
	r.set.Store(&empty)
	return r
}

// Snapshot returns the current resident job set. The returned slice must
// not be mutated; callers needing a private copy should copy it
// themselves.
func (r *Registry) Snapshot() []*job.Job {
	return *r.set.Load()
}

// Add validates spec against the substrate (interface resolution and
// link-layer type, spec.md §4.2/§6) and, if valid, installs it as a new
// resident Job. Duplicate JobSpecs are permitted (spec.md §9): Add never
// rejects a structurally valid spec merely because an identical one is
// already resident.
func (r *Registry) Add(spec jobspec.JobSpec) (*job.Job, error) {
	if spec.IsAllInterfacesSentinel() {
		return nil, gwerr.WrapDetail(gwerr.ErrZeroInterfaces, gwerr.InvalidArg, "add", "")
	}
	if !r.sub.InterfaceIsUp(spec.SrcIdx) {
		return nil, gwerr.WrapDetail(gwerr.ErrInterfaceGone, gwerr.NoDev, "add", "src interface")
	}
	if r.sub.InterfaceType(spec.SrcIdx) != substrate.InterfaceTypeBus {
		return nil, gwerr.WrapDetail(gwerr.ErrWrongLinkType, gwerr.NoDev, "add", "src interface")
	}
	if !r.sub.InterfaceIsUp(spec.DstIdx) {
		return nil, gwerr.WrapDetail(gwerr.ErrInterfaceGone, gwerr.NoDev, "add", "dst interface")
	}
	if r.sub.InterfaceType(spec.DstIdx) != substrate.InterfaceTypeBus {
		return nil, gwerr.WrapDetail(gwerr.ErrWrongLinkType, gwerr.NoDev, "add", "dst interface")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	j := job.New(spec, nil)
	handle, err := r.sub.RegisterFilter(spec.SrcIdx, spec.Filter.ID, spec.Filter.Mask, func(buf *frame.Buffer) {
		r.dispatch(j, buf)
	})
	if err != nil {
		return nil, gwerr.Wrap(err, gwerr.NoMem, "add")
	}
	j.Handle = handle

	cur := *r.set.Load()
	next := make([]*job.Job, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, j)
	r.set.Store(&next)

	return j, nil
}

// RemoveFirst removes the first resident job whose Spec equals spec
// (spec.md §4.2's byte-equality definition). Returns gwerr.ErrJobNotFound
// if none matches.
func (r *Registry) RemoveFirst(spec jobspec.JobSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := *r.set.Load()
	idx := -1
	for i, j := range cur {
		if j.Spec.Equal(spec) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return gwerr.ErrJobNotFound
	}
	return r.removeAt(cur, idx)
}

// RemoveAll drains every resident job, unregistering each one's filter.
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := *r.set.Load()
	for _, j := range cur {
		_ = r.sub.UnregisterFilter(j.Handle)
	}
	empty := make([]*job.Job, 0)
	r.set.Store(&empty)
}

// RemoveByInterface removes every resident job whose SrcIdx or DstIdx
// equals iface, used by the lifecycle hook when an interface goes away
// (spec.md §4.5).
func (r *Registry) RemoveByInterface(iface uint32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := *r.set.Load()
	next := make([]*job.Job, 0, len(cur))
	removed := 0
	for _, j := range cur {
		if j.Spec.SrcIdx == iface || j.Spec.DstIdx == iface {
			_ = r.sub.UnregisterFilter(j.Handle)
			removed++
			continue
		}
		next = append(next, j)
	}
	if removed > 0 {
		r.set.Store(&next)
	}
	return removed
}

// removeAt unregisters and removes the job at idx in cur, storing the
// resulting slice. Caller must hold mu.
func (r *Registry) removeAt(cur []*job.Job, idx int) error {
	victim := cur[idx]
	if err := r.sub.UnregisterFilter(victim.Handle); err != nil {
		return gwerr.Wrap(err, gwerr.NoMem, "del")
	}
	next := make([]*job.Job, 0, len(cur)-1)
	next = append(next, cur[:idx]...)
	next = append(next, cur[idx+1:]...)
	r.set.Store(&next)
	return nil
}
