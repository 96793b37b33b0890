// Package job holds the installed, running form of a job: a JobSpec plus
// the runtime counters and substrate handle that only exist once the
// job is resident in the Registry (spec.md §3, "Job").
package job

import (
	"sync/atomic"

	"framegw/jobspec"
	"framegw/substrate"
)

// Job is one resident forwarding job. Its Spec is immutable once
// installed; Handled and Dropped are updated by the hot path with
// relaxed atomics (spec.md §5: "tearing of a 32-bit field is acceptable
// and documented"). Handle is the substrate's opaque token for the
// filter registered on Spec.SrcIdx, used only to unregister the job.
type Job struct {
	Spec jobspec.JobSpec

	handled uint32
	dropped uint32

	Handle substrate.FilterHandle
}

// New wraps spec as a fresh, zero-counter Job. handle is the substrate
// filter handle returned by RegisterFilter for this job's (SrcIdx,
// Filter) pair.
func New(spec jobspec.JobSpec, handle substrate.FilterHandle) *Job {
	return &Job{Spec: spec, Handle: handle}
}

// IncHandled increments the forwarded-frame counter.
func (j *Job) IncHandled() {
	atomic.AddUint32(&j.handled, 1)
}

// IncDropped increments the dropped-frame counter. The hot path never
// returns an error for a drop; this counter is the only externally
// visible trace (spec.md §7).
func (j *Job) IncDropped() {
	atomic.AddUint32(&j.dropped, 1)
}

// Handled returns the current forwarded-frame count.
func (j *Job) Handled() uint32 {
	return atomic.LoadUint32(&j.handled)
}

// Dropped returns the current dropped-frame count.
func (j *Job) Dropped() uint32 {
	return atomic.LoadUint32(&j.dropped)
}
