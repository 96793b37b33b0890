// Package hotpath implements the per-frame receive path (spec.md §3/§4.3,
// "HotPath"): the function the substrate calls, on its own goroutine, for
// every frame accepted by a resident job's filter. It allocates at most
// once, takes no lock beyond what the substrate's own dispatch already
// holds, and never returns an error — the only externally visible effect
// of a failure is a counter increment (spec.md §7), mirroring how the
// reference pack's digipeat_match decides per-packet retransmission
// without ever surfacing a caller-visible error.
package hotpath

import (
	"framegw/frame"
	"framegw/job"
	"framegw/substrate"
)

// HotPath runs the receive-to-forward pipeline for one substrate
// implementation: loop suppression, buffer acquisition, modification,
// timestamp handling, and send.
type HotPath struct {
	sub substrate.FrameSubstrate
}

// New returns a HotPath that acquires and sends buffers through sub.
func New(sub substrate.FrameSubstrate) *HotPath {
	return &HotPath{sub: sub}
}

// Handle is the substrate receive callback bound to j's filter at
// Registry.Add time. buf is the frame as received on j.Spec.SrcIdx.
func (h *HotPath) Handle(j *job.Job, buf *frame.Buffer) {
	// Loop suppression: never re-forward a frame this gateway already
	// produced (spec.md §4.3, "Loop suppression"). Returns without
	// touching either counter.
	if buf.HasGatewayOrigin() {
		return
	}

	// Destination liveness: a job whose destination went down since
	// installation drops silently rather than blocking or erroring.
	if !h.sub.InterfaceIsUp(j.Spec.DstIdx) {
		j.IncDropped()
		return
	}

	out, ok := h.acquire(j, buf)
	if !ok {
		j.IncDropped()
		return
	}

	j.Spec.ModChain.Apply(&out.Frame)

	if !j.Spec.HasFlag(frame.FlagSrcTimestamp) {
		out.ClearTimestamp()
	}
	out.Stamp(j.Spec.DstIdx)

	echo := j.Spec.HasFlag(frame.FlagEcho)
	if err := h.sub.Send(out, echo); err != nil {
		j.IncDropped()
		return
	}
	j.IncHandled()
}

// acquire obtains the buffer the hot path will mutate and send: a
// zero-copy shared view if the chain makes no modification (an empty
// ModChain never mutates Data, so aliasing the original is safe), or an
// independent deep copy otherwise. Both acquisition modes must return
// immediately on exhaustion per spec.md §5; a failure there is reported
// up as ok=false rather than retried or waited on.
func (h *HotPath) acquire(j *job.Job, buf *frame.Buffer) (*frame.Buffer, bool) {
	if j.Spec.ModChain.Empty() {
		return h.sub.CloneShared(buf)
	}
	return h.sub.DeepCopy(buf)
}
