// Package gateway is the orchestrating façade: it wires Registry,
// ConfigCodec, LifecycleHook, and HotPath together into the three
// management operations a caller drives (Add, Del, List) plus the
// hot-path dispatch the substrate calls per frame — the same "wire the
// pieces, expose a handful of verbs" role the teacher's container
// package plays over Create/Start/Delete/List for OCI containers.
package gateway

import (
	"framegw/codec"
	"framegw/gwerr"
	"framegw/hotpath"
	"framegw/job"
	"framegw/jobspec"
	"framegw/lifecycle"
	"framegw/logging"
	"framegw/registry"
	"framegw/substrate"
)

// Gateway is a complete, running frame gateway core over one substrate.
type Gateway struct {
	sub substrate.FrameSubstrate
	reg *registry.Registry
	hot *hotpath.HotPath
	lc  *lifecycle.Hook
}

// New builds a Gateway over sub and starts its lifecycle hook. Callers
// should call Close when done to unsubscribe from interface events.
func New(sub substrate.FrameSubstrate) *Gateway {
	hot := hotpath.New(sub)
	reg := registry.New(sub, hot.Handle)
	g := &Gateway{
		sub: sub,
		reg: reg,
		hot: hot,
	}
	g.lc = lifecycle.New(reg, sub)
	g.lc.Start()
	return g
}

// Close unsubscribes from interface-lifecycle events. It does not drain
// the registry (spec.md's Non-goals exclude a shutdown/unload protocol).
func (g *Gateway) Close() {
	g.lc.Stop()
}

// Add decodes an ADD request and installs the resulting job. Returns the
// installed Job on success, or a *gwerr.Error on failure.
func (g *Gateway) Add(req []byte) (*job.Job, error) {
	spec, err := codec.Decode(req, "add")
	if err != nil {
		return nil, err
	}
	j, err := g.reg.Add(spec)
	if err != nil {
		logging.Warn("add failed", "error", err)
		return nil, err
	}
	logging.Info("job added", "src", spec.SrcIdx, "dst", spec.DstIdx)
	return j, nil
}

// Del decodes a DEL request. A (src=0, dst=0) sentinel spec removes every
// resident job; otherwise the first byte-equal match is removed.
func (g *Gateway) Del(req []byte) error {
	spec, err := codec.Decode(req, "del")
	if err != nil {
		return err
	}
	if spec.IsAllInterfacesSentinel() {
		g.reg.RemoveAll()
		logging.Info("all jobs removed")
		return nil
	}
	if err := g.reg.RemoveFirst(spec); err != nil {
		logging.Warn("del failed", "error", err)
		return err
	}
	logging.Info("job removed", "src", spec.SrcIdx, "dst", spec.DstIdx)
	return nil
}

// maxBatchBytes bounds a single LIST response, matching spec.md §7's
// msg-too-large truncation behavior.
const maxBatchBytes = 64 * 1024

// Snapshot returns every resident job, for callers (such as cmd) that
// talk to the Gateway in-process and don't need the wire encoding List
// produces.
func (g *Gateway) Snapshot() []*job.Job {
	return g.reg.Snapshot()
}

// List serializes resident jobs starting at cursor, stopping before
// maxBatchBytes would be exceeded. nextCursor is the index to resume
// from on the following call, or -1 once every job has been reported.
func (g *Gateway) List(cursor int) (batch [][]byte, nextCursor int, err error) {
	jobs := g.reg.Snapshot()
	if cursor < 0 || cursor > len(jobs) {
		return nil, -1, gwerr.New(gwerr.InvalidArg, "list", "cursor out of range")
	}

	total := 0
	i := cursor
	for ; i < len(jobs); i++ {
		j := jobs[i]
		rec := codec.Encode(j.Spec, j.Handled(), j.Dropped())
		if total+len(rec) > maxBatchBytes && len(batch) > 0 {
			return batch, i, nil
		}
		batch = append(batch, rec)
		total += len(rec)
	}
	return batch, -1, nil
}

// AddSpec installs spec directly, bypassing the wire codec — used by
// bulk-load paths (cmd's YAML apply) that already hold a decoded
// JobSpec.
func (g *Gateway) AddSpec(spec jobspec.JobSpec) (*job.Job, error) {
	return g.reg.Add(spec)
}
