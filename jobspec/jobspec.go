// Package jobspec defines the canonical, value-comparable description of
// a gateway job (spec.md §3, "JobSpec").
package jobspec

import (
	"framegw/frame"
	"framegw/modchain"
)

// JobSpec is the immutable description of a forwarding job: its
// acceptance filter, source/destination interface indices, behavior
// flags, and modification chain. Two JobSpecs are equal iff every byte is
// equal after canonicalization of their mod chains.
type JobSpec struct {
	Flags    uint16
	Filter   frame.Filter
	SrcIdx   uint32
	DstIdx   uint32
	ModChain modchain.ModChain
}

// IsAllInterfacesSentinel reports whether SrcIdx and DstIdx are both
// zero — the sentinel meaning "every job" on a DEL request, and an
// invalid configuration on an ADD request.
func (s JobSpec) IsAllInterfacesSentinel() bool {
	return s.SrcIdx == 0 && s.DstIdx == 0
}

// HasFlag reports whether flag is set.
func (s JobSpec) HasFlag(flag uint16) bool {
	return s.Flags&flag != 0
}

// Equal reports whether two JobSpecs describe the same job: same flags,
// same filter, same interfaces, and byte-equal (canonical) mod chains.
// This is the comparison remove_first uses to find a matching Job
// (spec.md §4.2).
func (s JobSpec) Equal(other JobSpec) bool {
	return s.Flags == other.Flags &&
		s.Filter == other.Filter &&
		s.SrcIdx == other.SrcIdx &&
		s.DstIdx == other.DstIdx &&
		s.ModChain.Equal(other.ModChain)
}
