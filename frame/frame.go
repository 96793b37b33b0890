// Package frame defines the fixed-layout bus frame and the acceptance
// filter the gateway routes on.
package frame

import "encoding/binary"

// PayloadLen is the number of payload bytes every Frame carries,
// regardless of DLC.
const PayloadLen = 8

// MaxOperators bounds the number of modification operators a single
// ModChain may hold.
const MaxOperators = 17

// IndexMin and IndexMax bound the domain a checksum stage's from/to/result
// indices must resolve within.
const (
	IndexMin = -8
	IndexMax = 7
)

// DisabledSentinel marks a checksum stage as not configured.
const DisabledSentinel = 42

// Flag bits recognized on JobSpec.Flags.
const (
	// FlagSrcTimestamp preserves the source timestamp on a forwarded
	// frame instead of the default of clearing it.
	FlagSrcTimestamp uint16 = 1 << iota
	// FlagEcho allows a forwarded frame to be echoed back to its
	// source interface if the substrate would otherwise do so.
	FlagEcho
)

// Frame is the 13-byte logical unit routed by the gateway: a 32-bit id
// (with flag bits in its high range, meaningful only to the substrate),
// a payload-length field in [0, 8], and exactly 8 payload bytes. Bytes in
// Data beyond Dlc are unspecified by higher layers but preserved
// bit-for-bit by every canonicalizing copy.
type Frame struct {
	ID   uint32
	Dlc  uint8
	_pad [3]byte
	Data [PayloadLen]byte
}

// Canon returns a copy of f with its structural padding zeroed, so that
// two Frames compare equal by raw bytes iff they are semantically equal.
func (f Frame) Canon() Frame {
	f._pad = [3]byte{}
	return f
}

// Equal reports whether two frames are byte-identical after
// canonicalization.
func (f Frame) Equal(other Frame) bool {
	return f.Canon() == other.Canon()
}

// Word returns the 8 payload bytes as a single 64-bit word, read in a
// fixed byte order. AND/OR/XOR/SET over Data are defined in terms of this
// word; the choice of order is arbitrary but must be applied consistently
// on both sides of an operation, which SetWord guarantees by writing with
// the same order.
func (f Frame) Word() uint64 {
	return binary.BigEndian.Uint64(f.Data[:])
}

// SetWord stores a 64-bit word back into the 8 payload bytes using the
// same byte order Word reads with.
func (f *Frame) SetWord(w uint64) {
	binary.BigEndian.PutUint64(f.Data[:], w)
}

// ResolveIndex turns a from/to/result index in [IndexMin, IndexMax] into
// an absolute byte offset into Data, given the frame's current dlc.
// Non-negative values are absolute offsets; negative values are relative
// to dlc (-1 = data[dlc-1], -8 = data[dlc-8]). ok is false if the
// resolved offset falls outside [0, dlc) or outside Data.
func ResolveIndex(idx int8, dlc uint8) (offset int, ok bool) {
	if idx >= 0 {
		offset = int(idx)
	} else {
		offset = int(dlc) + int(idx)
	}
	if offset < 0 || offset >= int(dlc) || offset >= PayloadLen {
		return 0, false
	}
	return offset, true
}

// Filter is an (id, mask) acceptance predicate on a frame's id field.
type Filter struct {
	ID   uint32
	Mask uint32
}

// Match reports whether a frame's id satisfies the filter. A zero mask
// with a zero id matches every frame.
func (f Filter) Match(id uint32) bool {
	return id&f.Mask == f.ID&f.Mask
}
