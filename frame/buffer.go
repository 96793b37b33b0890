package frame

import "time"

// OriginMarker identifies a frame buffer as having already been produced
// by this gateway module, used for loop suppression. The substrate must
// propagate whatever value is stamped here verbatim across interface
// boundaries; the gateway never interprets it beyond equality.
type OriginMarker uint32

// GatewayOrigin is the marker this gateway stamps on every buffer it
// forwards.
const GatewayOrigin OriginMarker = 0x67617477 // "gatw"

// Buffer is a single frame buffer as it moves through the substrate. It
// carries the logical Frame plus the metadata the hot path and substrate
// need: which interface it is outbound on, its origin marker, and its
// timestamp.
type Buffer struct {
	Frame Frame

	// Origin is the loop-suppression marker. Zero means "not ours."
	Origin OriginMarker

	// OutIface is the interface this buffer is to be (or was) sent on.
	OutIface uint32

	// Timestamp is the frame's capture or send time.
	Timestamp time.Time
}

// HasGatewayOrigin reports whether this buffer already bears the
// gateway's own origin marker, meaning the hot path must not re-forward
// it.
func (b *Buffer) HasGatewayOrigin() bool {
	return b.Origin == GatewayOrigin
}

// Stamp marks b as produced by this gateway and bound for iface.
func (b *Buffer) Stamp(iface uint32) {
	b.Origin = GatewayOrigin
	b.OutIface = iface
}

// ClearTimestamp zeroes the buffer's timestamp, the default behavior
// unless a Job's SRC_TSTAMP flag is set.
func (b *Buffer) ClearTimestamp() {
	b.Timestamp = time.Time{}
}
