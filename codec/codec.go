// Package codec parses and serializes JobSpecs to and from the
// management wire encoding: a fixed header followed by a tagged
// attribute list (spec.md §4.4). The framing style — a short header
// plus length-tagged attributes — follows the same shape the pack's
// KISS/AGWPE framers use for their own binary protocols, adapted here to
// plain encoding/binary rather than cgo byte-twiddling.
package codec

import (
	"encoding/binary"
	"fmt"

	"framegw/frame"
	"framegw/gwerr"
	"framegw/jobspec"
	"framegw/modchain"
)

// Family and Gwtype are the only values this gateway recognizes
// (spec.md §4.4 step 1).
const (
	FamilyCAN    uint8 = 1
	GwtypeCANCAN uint8 = 1
)

// Attribute tags (spec.md §4.4).
const (
	tagModAND uint8 = iota + 1
	tagModOR
	tagModXOR
	tagModSET
	tagCSXor
	tagCSCrc8
	tagFilter
	tagSrcIF
	tagDstIF
	tagHandled
	tagDropped
)

const headerLen = 4 // family(1) + gwtype(1) + flags(2)

// Decode parses a wire request into a JobSpec, validating per spec.md
// §4.4. op names the calling operation ("add" or "del") for error
// context; "del" relaxes the zero-interface-sentinel check that "add"
// enforces.
func Decode(data []byte, op string) (jobspec.JobSpec, error) {
	if len(data) < headerLen {
		return jobspec.JobSpec{}, gwerr.New(gwerr.InvalidArg, op, "message shorter than header")
	}
	family := data[0]
	gwtype := data[1]
	flags := binary.BigEndian.Uint16(data[2:4])

	if family != FamilyCAN {
		return jobspec.JobSpec{}, gwerr.WrapDetail(gwerr.ErrUnsupportedFamily, gwerr.FamilyUnsupported, op, "")
	}
	if gwtype != GwtypeCANCAN {
		return jobspec.JobSpec{}, gwerr.WrapDetail(gwerr.ErrUnsupportedGwtype, gwerr.InvalidArg, op, "")
	}

	attrs, err := parseAttrs(data[headerLen:])
	if err != nil {
		return jobspec.JobSpec{}, gwerr.Wrap(err, gwerr.InvalidArg, op)
	}

	var ops []modchain.Operator
	for _, kind := range []struct {
		tag  uint8
		kind modchain.OperatorKind
	}{
		{tagModAND, modchain.KindAND},
		{tagModOR, modchain.KindOR},
		{tagModXOR, modchain.KindXOR},
		{tagModSET, modchain.KindSET},
	} {
		for _, a := range attrs[kind.tag] {
			decoded, err := decodeOperator(kind.kind, a)
			if err != nil {
				return jobspec.JobSpec{}, gwerr.Wrap(err, gwerr.InvalidArg, op)
			}
			ops = append(ops, decoded...)
		}
	}

	xor := disabledXORStage()
	crc8 := disabledCRC8Stage()
	if len(ops) > 0 {
		if a, ok := firstAttr(attrs, tagCSXor); ok {
			var err error
			xor, err = decodeXOR(a)
			if err != nil {
				return jobspec.JobSpec{}, gwerr.Wrap(err, gwerr.InvalidArg, op)
			}
		}
		if a, ok := firstAttr(attrs, tagCSCrc8); ok {
			var err error
			crc8, err = decodeCRC8(a)
			if err != nil {
				return jobspec.JobSpec{}, gwerr.Wrap(err, gwerr.InvalidArg, op)
			}
		}
	}

	mc, err := modchain.New(ops, xor, crc8)
	if err != nil {
		return jobspec.JobSpec{}, gwerr.Wrap(err, gwerr.InvalidArg, op)
	}

	var filt frame.Filter
	if a, ok := firstAttr(attrs, tagFilter); ok {
		if len(a) != 8 {
			return jobspec.JobSpec{}, gwerr.New(gwerr.InvalidArg, op, "malformed FILTER attribute")
		}
		filt.ID = binary.BigEndian.Uint32(a[0:4])
		filt.Mask = binary.BigEndian.Uint32(a[4:8])
	}

	srcA, srcOK := firstAttr(attrs, tagSrcIF)
	dstA, dstOK := firstAttr(attrs, tagDstIF)
	if !srcOK || !dstOK {
		return jobspec.JobSpec{}, gwerr.WrapDetail(gwerr.ErrMissingInterfaces, gwerr.InvalidArg, op, "")
	}
	if len(srcA) != 4 || len(dstA) != 4 {
		return jobspec.JobSpec{}, gwerr.New(gwerr.InvalidArg, op, "malformed SRC_IF/DST_IF attribute")
	}
	src := binary.BigEndian.Uint32(srcA)
	dst := binary.BigEndian.Uint32(dstA)

	if (src == 0) != (dst == 0) {
		return jobspec.JobSpec{}, gwerr.WrapDetail(gwerr.ErrOneInterfaceZero, gwerr.NoDev, op, "")
	}

	spec := jobspec.JobSpec{
		Flags:    flags,
		Filter:   filt,
		SrcIdx:   src,
		DstIdx:   dst,
		ModChain: mc,
	}

	if op == "add" && spec.IsAllInterfacesSentinel() {
		return jobspec.JobSpec{}, gwerr.WrapDetail(gwerr.ErrZeroInterfaces, gwerr.InvalidArg, op, "")
	}

	return spec, nil
}

// EncodeRequest serializes spec as a wire ADD/DEL request: the same
// attribute set Encode emits, minus the response-only HANDLED/DROPPED
// counters.
func EncodeRequest(spec jobspec.JobSpec) []byte {
	return Encode(spec, 0, 0)
}

// Encode serializes spec as a wire response, emitting HANDLED/DROPPED
// only when non-zero (spec.md §4.4, "Serialize").
func Encode(spec jobspec.JobSpec, handled, dropped uint32) []byte {
	buf := make([]byte, headerLen)
	buf[0] = FamilyCAN
	buf[1] = GwtypeCANCAN
	binary.BigEndian.PutUint16(buf[2:4], spec.Flags)

	modTag := map[modchain.OperatorKind]uint8{
		modchain.KindAND: tagModAND,
		modchain.KindOR:  tagModOR,
		modchain.KindXOR: tagModXOR,
		modchain.KindSET: tagModSET,
	}
	for _, o := range spec.ModChain.Operators() {
		buf = appendAttr(buf, modTag[o.Kind], encodeOperator(o))
	}
	if xor := spec.ModChain.XOR(); xor.Enabled() {
		buf = appendAttr(buf, tagCSXor, encodeXOR(xor))
	}
	if crc8 := spec.ModChain.CRC8(); crc8.Enabled() {
		buf = appendAttr(buf, tagCSCrc8, encodeCRC8(crc8))
	}

	buf = appendAttr(buf, tagFilter, encodeFilter(spec.Filter))
	buf = appendAttr(buf, tagSrcIF, encodeU32(spec.SrcIdx))
	buf = appendAttr(buf, tagDstIF, encodeU32(spec.DstIdx))
	if handled != 0 {
		buf = appendAttr(buf, tagHandled, encodeU32(handled))
	}
	if dropped != 0 {
		buf = appendAttr(buf, tagDropped, encodeU32(dropped))
	}
	return buf
}

func encodeFilter(f frame.Filter) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[0:4], f.ID)
	binary.BigEndian.PutUint32(b[4:8], f.Mask)
	return b
}

func encodeU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func appendAttr(buf []byte, tag uint8, payload []byte) []byte {
	buf = append(buf, tag)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(payload)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, payload...)
}

// parseAttrs splits the attribute-list tail of a message into its
// tag-indexed payloads, preserving wire order within each tag. Unknown
// tags are collected too but never consulted (spec.md §4.4 step 7).
func parseAttrs(data []byte) (map[uint8][][]byte, error) {
	attrs := make(map[uint8][][]byte)
	for len(data) > 0 {
		if len(data) < 3 {
			return nil, fmt.Errorf("truncated attribute header")
		}
		tag := data[0]
		length := binary.BigEndian.Uint16(data[1:3])
		data = data[3:]
		if int(length) > len(data) {
			return nil, fmt.Errorf("attribute length overruns message")
		}
		attrs[tag] = append(attrs[tag], data[:length])
		data = data[length:]
	}
	return attrs, nil
}

func firstAttr(attrs map[uint8][][]byte, tag uint8) ([]byte, bool) {
	vs := attrs[tag]
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

// decodeOperator decodes one MOD_* attribute payload (a 1-byte selector
// followed by a 13-byte operand Frame) into up to three single-field
// operators, appended in ID, DLC, DATA order per spec.md §4.4 step 3 —
// the wire attribute bundles a selector bitset, but the original
// function-pointer table applies one field at a time, so each set bit
// becomes its own Operator against the shared operand.
func decodeOperator(kind modchain.OperatorKind, payload []byte) ([]modchain.Operator, error) {
	if len(payload) != 14 {
		return nil, fmt.Errorf("malformed MOD_* attribute")
	}
	selector := modchain.Selector(payload[0])
	if selector == 0 {
		return nil, gwerr.ErrEmptySelector
	}
	operand := decodeFrame(payload[1:14])

	var ops []modchain.Operator
	for _, sel := range [3]modchain.Selector{modchain.SelID, modchain.SelDLC, modchain.SelData} {
		if selector&sel != 0 {
			ops = append(ops, modchain.Operator{Kind: kind, Selector: sel, Operand: operand})
		}
	}
	return ops, nil
}

// decodeFrame decodes the 13-byte wire form of a Frame: id(4) + dlc(1) +
// data(8), with no padding on the wire (the _pad field is a Go
// in-memory-layout detail, never serialized).
func decodeFrame(b []byte) frame.Frame {
	var f frame.Frame
	f.ID = binary.BigEndian.Uint32(b[0:4])
	f.Dlc = b[4]
	copy(f.Data[:], b[5:13])
	return f
}

func encodeFrameWire(f frame.Frame) []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b[0:4], f.ID)
	b[4] = f.Dlc
	copy(b[5:13], f.Data[:])
	return b
}

// encodeOperator is the wire inverse of decodeOperator.
func encodeOperator(op modchain.Operator) []byte {
	b := make([]byte, 0, 14)
	b = append(b, byte(op.Selector))
	return append(b, encodeFrameWire(op.Operand)...)
}

// encodeXOR is the wire inverse of decodeXOR.
func encodeXOR(c modchain.XORChecksum) []byte {
	return []byte{byte(c.FromIdx), byte(c.ToIdx), byte(c.ResultIdx), c.InitXOR}
}

// encodeCRC8 is the wire inverse of decodeCRC8.
func encodeCRC8(c modchain.CRC8Checksum) []byte {
	b := make([]byte, 0, 262)
	b = append(b, byte(c.FromIdx), byte(c.ToIdx), byte(c.ResultIdx), c.InitCRC, c.FinalXOR, byte(c.Profile))
	return append(b, c.Table[:]...)
}

func decodeXOR(payload []byte) (modchain.XORChecksum, error) {
	if len(payload) != 4 {
		return modchain.XORChecksum{}, fmt.Errorf("malformed CS_XOR attribute")
	}
	c := modchain.XORChecksum{
		FromIdx:   int8(payload[0]),
		ToIdx:     int8(payload[1]),
		ResultIdx: int8(payload[2]),
		InitXOR:   payload[3],
	}
	if !withinIndexDomain(c.FromIdx, c.ToIdx, c.ResultIdx) {
		return modchain.XORChecksum{}, gwerr.ErrIndexOutOfDomain
	}
	return c, nil
}

func decodeCRC8(payload []byte) (modchain.CRC8Checksum, error) {
	if len(payload) != 262 {
		return modchain.CRC8Checksum{}, fmt.Errorf("malformed CS_CRC8 attribute")
	}
	c := modchain.CRC8Checksum{
		FromIdx:   int8(payload[0]),
		ToIdx:     int8(payload[1]),
		ResultIdx: int8(payload[2]),
		InitCRC:   payload[3],
		FinalXOR:  payload[4],
		Profile:   modchain.CRC8Profile(payload[5]),
	}
	copy(c.Table[:], payload[6:262])
	if !withinIndexDomain(c.FromIdx, c.ToIdx, c.ResultIdx) {
		return modchain.CRC8Checksum{}, gwerr.ErrIndexOutOfDomain
	}
	return c, nil
}

func withinIndexDomain(idxs ...int8) bool {
	for _, idx := range idxs {
		if idx < frame.IndexMin || idx > frame.IndexMax {
			return false
		}
	}
	return true
}

func disabledXORStage() modchain.XORChecksum {
	return modchain.XORChecksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
}

func disabledCRC8Stage() modchain.CRC8Checksum {
	return modchain.CRC8Checksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
}
