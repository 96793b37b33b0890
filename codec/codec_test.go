package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"framegw/frame"
	"framegw/gwerr"
	"framegw/jobspec"
	"framegw/modchain"
)

func buildHeader(family, gwtype uint8, flags uint16) []byte {
	return []byte{family, gwtype, byte(flags >> 8), byte(flags)}
}

func TestDecodeRejectsUnsupportedFamily(t *testing.T) {
	req := buildHeader(0, GwtypeCANCAN, 0)
	_, err := Decode(req, "add")
	require.True(t, gwerr.IsKind(err, gwerr.FamilyUnsupported))
}

func TestDecodeRejectsUnsupportedGwtype(t *testing.T) {
	req := buildHeader(FamilyCAN, 0, 0)
	_, err := Decode(req, "add")
	require.True(t, gwerr.IsKind(err, gwerr.InvalidArg))
}

func TestDecodeRequiresSrcAndDstOnAdd(t *testing.T) {
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	_, err := Decode(req, "add")
	require.True(t, gwerr.IsKind(err, gwerr.InvalidArg))
}

func TestDecodeRejectsZeroInterfacesOnAdd(t *testing.T) {
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	req = appendAttr(req, tagSrcIF, encodeU32(0))
	req = appendAttr(req, tagDstIF, encodeU32(0))
	_, err := Decode(req, "add")
	require.True(t, gwerr.IsKind(err, gwerr.InvalidArg))
}

func TestDecodeRejectsExactlyOneZeroInterfaceOnAdd(t *testing.T) {
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	req = appendAttr(req, tagSrcIF, encodeU32(0))
	req = appendAttr(req, tagDstIF, encodeU32(2))
	_, err := Decode(req, "add")
	require.True(t, gwerr.IsKind(err, gwerr.NoDev))
}

func TestDecodeRejectsExactlyOneZeroInterfaceOnDel(t *testing.T) {
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	req = appendAttr(req, tagSrcIF, encodeU32(1))
	req = appendAttr(req, tagDstIF, encodeU32(0))
	_, err := Decode(req, "del")
	require.True(t, gwerr.IsKind(err, gwerr.NoDev))
}

func TestDecodeAllowsZeroInterfaceSentinelOnDel(t *testing.T) {
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	req = appendAttr(req, tagSrcIF, encodeU32(0))
	req = appendAttr(req, tagDstIF, encodeU32(0))
	spec, err := Decode(req, "del")
	require.NoError(t, err)
	require.True(t, spec.IsAllInterfacesSentinel())
}

func TestDecodeDefaultsFilterToMatchAll(t *testing.T) {
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	req = appendAttr(req, tagSrcIF, encodeU32(1))
	req = appendAttr(req, tagDstIF, encodeU32(2))
	spec, err := Decode(req, "add")
	require.NoError(t, err)
	require.Equal(t, frame.Filter{}, spec.Filter)
}

func TestDecodeSplitsMultiFieldSelectorIntoOrderedOperators(t *testing.T) {
	operand := frame.Frame{ID: 0x10, Dlc: 3, Data: [8]byte{0xFF}}
	selector := byte(modchain.SelData | modchain.SelID | modchain.SelDLC)
	payload := append([]byte{selector}, encodeFrameWire(operand)...)

	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	req = appendAttr(req, tagModOR, payload)
	req = appendAttr(req, tagSrcIF, encodeU32(1))
	req = appendAttr(req, tagDstIF, encodeU32(2))

	spec, err := Decode(req, "add")
	require.NoError(t, err)

	ops := spec.ModChain.Operators()
	require.Len(t, ops, 3, "one MOD_OR attribute selecting ID|DLC|DATA decomposes into three operators")
	require.Equal(t, modchain.SelID, ops[0].Selector, "ID-op must come first")
	require.Equal(t, modchain.SelDLC, ops[1].Selector, "DLC-op must come second")
	require.Equal(t, modchain.SelData, ops[2].Selector, "DATA-op must come third")
	for _, op := range ops {
		require.Equal(t, modchain.KindOR, op.Kind)
		require.True(t, op.Operand.Equal(operand))
	}
}

func TestDecodeOrdersOperatorKindsANDthenORthenXORthenSET(t *testing.T) {
	mkPayload := func(id uint32) []byte {
		return append([]byte{byte(modchain.SelID)}, encodeFrameWire(frame.Frame{ID: id})...)
	}
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	// Append out of kind order on the wire; Decode must still reorder to AND, OR, XOR, SET.
	req = appendAttr(req, tagModSET, mkPayload(4))
	req = appendAttr(req, tagModXOR, mkPayload(3))
	req = appendAttr(req, tagModOR, mkPayload(2))
	req = appendAttr(req, tagModAND, mkPayload(1))
	req = appendAttr(req, tagSrcIF, encodeU32(1))
	req = appendAttr(req, tagDstIF, encodeU32(2))

	spec, err := Decode(req, "add")
	require.NoError(t, err)

	ops := spec.ModChain.Operators()
	require.Len(t, ops, 4)
	require.Equal(t, modchain.KindAND, ops[0].Kind)
	require.Equal(t, modchain.KindOR, ops[1].Kind)
	require.Equal(t, modchain.KindXOR, ops[2].Kind)
	require.Equal(t, modchain.KindSET, ops[3].Kind)
}

func TestDecodeIgnoresChecksumsWhenNoOperatorsPresent(t *testing.T) {
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	req = appendAttr(req, tagCSXor, []byte{0, 1, 2, 0})
	req = appendAttr(req, tagSrcIF, encodeU32(1))
	req = appendAttr(req, tagDstIF, encodeU32(2))

	spec, err := Decode(req, "add")
	require.NoError(t, err)
	require.False(t, spec.ModChain.XOR().Enabled())
}

func TestDecodeRejectsChecksumIndexOutOfDomain(t *testing.T) {
	opPayload := append([]byte{byte(modchain.SelID)}, encodeFrameWire(frame.Frame{})...)
	req := buildHeader(FamilyCAN, GwtypeCANCAN, 0)
	req = appendAttr(req, tagModAND, opPayload)
	req = appendAttr(req, tagCSXor, []byte{9, 0, 0, 0}) // 9 is out of [-8, 7]
	req = appendAttr(req, tagSrcIF, encodeU32(1))
	req = appendAttr(req, tagDstIF, encodeU32(2))

	_, err := Decode(req, "add")
	require.True(t, gwerr.IsKind(err, gwerr.InvalidArg))
}

func TestEncodeOmitsZeroCounters(t *testing.T) {
	spec := jobspec.JobSpec{SrcIdx: 1, DstIdx: 2, ModChain: emptyChain(t)}
	rec := Encode(spec, 0, 0)
	attrs, err := parseAttrs(rec[headerLen:])
	require.NoError(t, err)
	require.NotContains(t, attrs, tagHandled)
	require.NotContains(t, attrs, tagDropped)

	rec = Encode(spec, 5, 0)
	attrs, err = parseAttrs(rec[headerLen:])
	require.NoError(t, err)
	require.Contains(t, attrs, tagHandled)
	require.NotContains(t, attrs, tagDropped)
}

func TestEncodeDecodeRoundTripIsCanonicallyEqual(t *testing.T) {
	ops := []modchain.Operator{
		{Kind: modchain.KindOR, Selector: modchain.SelID, Operand: frame.Frame{ID: 0x400}},
		{Kind: modchain.KindSET, Selector: modchain.SelDLC, Operand: frame.Frame{Dlc: 5}},
	}
	xor := modchain.XORChecksum{FromIdx: 0, ToIdx: 3, ResultIdx: 4, InitXOR: 0xFF}
	crc8 := modchain.CRC8Checksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
	mc, err := modchain.New(ops, xor, crc8)
	require.NoError(t, err)

	spec := jobspec.JobSpec{
		Flags:    frame.FlagEcho,
		Filter:   frame.Filter{ID: 0x100, Mask: 0xF00},
		SrcIdx:   1,
		DstIdx:   2,
		ModChain: mc,
	}

	wire := EncodeRequest(spec)
	roundTripped, err := Decode(wire, "add")
	require.NoError(t, err)
	require.True(t, spec.Equal(roundTripped), "encode/decode round-trip must be canonically equal (invariant 4)")
}

func emptyChain(t *testing.T) modchain.ModChain {
	t.Helper()
	mc, err := modchain.New(nil,
		modchain.XORChecksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel},
		modchain.CRC8Checksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel},
	)
	require.NoError(t, err)
	return mc
}
