package modchain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"framegw/frame"
)

func TestNewRejectsTooManyOperators(t *testing.T) {
	ops := make([]Operator, frame.MaxOperators+1)
	for i := range ops {
		ops[i] = Operator{Kind: KindAND, Selector: SelID}
	}
	_, err := New(ops, disabledXOR(), disabledCRC8())
	require.ErrorIs(t, err, errTooManyOperators)
}

func TestNewRejectsInvalidOperator(t *testing.T) {
	_, err := New([]Operator{{Kind: KindAND, Selector: 0}}, disabledXOR(), disabledCRC8())
	require.ErrorIs(t, err, errInvalidOperator)
}

func TestNewRejectsChecksumIndexOutOfDomain(t *testing.T) {
	ops := []Operator{{Kind: KindOR, Selector: SelID}}
	bad := XORChecksum{FromIdx: -9, ToIdx: 0, ResultIdx: 0}
	_, err := New(ops, bad, disabledCRC8())
	require.ErrorIs(t, err, errIndexDomain)
}

func TestEmptyChainIgnoresChecksums(t *testing.T) {
	xor := XORChecksum{FromIdx: 0, ToIdx: 0, ResultIdx: 1, InitXOR: 0xFF}
	mc, err := New(nil, xor, disabledCRC8())
	require.NoError(t, err)
	require.True(t, mc.Empty())

	f := frame.Frame{Dlc: 4, Data: [8]byte{1, 2, 3, 4}}
	before := f
	mc.Apply(&f)
	require.Equal(t, before, f, "checksum stages must not fire when the operator list is empty")
}

func TestApplyRunsOperatorsThenChecksums(t *testing.T) {
	ops := []Operator{{Kind: KindOR, Selector: SelID, Operand: frame.Frame{ID: 0x400}}}
	xor := XORChecksum{FromIdx: 0, ToIdx: 1, ResultIdx: 2, InitXOR: 0}
	mc, err := New(ops, xor, disabledCRC8())
	require.NoError(t, err)

	f := frame.Frame{ID: 0x123, Dlc: 3, Data: [8]byte{0x01, 0x02}}
	mc.Apply(&f)

	require.Equal(t, uint32(0x523), f.ID)
	require.Equal(t, byte(0x01^0x02), f.Data[2])
}

func TestEqualCanonicalizesPaddingAndDisabledStages(t *testing.T) {
	opA := Operator{Kind: KindSET, Selector: SelID, Operand: frame.Frame{ID: 1, _pad: [3]byte{1, 2, 3}}}
	opB := Operator{Kind: KindSET, Selector: SelID, Operand: frame.Frame{ID: 1, _pad: [3]byte{9, 9, 9}}}

	a, err := New([]Operator{opA}, disabledXOR(), disabledCRC8())
	require.NoError(t, err)
	b, err := New([]Operator{opB}, disabledXOR(), disabledCRC8())
	require.NoError(t, err)

	require.True(t, a.Equal(b))
}

func TestEqualDiffersOnOperatorCount(t *testing.T) {
	op := Operator{Kind: KindSET, Selector: SelID}
	a, _ := New([]Operator{op}, disabledXOR(), disabledCRC8())
	b, _ := New([]Operator{op, op}, disabledXOR(), disabledCRC8())
	require.False(t, a.Equal(b))
}

func TestChecksumFixedPoint(t *testing.T) {
	// Invariant 7: SET-with-full-selector followed by a checksum stage
	// reaches a fixed point after one more application.
	operand := frame.Frame{ID: 0x77, Dlc: 4, Data: [8]byte{1, 2, 3, 4}}
	ops := []Operator{{Kind: KindSET, Selector: SelID | SelDLC | SelData, Operand: operand}}
	xor := XORChecksum{FromIdx: 0, ToIdx: 2, ResultIdx: 3, InitXOR: 0}
	mc, err := New(ops, xor, disabledCRC8())
	require.NoError(t, err)

	f := frame.Frame{ID: 0xDEAD, Dlc: 8, Data: [8]byte{9, 9, 9, 9, 9, 9, 9, 9}}
	mc.Apply(&f)
	once := f
	mc.Apply(&f)
	require.Equal(t, once, f)
}
