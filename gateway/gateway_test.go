package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"

	"framegw/codec"
	"framegw/frame"
	"framegw/jobspec"
	"framegw/modchain"
	"framegw/substrate"
)

func newTestGateway(t *testing.T) (*Gateway, *substrate.Fake) {
	t.Helper()
	sub := substrate.NewFake()
	sub.SetUp(1, true)
	sub.SetUp(2, true)
	sub.SetInterfaceType(1, substrate.InterfaceTypeBus)
	sub.SetInterfaceType(2, substrate.InterfaceTypeBus)
	g := New(sub)
	t.Cleanup(g.Close)
	return g, sub
}

func disabledXOR() modchain.XORChecksum {
	return modchain.XORChecksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
}

func disabledCRC8() modchain.CRC8Checksum {
	return modchain.CRC8Checksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
}

func passthroughSpec(src, dst uint32) jobspec.JobSpec {
	mc, _ := modchain.New(nil, disabledXOR(), disabledCRC8())
	return jobspec.JobSpec{SrcIdx: src, DstIdx: dst, ModChain: mc}
}

// S1: passthrough.
func TestScenarioS1Passthrough(t *testing.T) {
	g, sub := newTestGateway(t)
	j, err := g.Add(codec.EncodeRequest(passthroughSpec(1, 2)))
	require.NoError(t, err)

	in := &frame.Buffer{Frame: frame.Frame{ID: 0x123, Dlc: 8, Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}}
	sub.Deliver(1, in)

	require.Len(t, sub.Sent, 1)
	require.True(t, sub.Sent[0].Frame.Equal(in.Frame))
	require.Equal(t, uint32(1), j.Handled())
	require.Equal(t, uint32(0), j.Dropped())
}

// S2: OR id.
func TestScenarioS2OrID(t *testing.T) {
	g, sub := newTestGateway(t)
	ops := []modchain.Operator{{Kind: modchain.KindOR, Selector: modchain.SelID, Operand: frame.Frame{ID: 0x400}}}
	mc, err := modchain.New(ops, disabledXOR(), disabledCRC8())
	require.NoError(t, err)
	spec := jobspec.JobSpec{SrcIdx: 1, DstIdx: 2, ModChain: mc}
	_, err = g.Add(codec.EncodeRequest(spec))
	require.NoError(t, err)

	in := &frame.Buffer{Frame: frame.Frame{ID: 0x123, Dlc: 8}}
	sub.Deliver(1, in)

	require.Len(t, sub.Sent, 1)
	require.Equal(t, uint32(0x523), sub.Sent[0].Frame.ID)
}

// S3: SET data + XOR checksum.
func TestScenarioS3SetDataXORChecksum(t *testing.T) {
	g, sub := newTestGateway(t)
	operand := frame.Frame{Data: [8]byte{0xAA, 0xBB, 0xCC, 0xDD, 0, 0, 0, 0}}
	ops := []modchain.Operator{{Kind: modchain.KindSET, Selector: modchain.SelData, Operand: operand}}
	xor := modchain.XORChecksum{FromIdx: 0, ToIdx: 3, ResultIdx: 4, InitXOR: 0x00}
	mc, err := modchain.New(ops, xor, disabledCRC8())
	require.NoError(t, err)
	spec := jobspec.JobSpec{SrcIdx: 1, DstIdx: 2, ModChain: mc}
	_, err = g.Add(codec.EncodeRequest(spec))
	require.NoError(t, err)

	in := &frame.Buffer{Frame: frame.Frame{Dlc: 5, Data: [8]byte{1, 1, 1, 1, 1}}}
	sub.Deliver(1, in)

	require.Len(t, sub.Sent, 1)
	want := [8]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xAA ^ 0xBB ^ 0xCC ^ 0xDD, 0, 0, 0}
	require.Equal(t, want, sub.Sent[0].Frame.Data)
}

// S4: down destination.
func TestScenarioS4DownDestination(t *testing.T) {
	g, sub := newTestGateway(t)
	j, err := g.Add(codec.EncodeRequest(passthroughSpec(1, 2)))
	require.NoError(t, err)

	sub.SetUp(2, false)
	sub.Deliver(1, &frame.Buffer{Frame: frame.Frame{ID: 1, Dlc: 8}})

	require.Empty(t, sub.Sent)
	require.Equal(t, uint32(1), j.Dropped())
	require.Equal(t, uint32(0), j.Handled())
}

// S5: lifecycle eviction.
func TestScenarioS5LifecycleEviction(t *testing.T) {
	g, sub := newTestGateway(t)
	sub.SetUp(3, true)
	sub.SetInterfaceType(3, substrate.InterfaceTypeBus)

	_, err := g.Add(codec.EncodeRequest(passthroughSpec(1, 3)))
	require.NoError(t, err)
	_, err = g.Add(codec.EncodeRequest(passthroughSpec(3, 2)))
	require.NoError(t, err)
	require.Len(t, g.Snapshot(), 2)

	sub.FireEvent(substrate.Event{Kind: substrate.EventGone, Iface: 3})
	require.Empty(t, g.Snapshot())

	sub.Deliver(1, &frame.Buffer{Frame: frame.Frame{ID: 1, Dlc: 8}})
	require.Empty(t, sub.Sent, "no forwarding after the referenced interface is gone")
}

// S6: remove-all sentinel.
func TestScenarioS6RemoveAllSentinel(t *testing.T) {
	g, sub := newTestGateway(t)
	g.Add(codec.EncodeRequest(passthroughSpec(1, 2)))
	g.Add(codec.EncodeRequest(passthroughSpec(2, 1)))
	require.Len(t, g.Snapshot(), 2)

	delSpec := jobspec.JobSpec{ModChain: mustEmptyChain()}
	require.NoError(t, g.Del(codec.EncodeRequest(delSpec)))
	require.Empty(t, g.Snapshot())

	sub.Deliver(1, &frame.Buffer{Frame: frame.Frame{ID: 1, Dlc: 8}})
	require.Empty(t, sub.Sent)
}

func TestDelNotFound(t *testing.T) {
	g, _ := newTestGateway(t)
	err := g.Del(codec.EncodeRequest(passthroughSpec(1, 2)))
	require.Error(t, err)
}

// Invariant 1: loop suppression, src == dst.
func TestLoopSuppression(t *testing.T) {
	g, sub := newTestGateway(t)
	j, err := g.Add(codec.EncodeRequest(passthroughSpec(1, 1)))
	require.NoError(t, err)

	sub.Deliver(1, &frame.Buffer{Frame: frame.Frame{ID: 1, Dlc: 8}})
	require.Len(t, sub.Sent, 1)

	// Re-deliver the forwarded buffer as if the substrate looped it back:
	// the gateway's own origin marker must suppress it.
	sub.Deliver(1, sub.Sent[0])
	require.Len(t, sub.Sent, 1, "a frame already bearing this gateway's origin marker must not be re-forwarded")
	require.Equal(t, uint32(1), j.Handled())
	require.Equal(t, uint32(0), j.Dropped(), "loop suppression returns without touching either counter")
}

// Invariant 5 / 6: after remove, no further frames forward; counters never
// decrease across the sequence.
func TestRegistryLivenessAndCounterMonotonicity(t *testing.T) {
	g, sub := newTestGateway(t)
	spec := passthroughSpec(1, 2)
	j, err := g.Add(codec.EncodeRequest(spec))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		sub.Deliver(1, &frame.Buffer{Frame: frame.Frame{ID: uint32(i), Dlc: 8}})
	}
	require.Equal(t, uint32(3), j.Handled())

	require.NoError(t, g.Del(codec.EncodeRequest(spec)))
	sub.Deliver(1, &frame.Buffer{Frame: frame.Frame{ID: 99, Dlc: 8}})
	require.Len(t, sub.Sent, 3, "no further frame is forwarded once remove_first has returned")
	require.Equal(t, uint32(3), j.Handled(), "a removed job's counters are not mutated further")
}

func mustEmptyChain() modchain.ModChain {
	mc, _ := modchain.New(nil, disabledXOR(), disabledCRC8())
	return mc
}
