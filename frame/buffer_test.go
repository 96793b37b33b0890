package frame

import "testing"

func TestBufferStampAndOrigin(t *testing.T) {
	var b Buffer
	if b.HasGatewayOrigin() {
		t.Fatal("zero-value buffer should not carry the gateway origin marker")
	}
	b.Stamp(7)
	if !b.HasGatewayOrigin() {
		t.Errorf("Stamp did not set the origin marker")
	}
	if b.OutIface != 7 {
		t.Errorf("OutIface = %d, want 7", b.OutIface)
	}
}

func TestBufferClearTimestamp(t *testing.T) {
	var b Buffer
	b.Timestamp = b.Timestamp.Add(1)
	b.ClearTimestamp()
	if !b.Timestamp.IsZero() {
		t.Errorf("ClearTimestamp left a non-zero timestamp")
	}
}
