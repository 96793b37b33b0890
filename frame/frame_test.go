package frame

import "testing"

func TestFrameCanonEqual(t *testing.T) {
	a := Frame{ID: 1, Dlc: 4, _pad: [3]byte{1, 2, 3}, Data: [8]byte{1, 2, 3, 4}}
	b := Frame{ID: 1, Dlc: 4, _pad: [3]byte{9, 9, 9}, Data: [8]byte{1, 2, 3, 4}}

	if !a.Equal(b) {
		t.Errorf("frames differing only in padding should be equal")
	}
	if a.Canon()._pad != ([3]byte{}) {
		t.Errorf("Canon did not zero padding")
	}
}

func TestFrameWordRoundTrip(t *testing.T) {
	var f Frame
	f.SetWord(0x0102030405060708)
	if got := f.Word(); got != 0x0102030405060708 {
		t.Errorf("Word() = %#x, want %#x", got, uint64(0x0102030405060708))
	}
	if f.Data != ([8]byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("unexpected byte layout: %v", f.Data)
	}
}

func TestResolveIndex(t *testing.T) {
	tests := []struct {
		name       string
		idx        int8
		dlc        uint8
		wantOffset int
		wantOK     bool
	}{
		{"absolute in range", 2, 8, 2, true},
		{"absolute out of range", 8, 8, 0, false},
		{"relative last byte", -1, 8, 7, true},
		{"relative with small dlc", -1, 3, 2, true},
		{"relative underflows", -8, 3, 0, false},
		{"negative boundary", -8, 8, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, ok := ResolveIndex(tt.idx, tt.dlc)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", offset, tt.wantOffset)
			}
		})
	}
}

func TestFilterMatch(t *testing.T) {
	f := Filter{ID: 0x100, Mask: 0xF00}
	if !f.Match(0x123) {
		t.Errorf("expected match for id 0x123 under mask 0xF00")
	}
	if f.Match(0x223) {
		t.Errorf("did not expect match for id 0x223 under mask 0xF00")
	}

	all := Filter{}
	if !all.Match(0xDEADBEEF) {
		t.Errorf("zero filter should match everything")
	}
}
