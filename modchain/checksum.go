package modchain

import "framegw/frame"

// CRC8Profile selects a canned CRC-8 polynomial, or marks the stage's
// table as an opaque, caller-supplied one. spec.md §9 leaves open whether
// the wire's profile byte selects a polynomial or is purely descriptive;
// this implementation resolves it both ways: NewCRC8Checksum generates
// Table from a canonical polynomial for recognized profiles and leaves it
// zero for the others, while a stage built directly (as codec.Decode does)
// keeps Table exactly as given for every profile, so the byte and the
// table round-trip through add/list either way.
type CRC8Profile uint8

const (
	// CRC8ProfileOpaque means Table is caller-supplied and must not be
	// regenerated; the profile byte is preserved but otherwise unused.
	CRC8ProfileOpaque CRC8Profile = iota
	// CRC8ProfileGeneric is polynomial 0x07 (CRC-8/SMBUS), the
	// byte-order-invariant default most CAN gateway deployments use.
	CRC8ProfileGeneric
	// CRC8ProfileSAEJ1850 is polynomial 0x1D (SAE J1850).
	CRC8ProfileSAEJ1850
	// CRC8ProfileCDMA2000 is polynomial 0x9B (CRC-8/CDMA2000).
	CRC8ProfileCDMA2000
)

var crc8Polynomials = map[CRC8Profile]byte{
	CRC8ProfileGeneric:  0x07,
	CRC8ProfileSAEJ1850: 0x1D,
	CRC8ProfileCDMA2000: 0x9B,
}

// BuildCRC8Table returns the 256-entry lookup table for a given
// polynomial, MSB-first, matching the bit order the CAN gateway's CRC8
// stage expects.
func BuildCRC8Table(poly byte) (table [256]byte) {
	for i := 0; i < 256; i++ {
		crc := byte(i)
		for b := 0; b < 8; b++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// crc8 computes the CRC-8 of data using table, seeded with init.
func crc8(table *[256]byte, init byte, data []byte) byte {
	crc := init
	for _, b := range data {
		crc = table[crc^b]
	}
	return crc
}

// XORChecksum writes ResultIdx = InitXOR XOR data[FromIdx] XOR ... XOR
// data[ToIdx]. A sentinel FromIdx of frame.DisabledSentinel marks the
// stage as off.
type XORChecksum struct {
	FromIdx, ToIdx, ResultIdx int8
	InitXOR                   byte
}

// Enabled reports whether this stage is configured.
func (c XORChecksum) Enabled() bool {
	return c.FromIdx != frame.DisabledSentinel
}

// validIndices reports whether all three indices are within the domain
// [frame.IndexMin, frame.IndexMax]. This is the only build-time check
// spec.md §4.1(c) permits — dlc-relative resolution happens per frame.
func validIndices(idxs ...int8) bool {
	for _, idx := range idxs {
		if idx < frame.IndexMin || idx > frame.IndexMax {
			return false
		}
	}
	return true
}

func (c XORChecksum) validDomain() bool {
	return validIndices(c.FromIdx, c.ToIdx, c.ResultIdx)
}

// apply resolves the stage's indices against f's current dlc and writes
// the XOR checksum. If any index falls outside [0, dlc) after
// resolution, the stage is a silent no-op for this frame.
func (c XORChecksum) apply(f *frame.Frame) {
	if !c.Enabled() {
		return
	}
	from, ok1 := frame.ResolveIndex(c.FromIdx, f.Dlc)
	to, ok2 := frame.ResolveIndex(c.ToIdx, f.Dlc)
	result, ok3 := frame.ResolveIndex(c.ResultIdx, f.Dlc)
	if !ok1 || !ok2 || !ok3 || from > to {
		return
	}
	sum := c.InitXOR
	for i := from; i <= to; i++ {
		sum ^= f.Data[i]
	}
	f.Data[result] = sum
}

// CRC8Checksum writes ResultIdx = FinalXOR XOR CRC8(Table, InitCRC,
// data[FromIdx..=ToIdx]). A sentinel FromIdx of frame.DisabledSentinel
// marks the stage as off.
type CRC8Checksum struct {
	FromIdx, ToIdx, ResultIdx int8
	InitCRC                   byte
	FinalXOR                  byte
	Profile                   CRC8Profile
	Table                     [256]byte
}

// NewCRC8Checksum builds a stage from a canned profile, generating its
// table. Use CRC8ProfileOpaque and set Table directly to supply a custom
// table.
func NewCRC8Checksum(from, to, result int8, initCRC, finalXOR byte, profile CRC8Profile) CRC8Checksum {
	c := CRC8Checksum{
		FromIdx: from, ToIdx: to, ResultIdx: result,
		InitCRC: initCRC, FinalXOR: finalXOR, Profile: profile,
	}
	if poly, ok := crc8Polynomials[profile]; ok {
		c.Table = BuildCRC8Table(poly)
	}
	return c
}

// Enabled reports whether this stage is configured.
func (c CRC8Checksum) Enabled() bool {
	return c.FromIdx != frame.DisabledSentinel
}

func (c CRC8Checksum) validDomain() bool {
	return validIndices(c.FromIdx, c.ToIdx, c.ResultIdx)
}

// apply resolves the stage's indices against f's current dlc and writes
// the CRC8 checksum. Silent no-op if any resolved index is out of range.
func (c CRC8Checksum) apply(f *frame.Frame) {
	if !c.Enabled() {
		return
	}
	from, ok1 := frame.ResolveIndex(c.FromIdx, f.Dlc)
	to, ok2 := frame.ResolveIndex(c.ToIdx, f.Dlc)
	result, ok3 := frame.ResolveIndex(c.ResultIdx, f.Dlc)
	if !ok1 || !ok2 || !ok3 || from > to {
		return
	}
	sum := c.FinalXOR ^ crc8(&c.Table, c.InitCRC, f.Data[from:to+1])
	f.Data[result] = sum
}

// disabledXOR and disabledCRC8 are the canonical zero-value
// representations of a disabled stage, used when canonicalizing a
// ModChain for byte-equal comparison.
func disabledXOR() XORChecksum {
	return XORChecksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
}

func disabledCRC8() CRC8Checksum {
	return CRC8Checksum{FromIdx: frame.DisabledSentinel, ToIdx: frame.DisabledSentinel, ResultIdx: frame.DisabledSentinel}
}
