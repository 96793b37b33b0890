package modchain

import "framegw/frame"

// ModChain is the ordered sequence of up to frame.MaxOperators operators,
// followed by an optional XOR checksum stage and an optional CRC8
// checksum stage (spec.md §3, §4.1). The zero value is an empty,
// checksum-disabled chain.
type ModChain struct {
	ops  []Operator
	xor  XORChecksum
	crc8 CRC8Checksum
}

// New builds a ModChain from an operator list and checksum configs,
// validating per spec.md §4.1. If ops is empty, the checksum stages are
// silently ignored (they fire only when at least one modification has
// happened).
func New(ops []Operator, xor XORChecksum, crc8 CRC8Checksum) (ModChain, error) {
	if len(ops) > frame.MaxOperators {
		return ModChain{}, errTooManyOperators
	}
	for _, op := range ops {
		if !op.Valid() {
			return ModChain{}, errInvalidOperator
		}
	}
	if len(ops) > 0 && xor.Enabled() && !xor.validDomain() {
		return ModChain{}, errIndexDomain
	}
	if len(ops) > 0 && crc8.Enabled() && !crc8.validDomain() {
		return ModChain{}, errIndexDomain
	}

	mc := ModChain{ops: append([]Operator(nil), ops...)}
	if len(ops) == 0 {
		mc.xor = disabledXOR()
		mc.crc8 = disabledCRC8()
		return mc, nil
	}
	mc.xor = xor
	mc.crc8 = crc8
	return mc, nil
}

// Len returns the number of operators in the chain.
func (mc ModChain) Len() int { return len(mc.ops) }

// Empty reports whether the chain has no operators (checksum stages are
// then necessarily inert).
func (mc ModChain) Empty() bool { return len(mc.ops) == 0 }

// Operators returns the chain's operators in apply order. Callers must
// not mutate the returned slice.
func (mc ModChain) Operators() []Operator { return mc.ops }

// XOR returns the chain's XOR checksum stage configuration.
func (mc ModChain) XOR() XORChecksum { return mc.xor }

// CRC8 returns the chain's CRC8 checksum stage configuration.
func (mc ModChain) CRC8() CRC8Checksum { return mc.crc8 }

// Apply runs every operator in chain order against f, then — unless the
// chain is empty — runs the XOR stage followed by the CRC8 stage, each a
// silent no-op if its resolved index range falls outside the frame's
// current dlc.
func (mc ModChain) Apply(f *frame.Frame) {
	for _, op := range mc.ops {
		apply(op, f)
	}
	if mc.Empty() {
		return
	}
	mc.xor.apply(f)
	mc.crc8.apply(f)
}

// canonical is the fixed-shape, comparable representation of a ModChain:
// operator slots beyond Len are zero, operand frame padding is zeroed,
// and disabled checksum stages carry the DISABLED sentinel in every
// index field — matching spec.md §4.1's equality definition.
type canonical struct {
	count int
	ops   [frame.MaxOperators]Operator
	xor   XORChecksum
	crc8  CRC8Checksum
}

func (mc ModChain) canon() canonical {
	var c canonical
	c.count = len(mc.ops)
	for i, op := range mc.ops {
		op.Operand = op.Operand.Canon()
		c.ops[i] = op
	}
	if mc.Empty() {
		c.xor = disabledXOR()
		c.crc8 = disabledCRC8()
		return c
	}
	c.xor = mc.xor
	if !c.xor.Enabled() {
		c.xor = disabledXOR()
	}
	c.crc8 = mc.crc8
	if !c.crc8.Enabled() {
		// Zero the table too: a disabled stage's configuration is
		// entirely the sentinel, regardless of what table it was
		// last built with.
		c.crc8 = disabledCRC8()
	}
	return c
}

// Equal reports whether two ModChains are equal by their canonical byte
// representation (spec.md §4.1, Equality).
func (mc ModChain) Equal(other ModChain) bool {
	return mc.canon() == other.canon()
}

var (
	errTooManyOperators = newBuildError("too many operators")
	errInvalidOperator  = newBuildError("operator has empty selector or unrecognized kind")
	errIndexDomain      = newBuildError("checksum index out of [-8, 7] domain")
)

// buildError is a minimal, dependency-free error used only for ModChain
// construction failures; callers needing a gwerr.Kind wrap these at the
// codec boundary.
type buildError struct{ msg string }

func newBuildError(msg string) *buildError { return &buildError{msg: msg} }
func (e *buildError) Error() string         { return e.msg }
