package emu

// AluOp identifies an ALU operation.
type AluOp uint8

// ALU operations, per spec.md §4.2.
const (
	AluADD AluOp = iota
	AluSUB
	AluAND
	AluOR
	AluNOR
	AluXOR
	AluSLT
	AluSLTU
	AluSLL
	AluSRL
	AluSRA
)

// AluResult is the pure output of one ALU evaluation: the result plus the
// zero/overflow/carry flags.
type AluResult struct {
	Value    uint32
	Zero     bool
	Overflow bool
	Carry    bool
}

// Eval evaluates a two-operand ALU operation. shamt is only consulted for
// the shift operations (SLL/SRL/SRA); callers pass 0 otherwise.
func Eval(op AluOp, a, b uint32, shamt uint8) AluResult {
	var res AluResult

	switch op {
	case AluADD:
		sum := a + b
		res.Value = sum
		res.Carry = sum < a
		res.Overflow = addOverflow(a, b, sum)
	case AluSUB:
		diff := a - b
		res.Value = diff
		res.Carry = a < b
		res.Overflow = addOverflow(a, ^b+1, diff)
	case AluAND:
		res.Value = a & b
	case AluOR:
		res.Value = a | b
	case AluNOR:
		res.Value = ^(a | b)
	case AluXOR:
		res.Value = a ^ b
	case AluSLT:
		if int32(a) < int32(b) {
			res.Value = 1
		}
	case AluSLTU:
		if a < b {
			res.Value = 1
		}
	case AluSLL:
		res.Value = b << (shamt & 0x1F)
	case AluSRL:
		res.Value = b >> (shamt & 0x1F)
	case AluSRA:
		res.Value = uint32(int32(b) >> (shamt & 0x1F))
	}

	res.Zero = res.Value == 0
	return res
}

// addOverflow is the signed-overflow predicate for addition: true when
// both operands share a sign and the result's sign differs from theirs.
func addOverflow(a, b, sum uint32) bool {
	signA := a >> 31
	signB := b >> 31
	signSum := sum >> 31
	return signA == signB && signA != signSum
}

// MulResult is the 64-bit product of a signed or unsigned multiply, split
// into HI (high word) and LO (low word) as MULT/MULTU leave it.
type MulResult struct {
	Hi uint32
	Lo uint32
}

// Mult computes the signed 64-bit product of a and b.
func Mult(a, b int32) MulResult {
	product := int64(a) * int64(b)
	return MulResult{Hi: uint32(uint64(product) >> 32), Lo: uint32(uint64(product))}
}

// MultU computes the unsigned 64-bit product of a and b.
func MultU(a, b uint32) MulResult {
	product := uint64(a) * uint64(b)
	return MulResult{Hi: uint32(product >> 32), Lo: uint32(product)}
}

// DivResult is the quotient/remainder pair DIV/DIVU leave in LO/HI.
type DivResult struct {
	Quotient  uint32
	Remainder uint32
}

// Div computes signed division. Division by zero leaves both fields 0,
// matching the architecturally-undefined-but-must-not-crash behavior
// spec.md §7 requires of the engine generally.
func Div(a, b int32) DivResult {
	if b == 0 {
		return DivResult{}
	}
	return DivResult{Quotient: uint32(a / b), Remainder: uint32(a % b)}
}

// DivU computes unsigned division. Division by zero leaves both fields 0.
func DivU(a, b uint32) DivResult {
	if b == 0 {
		return DivResult{}
	}
	return DivResult{Quotient: a / b, Remainder: a % b}
}
