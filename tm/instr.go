package tm

import "fmt"

// Registers of the machine
const (
	AC  = 0 // accumulator
	AC1 = 1 // second accumulator
	GP  = 4 // global pointer, always 0
	FP  = 5 // frame pointer
	SP  = 6 // stack pointer, names the next free slot
	PC  = 7 // program counter

	NumRegs = 8
)

// Opcode is a TM operation
type Opcode int

// Register-only operations take three registers: `op r,s,t`
const (
	HALT Opcode = iota
	IN
	OUT
	ADD
	SUB
	MUL
	DIV

	// Register-memory operations take a register and an address `d(s)`: `op r,d(s)`
	LD
	ST
	LDA
	LDC
	JLT
	JLE
	JGT
	JGE
	JEQ
	JNE
)

var opNames = [...]string{
	HALT: "HALT",
	IN:   "IN",
	OUT:  "OUT",
	ADD:  "ADD",
	SUB:  "SUB",
	MUL:  "MUL",
	DIV:  "DIV",
	LD:   "LD",
	ST:   "ST",
	LDA:  "LDA",
	LDC:  "LDC",
	JLT:  "JLT",
	JLE:  "JLE",
	JGT:  "JGT",
	JGE:  "JGE",
	JEQ:  "JEQ",
	JNE:  "JNE",
}

func (op Opcode) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}

	return fmt.Sprintf("OP%d", int(op))
}

// IsRM reports whether the operation uses the register-memory form
func (op Opcode) IsRM() bool {
	return op >= LD
}

// LookupOpcode returns the operation with the given mnemonic
func LookupOpcode(name string) (Opcode, bool) {
	for i, n := range opNames {
		if n == name {
			return Opcode(i), true
		}
	}

	return 0, false
}

// Instruction is a single TM instruction.  Register-only instructions use R,
// S and T as registers.  Register-memory instructions use R as the register,
// D as the offset or immediate, and S as the base register.
type Instruction struct {
	Op Opcode
	R  int
	D  int
	S  int
	T  int

	// Remark is the inline comment written after the instruction
	Remark string
}

// RO builds a register-only instruction
func RO(op Opcode, r, s, t int, remark string) Instruction {
	return Instruction{Op: op, R: r, S: s, T: t, Remark: remark}
}

// RM builds a register-memory instruction
func RM(op Opcode, r, d, s int, remark string) Instruction {
	return Instruction{Op: op, R: r, D: d, S: s, Remark: remark}
}

// Operands renders the operand field of the instruction
func (in Instruction) Operands() string {
	if in.Op.IsRM() {
		return fmt.Sprintf("%d,%d(%d)", in.R, in.D, in.S)
	}

	return fmt.Sprintf("%d,%d,%d", in.R, in.S, in.T)
}

func (in Instruction) String() string {
	return in.Op.String() + " " + in.Operands()
}

// Same reports whether two instructions are equal ignoring their remarks
func (in Instruction) Same(other Instruction) bool {
	in.Remark, other.Remark = "", ""
	return in == other
}
