package tm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// DefaultDataSize is the default number of words of data memory
const DefaultDataSize = 1024

// Runtime faults of the machine
var (
	ErrInstrRange = errors.New("instruction address out of range")
	ErrDataRange  = errors.New("data address out of range")
	ErrDivByZero  = errors.New("division by zero")
	ErrStepLimit  = errors.New("step limit exceeded")
	ErrBadInput   = errors.New("bad input")
)

// Machine is a TM simulator.  Registers start at zero except that data
// memory location 0 holds the highest data address.
type Machine struct {
	Reg  [NumRegs]int
	IMem []Instruction
	DMem []int

	// Halted is set once a HALT instruction executes
	Halted bool

	// Steps counts the executed instructions
	Steps int

	in  *bufio.Reader
	out io.Writer
}

// NewMachine creates a machine loaded with a program.  IN reads whitespace
// separated integers from in and OUT writes one integer per line to out.
func NewMachine(prog []Instruction, dataSize int, in io.Reader, out io.Writer) *Machine {
	if dataSize <= 0 {
		dataSize = DefaultDataSize
	}

	m := &Machine{
		IMem: prog,
		DMem: make([]int, dataSize),
		in:   bufio.NewReader(in),
		out:  out,
	}
	m.DMem[0] = dataSize - 1
	return m
}

// Run executes instructions until the machine halts, faults, or has executed
// maxSteps instructions (zero means no limit)
func (m *Machine) Run(maxSteps int) error {
	for !m.Halted {
		if maxSteps > 0 && m.Steps >= maxSteps {
			return ErrStepLimit
		}

		if err := m.Step(); err != nil {
			return err
		}
	}

	return nil
}

// Step executes a single instruction
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}

	pc := m.Reg[PC]
	if pc < 0 || pc >= len(m.IMem) {
		return fmt.Errorf("%w: %d", ErrInstrRange, pc)
	}

	in := m.IMem[pc]
	if !validReg(in.R) || !validReg(in.S) || !validReg(in.T) {
		return fmt.Errorf("bad register in %s at %d", in, pc)
	}

	m.Reg[PC] = pc + 1
	m.Steps++

	if !in.Op.IsRM() {
		return m.execRO(pc, in)
	}

	return m.execRM(pc, in)
}

func (m *Machine) execRO(pc int, in Instruction) error {
	r, s, t := &m.Reg[in.R], m.Reg[in.S], m.Reg[in.T]

	switch in.Op {
	case HALT:
		m.Halted = true
	case IN:
		var v int
		if _, err := fmt.Fscan(m.in, &v); err != nil {
			return fmt.Errorf("%w at %d: %s", ErrBadInput, pc, err)
		}
		*r = v
	case OUT:
		if _, err := fmt.Fprintf(m.out, "%d\n", *r); err != nil {
			return err
		}
	case ADD:
		*r = s + t
	case SUB:
		*r = s - t
	case MUL:
		*r = s * t
	case DIV:
		if t == 0 {
			return fmt.Errorf("%w at %d", ErrDivByZero, pc)
		}
		*r = s / t
	default:
		return fmt.Errorf("unknown operation %s at %d", in.Op, pc)
	}

	return nil
}

func (m *Machine) execRM(pc int, in Instruction) error {
	r := &m.Reg[in.R]
	addr := in.D + m.Reg[in.S]

	switch in.Op {
	case LD, ST:
		if addr < 0 || addr >= len(m.DMem) {
			return fmt.Errorf("%w at %d: %d", ErrDataRange, pc, addr)
		}

		if in.Op == LD {
			*r = m.DMem[addr]
		} else {
			m.DMem[addr] = *r
		}
	case LDA:
		*r = addr
	case LDC:
		*r = in.D
	case JLT, JLE, JGT, JGE, JEQ, JNE:
		if jumpTaken(in.Op, *r) {
			m.Reg[PC] = addr
		}
	default:
		return fmt.Errorf("unknown operation %s at %d", in.Op, pc)
	}

	return nil
}

func jumpTaken(op Opcode, v int) bool {
	switch op {
	case JLT:
		return v < 0
	case JLE:
		return v <= 0
	case JGT:
		return v > 0
	case JGE:
		return v >= 0
	case JEQ:
		return v == 0
	case JNE:
		return v != 0
	}

	return false
}

func validReg(r int) bool {
	return r >= 0 && r < NumRegs
}
