package tm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FormatInstruction renders an instruction at a location in the TM text form
func FormatInstruction(loc int, in Instruction) string {
	line := fmt.Sprintf("%3d:  %5s  %s", loc, in.Op, in.Operands())
	if in.Remark != "" {
		line += "\t" + in.Remark
	}

	return line
}

// WriteTo writes the code in the TM text form: comment lines start with `*`
// and every instruction is prefixed by its location
func (c *Code) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64

	emit := func(s string) error {
		n, err := bw.WriteString(s + "\n")
		written += int64(n)
		return err
	}

	for i := 0; i <= len(c.instrs); i++ {
		for _, comment := range c.comments[i] {
			if err := emit("* " + comment); err != nil {
				return written, err
			}
		}

		if i < len(c.instrs) {
			if err := emit(FormatInstruction(i, c.instrs[i])); err != nil {
				return written, err
			}
		}
	}

	return written, bw.Flush()
}

// String returns the TM text form of the code
func (c *Code) String() string {
	var sb strings.Builder
	c.WriteTo(&sb)
	return sb.String()
}

// -----------------------------------------------------------------------------

// ReadProgram reads instructions in the TM text form.  Instructions are placed
// at the location they are labeled with; unlabeled gaps hold HALT.
func ReadProgram(r io.Reader) ([]Instruction, error) {
	var prog []Instruction

	sc := bufio.NewScanner(r)
	for lineNumber := 1; sc.Scan(); lineNumber++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		loc, in, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}

		for len(prog) <= loc {
			prog = append(prog, RO(HALT, 0, 0, 0, ""))
		}
		prog[loc] = in
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return prog, nil
}

func parseLine(line string) (int, Instruction, error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return 0, Instruction{}, fmt.Errorf("missing location in %q", line)
	}

	loc, err := strconv.Atoi(strings.TrimSpace(line[:colon]))
	if err != nil || loc < 0 {
		return 0, Instruction{}, fmt.Errorf("bad location in %q", line)
	}

	rest := line[colon+1:]
	remark := ""
	if tab := strings.IndexByte(rest, '\t'); tab >= 0 {
		remark = strings.TrimSpace(rest[tab+1:])
		rest = rest[:tab]
	}

	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return 0, Instruction{}, fmt.Errorf("missing operands in %q", line)
	}

	op, ok := LookupOpcode(fields[0])
	if !ok {
		return 0, Instruction{}, fmt.Errorf("unknown opcode %s", fields[0])
	}

	in := Instruction{Op: op, Remark: remark}
	if op.IsRM() {
		_, err = fmt.Sscanf(fields[1], "%d,%d(%d)", &in.R, &in.D, &in.S)
	} else {
		_, err = fmt.Sscanf(fields[1], "%d,%d,%d", &in.R, &in.S, &in.T)
	}

	if err != nil {
		return 0, Instruction{}, fmt.Errorf("bad operands %q: %w", fields[1], err)
	}

	if len(fields) > 2 && remark == "" {
		remark = strings.Join(fields[2:], " ")
		in.Remark = remark
	}

	return loc, in, nil
}
