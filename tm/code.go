package tm

import "cminus/report"

// Patch records a reserved slot that was filled with a jump
type Patch struct {
	Slot   int
	Target int
}

// Code is an append-only buffer of instructions.  Slots can be reserved
// during emission and patched once their jump target is known.
type Code struct {
	instrs []Instruction

	// reserved marks slots that are waiting for a patch
	reserved map[int]bool

	// comments holds the standalone comment lines emitted before each
	// instruction index
	comments map[int][]string

	patches []Patch
}

// NewCode creates an empty code buffer
func NewCode() *Code {
	return &Code{
		reserved: make(map[int]bool),
		comments: make(map[int][]string),
	}
}

// Loc returns the index the next emitted instruction will occupy
func (c *Code) Loc() int {
	return len(c.instrs)
}

// Emit appends an instruction and returns its index
func (c *Code) Emit(in Instruction) int {
	c.instrs = append(c.instrs, in)
	return len(c.instrs) - 1
}

// EmitRO appends a register-only instruction
func (c *Code) EmitRO(op Opcode, r, s, t int, remark string) int {
	return c.Emit(RO(op, r, s, t, remark))
}

// EmitRM appends a register-memory instruction
func (c *Code) EmitRM(op Opcode, r, d, s int, remark string) int {
	return c.Emit(RM(op, r, d, s, remark))
}

// EmitJump appends a jump to an absolute target as a pc-relative
// register-memory instruction
func (c *Code) EmitJump(op Opcode, r, target int, remark string) int {
	return c.Emit(RM(op, r, target-(c.Loc()+1), PC, remark))
}

// Comment attaches a standalone comment line before the next instruction
func (c *Code) Comment(text string) {
	loc := c.Loc()
	c.comments[loc] = append(c.comments[loc], text)
}

// Reserve appends a placeholder slot and returns its index
func (c *Code) Reserve() int {
	slot := c.Emit(RO(HALT, 0, 0, 0, "placeholder"))
	c.reserved[slot] = true
	return slot
}

// Patch fills a reserved slot.  Each slot must be patched exactly once.
func (c *Code) Patch(slot int, in Instruction) {
	if !c.reserved[slot] {
		report.ICE("patch of slot %d which is not awaiting a patch", slot)
	}

	delete(c.reserved, slot)
	c.instrs[slot] = in
}

// PatchJump fills a reserved slot with a pc-relative jump to an absolute
// target
func (c *Code) PatchJump(slot int, op Opcode, r, target int, remark string) {
	c.Patch(slot, RM(op, r, target-(slot+1), PC, remark))
	c.patches = append(c.patches, Patch{Slot: slot, Target: target})
}

// Pending returns the number of reserved slots not yet patched
func (c *Code) Pending() int {
	return len(c.reserved)
}

// Patches returns every backpatched jump in patch order
func (c *Code) Patches() []Patch {
	return c.patches
}

// Instructions returns the emitted instructions
func (c *Code) Instructions() []Instruction {
	return c.instrs
}

// At returns the instruction at index i
func (c *Code) At(i int) Instruction {
	return c.instrs[i]
}

// Len returns the number of emitted instructions
func (c *Code) Len() int {
	return len(c.instrs)
}

// Comments returns the standalone comments emitted before instruction i
func (c *Code) Comments(i int) []string {
	return c.comments[i]
}
