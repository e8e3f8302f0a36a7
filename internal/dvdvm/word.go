package dvdvm

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
	"github.com/pkg/errors"
)

// WordSize is the length of a DVD navigation command.
const WordSize = 8

// Opcodes after the conditional field has been stripped (see opcodeMask).
const (
	OpNop        uint16 = 0x0000
	OpGotoLine   uint16 = 0x0001
	OpBreak      uint16 = 0x0002
	OpNop2       uint16 = 0x2000
	OpLinkPGCN   uint16 = 0x2004
	OpLinkCN     uint16 = 0x2007
	OpJumpTT     uint16 = 0x3002
	OpJumpVTSPTT uint16 = 0x3005
	OpJumpSS     uint16 = 0x3006
	OpCallSS     uint16 = 0x3008
	OpSetGPRMMD  uint16 = 0x5300
	OpSetHLBTNN  uint16 = 0x5600
)

const (
	opcodeMask    uint16 = 0xFF0F
	testMask      uint16 = 0x70
	testValueFlag uint16 = 0x80
)

// Test is the comparison a conditional command applies before dispatch.
type Test uint8

const (
	TestNone         Test = 0
	TestAnd          Test = 1
	TestEqual        Test = 2
	TestNotEqual     Test = 3
	TestGreaterEqual Test = 4
	TestGreater      Test = 5
	TestLessEqual    Test = 6
	TestLess         Test = 7
)

var testSymbols = [...]string{
	TestNone:         "",
	TestAnd:          "&",
	TestEqual:        "==",
	TestNotEqual:     "!=",
	TestGreaterEqual: ">=",
	TestGreater:      ">",
	TestLessEqual:    "<=",
	TestLess:         "<",
}

func (t Test) String() string {
	if int(t) < len(testSymbols) {
		return testSymbols[t]
	}
	return "?"
}

// Eval applies the relation to lhs and rhs. TestNone always passes.
func (t Test) Eval(lhs, rhs uint16) bool {
	switch t {
	case TestAnd:
		return lhs&rhs != 0
	case TestEqual:
		return lhs == rhs
	case TestNotEqual:
		return lhs != rhs
	case TestGreaterEqual:
		return lhs >= rhs
	case TestGreater:
		return lhs > rhs
	case TestLessEqual:
		return lhs <= rhs
	case TestLess:
		return lhs < rhs
	}
	return true
}

// Word is a decoded 8-byte DVD command.
type Word struct {
	Opcode   uint16
	Operands [6]byte
}

// DecodeWord unpacks a big-endian command. Anything but exactly 8 bytes is rejected.
func DecodeWord(data []byte) (Word, error) {
	var w Word
	if len(data) != WordSize {
		return w, errors.Errorf("command is %d bytes, want %d", len(data), WordSize)
	}
	if err := restruct.Unpack(data, binary.BigEndian, &w); err != nil {
		return w, errors.Wrap(err, "unpack command")
	}
	return w, nil
}

// Byte returns byte i of the encoded 8-byte command.
func (w Word) Byte(i int) byte {
	switch {
	case i == 0:
		return byte(w.Opcode >> 8)
	case i == 1:
		return byte(w.Opcode)
	case i < WordSize:
		return w.Operands[i-2]
	}
	return 0
}

// Uint16 returns the big-endian value of bytes i and i+1.
func (w Word) Uint16(i int) uint16 {
	return uint16(w.Byte(i))<<8 | uint16(w.Byte(i+1))
}

func (w Word) Bytes() []byte {
	out := make([]byte, WordSize)
	binary.BigEndian.PutUint16(out, w.Opcode)
	copy(out[2:], w.Operands[:])
	return out
}

// HasCondition reports whether the command carries a register test.
func (w Word) HasCondition() bool {
	return w.Opcode&0xF0 != 0
}

func (w Word) Test() Test {
	return Test((w.Opcode & testMask) >> 4)
}

func (w Word) Immediate() bool {
	return w.Opcode&testValueFlag != 0
}

// Op is the opcode with the conditional field stripped.
func (w Word) Op() uint16 {
	return w.Opcode & opcodeMask
}

type operandGroup uint8

const (
	groupDefault operandGroup = iota
	groupJump
	groupArith
)

// operandLayout says where the two comparison operands of a conditional
// command live. cr2 is 16 bits wide unless narrow is set.
type operandLayout struct {
	cr1      int
	cr1Alt   int
	cr2      int
	narrow   bool
	register bool
}

var operandLayouts = [...]operandLayout{
	groupDefault: {cr1: 3, cr1Alt: 3, cr2: 4},
	groupJump:    {cr1: 6, cr1Alt: 6, cr2: 7, narrow: true, register: true},
	groupArith:   {cr1: 4, cr1Alt: 5, cr2: 6},
}

func groupOf(opcode uint16) operandGroup {
	switch opcode >> 12 {
	case 3, 4, 5:
		return groupJump
	case 6, 7:
		return groupArith
	}
	return groupDefault
}

// Condition is the decoded register test of a command.
type Condition struct {
	Test      Test
	Register  uint16
	Operand   uint16
	Immediate bool
}

// Condition extracts the test operands using the layout of the opcode group.
func (w Word) Condition() Condition {
	layout := operandLayouts[groupOf(w.Opcode)]
	cr1 := layout.cr1
	if (w.Byte(1)>>4)&0x7 != 0 {
		cr1 = layout.cr1Alt
	}
	c := Condition{
		Test:      w.Test(),
		Register:  uint16(w.Byte(cr1)),
		Immediate: w.Immediate() && !layout.register,
	}
	if layout.narrow {
		c.Operand = uint16(w.Byte(layout.cr2))
	} else {
		c.Operand = w.Uint16(layout.cr2)
	}
	return c
}
