package dvdvm

import (
	"fmt"
	"strings"
)

// Disassemble renders a command as text without executing it.
func Disassemble(cmd []byte) string {
	w, err := DecodeWord(cmd)
	if err != nil {
		return fmt.Sprintf("invalid (%v)", err)
	}

	var b strings.Builder
	if w.HasCondition() {
		c := w.Condition()
		if c.Test != TestNone {
			fmt.Fprintf(&b, "if (%s %s %s) ", RegisterName(false, c.Register), c.Test, RegisterName(c.Immediate, c.Operand))
		}
	}
	b.WriteString(disassembleOp(w))
	return b.String()
}

func disassembleOp(w Word) string {
	switch w.Op() {
	case OpNop, OpNop2:
		return "Nop"
	case OpBreak:
		return "Break"
	case OpGotoLine:
		return fmt.Sprintf("GotoLine %d", w.Uint16(6))
	case OpJumpTT:
		return fmt.Sprintf("JumpTT %d", w.Byte(5))
	case OpJumpVTSPTT:
		return fmt.Sprintf("JumpVTS_PTT %d:%d", w.Byte(5), w.Byte(3))
	case OpCallSS:
		switch w.Byte(6) >> 6 {
		case 0:
			return fmt.Sprintf("CallSS %s (rsm_cell %d)", menuName(w.Byte(5)&0x0F), w.Byte(4))
		case 1:
			return fmt.Sprintf("CallSS VMGM menu %d (rsm_cell %d)", w.Byte(5)&0x0F, w.Byte(4))
		case 2:
			return fmt.Sprintf("CallSS VTSM menu %d (rsm_cell %d)", w.Byte(5)&0x0F, w.Byte(4))
		default:
			return fmt.Sprintf("CallSS VMGM pgc %d (rsm_cell %d)", w.Uint16(2), w.Byte(4))
		}
	case OpJumpSS:
		switch w.Byte(5) >> 6 {
		case 0:
			return "JumpSS FP"
		case 1:
			return fmt.Sprintf("JumpSS VMGM %s", menuName(w.Byte(5)&0x0F))
		case 2:
			return fmt.Sprintf("JumpSS VTSM vts %d ttn %d %s", w.Byte(4), w.Byte(3), menuName(w.Byte(5)&0x0F))
		default:
			return fmt.Sprintf("JumpSS VMGM pgc %d", w.Uint16(2))
		}
	case OpSetGPRMMD:
		return fmt.Sprintf("Set %s = %d", RegisterName(false, w.Uint16(4)), w.Uint16(2))
	case OpLinkPGCN:
		return fmt.Sprintf("LinkPGCN %d", w.Uint16(6))
	case OpLinkCN:
		return fmt.Sprintf("LinkCN %d", w.Byte(7))
	case OpSetHLBTNN:
		return fmt.Sprintf("SetHL_BTN %d", w.Byte(4))
	}
	return fmt.Sprintf("unsupported %02X %02X %02X %02X %02X %02X %02X %02X",
		w.Byte(0), w.Byte(1), w.Byte(2), w.Byte(3), w.Byte(4), w.Byte(5), w.Byte(6), w.Byte(7))
}
