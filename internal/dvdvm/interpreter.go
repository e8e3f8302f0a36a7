package dvdvm

import "github.com/autobrr/go-mkvnav/internal/chapter"

// firstCell is the cell a title or menu is entered through.
const firstCell = 1

type handler func(in *Interpreter, w Word) bool

// Interpreter executes DVD navigation commands against a Navigator.
type Interpreter struct {
	nav      Navigator
	regs     *Registers
	resolver Resolver
	sink     Sink
	handlers map[uint16]handler
}

func NewInterpreter(nav Navigator, regs *Registers, sink Sink) *Interpreter {
	if regs == nil {
		regs = NewRegisters()
	}
	if sink == nil {
		sink = Discard
	}
	in := &Interpreter{
		nav:      nav,
		regs:     regs,
		resolver: NewResolver(nav),
		sink:     sink,
	}
	in.handlers = map[uint16]handler{
		OpNop:        (*Interpreter).nop,
		OpNop2:       (*Interpreter).nop,
		OpBreak:      (*Interpreter).brk,
		OpGotoLine:   (*Interpreter).gotoLine,
		OpJumpTT:     (*Interpreter).jumpTT,
		OpCallSS:     (*Interpreter).callSS,
		OpJumpSS:     (*Interpreter).jumpSS,
		OpJumpVTSPTT: (*Interpreter).jumpVTSPTT,
		OpSetGPRMMD:  (*Interpreter).setGPRMMD,
		OpLinkPGCN:   (*Interpreter).linkPGCN,
		OpLinkCN:     (*Interpreter).linkCN,
		OpSetHLBTNN:  (*Interpreter).setHighlightButton,
	}
	return in
}

func (in *Interpreter) Registers() *Registers {
	return in.regs
}

// Interpret executes one 8-byte command and reports whether it jumped.
func (in *Interpreter) Interpret(cmd []byte) bool {
	w, err := DecodeWord(cmd)
	if err != nil {
		emit(in.sink, MalformedCommand, cmd, "%v", err)
		return false
	}

	if w.HasCondition() {
		cond := w.Condition()
		lhs := in.regs.Get(cond.Register)
		rhs := cond.Operand
		if !cond.Immediate {
			rhs = in.regs.Get(cond.Operand)
		}
		emit(in.sink, Trace, cmd, "IF %s %s %s", RegisterName(false, cond.Register), cond.Test, RegisterName(cond.Immediate, cond.Operand))
		if !cond.Test.Eval(lhs, rhs) {
			emit(in.sink, UnmetCondition, cmd, "%d %s %d is false", lhs, cond.Test, rhs)
			return false
		}
	}

	h, ok := in.handlers[w.Op()]
	if !ok {
		emit(in.sink, UnsupportedOpcode, cmd, "unsupported command")
		return false
	}
	return h(in, w)
}

// InterpretBlock runs a DVD ChapProcessData payload: a count byte followed by
// that many commands. The count is clamped to what the payload holds.
func (in *Interpreter) InterpretBlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := int(data[0])
	if avail := (len(data) - 1) / WordSize; n > avail {
		n = avail
	}
	jumped := false
	for i := 0; i < n; i++ {
		start := 1 + i*WordSize
		if in.Interpret(data[start : start+WordSize]) {
			jumped = true
		}
	}
	return jumped
}

func (in *Interpreter) jump(seg *chapter.Segment, ch *chapter.Chapter, cmd Word) bool {
	emit(in.sink, Jumped, cmd.Bytes(), "jump to %s in %s", ch, seg)
	in.nav.JumpTo(seg, ch)
	return true
}

func (in *Interpreter) unresolved(w Word, format string, args ...any) bool {
	emit(in.sink, UnresolvedTarget, w.Bytes(), format, args...)
	return false
}

func (in *Interpreter) nop(w Word) bool {
	emit(in.sink, Trace, w.Bytes(), "NOP")
	return false
}

func (in *Interpreter) brk(w Word) bool {
	emit(in.sink, UnsupportedOpcode, w.Bytes(), "Break")
	return false
}

func (in *Interpreter) gotoLine(w Word) bool {
	emit(in.sink, UnsupportedOpcode, w.Bytes(), "GotoLine (%d)", w.Uint16(6))
	return false
}

// enterFirstCell jumps to cell 1 below ch.
func (in *Interpreter) enterFirstCell(seg *chapter.Segment, ch *chapter.Chapter, w Word) bool {
	cell := in.resolver.FindUnder(ch, CellNumber(firstCell))
	if cell == nil {
		return in.unresolved(w, "no first cell under %s", ch)
	}
	return in.jump(seg, cell, w)
}

func (in *Interpreter) jumpTT(w Word) bool {
	title := w.Byte(5)
	emit(in.sink, Trace, w.Bytes(), "JumpTT %d", title)

	seg, ch := in.resolver.Find(TitleNumber(uint16(title)))
	if seg == nil || ch == nil {
		return in.unresolved(w, "title %d not found", title)
	}
	return in.enterFirstCell(seg, ch, w)
}

var menuNames = map[byte]string{
	0x00: "PGC",
	0x02: "Title Entry",
	0x03: "Root Menu",
	0x04: "Subpicture Menu",
	0x05: "Audio Menu",
	0x06: "Angle Menu",
	0x07: "Chapter Menu",
}

func menuName(t byte) string {
	if name, ok := menuNames[t]; ok {
		return name
	}
	return "<unknown>"
}

func (in *Interpreter) callSS(w Word) bool {
	rsmCell := w.Byte(4)
	switch w.Byte(6) >> 6 {
	case 0:
		pgcType := w.Byte(5) & 0x0F
		emit(in.sink, Trace, w.Bytes(), "CallSS %s (rsm_cell %x)", menuName(pgcType), rsmCell)
		seg, ch := in.resolver.Find(PgcType(pgcType))
		if seg == nil || ch == nil {
			return in.unresolved(w, "no PGC of type %d", pgcType)
		}
		return in.enterFirstCell(seg, ch, w)
	case 1:
		emit(in.sink, UnsupportedOpcode, w.Bytes(), "CallSS VMGM (menu %d, rsm_cell %x)", w.Byte(5)&0x0F, rsmCell)
	case 2:
		emit(in.sink, UnsupportedOpcode, w.Bytes(), "CallSS VTSM (menu %d, rsm_cell %x)", w.Byte(5)&0x0F, rsmCell)
	case 3:
		emit(in.sink, UnsupportedOpcode, w.Bytes(), "CallSS VMGM (pgc %d, rsm_cell %x)", w.Uint16(2), rsmCell)
	}
	return false
}

func (in *Interpreter) jumpSS(w Word) bool {
	pgcType := w.Byte(5) & 0x0F
	switch w.Byte(5) >> 6 {
	case 0:
		emit(in.sink, UnsupportedOpcode, w.Bytes(), "JumpSS FP")
	case 1:
		emit(in.sink, Trace, w.Bytes(), "JumpSS VMGM %s", menuName(pgcType))
		seg, _ := in.resolver.Find(IsVMG())
		if seg == nil {
			return in.unresolved(w, "no VMG domain")
		}
		ch := in.resolver.FindIn(seg, PgcType(pgcType))
		if ch == nil {
			return in.unresolved(w, "no VMGM PGC of type %d", pgcType)
		}
		return in.jump(seg, ch, w)
	case 2:
		vts, title := w.Byte(4), w.Byte(3)
		emit(in.sink, Trace, w.Bytes(), "JumpSS VTSM (vts %d, ttn %d) %s", vts, title, menuName(pgcType))
		seg, domain := in.resolver.Find(VTSMNumber(vts))
		if seg == nil || domain == nil {
			return in.unresolved(w, "DVD domain VTS (%d) not found", vts)
		}
		if in.resolver.FindUnder(domain, TitleNumber(uint16(title))) == nil {
			return in.unresolved(w, "title (%d) does not exist in this VTS", title)
		}
		ch := in.resolver.FindIn(seg, PgcType(pgcType))
		if ch == nil {
			return in.unresolved(w, "no VTSM PGC of type %d", pgcType)
		}
		return in.jump(seg, ch, w)
	case 3:
		emit(in.sink, UnsupportedOpcode, w.Bytes(), "JumpSS VMGM (pgc %d)", w.Uint16(2))
	}
	return false
}

func (in *Interpreter) jumpVTSPTT(w Word) bool {
	title, ptt := w.Byte(5), w.Byte(3)
	emit(in.sink, Trace, w.Bytes(), "JumpVTS Title (%d) PTT (%d)", title, ptt)

	domain := in.resolver.FindIn(in.nav.CurrentSegment(), IsDomain())
	if domain == nil {
		return in.unresolved(w, "JumpVTS_PTT but the DVD domain wasn't found")
	}
	current := domain.TitleNumber()
	if current <= 0 {
		return in.unresolved(w, "JumpVTS_PTT found but not in a VTS(M)")
	}
	seg, vts := in.resolver.Find(VTSNumber(uint16(current)))
	if seg == nil || vts == nil {
		return in.unresolved(w, "DVD domain VTS (%d) not found", current)
	}
	tt := in.resolver.FindUnder(vts, TitleNumber(uint16(title)))
	if tt == nil {
		return in.unresolved(w, "title (%d) does not exist in this VTS", title)
	}
	ch := in.resolver.FindUnder(tt, ChapterNumber(ptt))
	if ch == nil {
		return in.unresolved(w, "PTT (%d) does not exist in title %d", ptt, title)
	}
	return in.jump(seg, ch, w)
}

func (in *Interpreter) setGPRMMD(w Word) bool {
	index, value := w.Uint16(4), w.Uint16(2)
	emit(in.sink, Trace, w.Bytes(), "Set GPRMMD [%d]=%d", index, value)
	if !in.regs.Set(index, value) {
		emit(in.sink, RegisterWriteRejected, w.Bytes(), "Set GPRMMD failed for %s", RegisterName(false, index))
	}
	return false
}

func (in *Interpreter) linkPGCN(w Word) bool {
	pgcn := w.Uint16(6)
	emit(in.sink, Trace, w.Bytes(), "Link PGCN(%d)", pgcn)

	seg := in.nav.CurrentSegment()
	ch := in.resolver.FindIn(seg, PgcNumber(pgcn))
	if ch == nil {
		return in.unresolved(w, "PGC %d not in current segment", pgcn)
	}
	return in.jump(seg, ch, w)
}

func (in *Interpreter) linkCN(w Word) bool {
	cn := w.Byte(7)
	emit(in.sink, Trace, w.Bytes(), "LinkCN (cell %d)", cn)

	ch := in.resolver.FindUnder(in.nav.CurrentChapter(), CellNumber(cn))
	if ch == nil {
		return in.unresolved(w, "cell %d not under current chapter", cn)
	}
	return in.jump(in.nav.CurrentSegment(), ch, w)
}

func (in *Interpreter) setHighlightButton(w Word) bool {
	button := w.Byte(4)
	emit(in.sink, Trace, w.Bytes(), "SetHL_BTN (%d)", button)
	if !in.regs.SetSPRM(SPRMHighlightButton, uint16(button)) {
		emit(in.sink, RegisterWriteRejected, w.Bytes(), "SetHL_BTN failed")
	}
	return false
}
