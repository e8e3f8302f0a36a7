package dvdvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/go-mkvnav/internal/chapter"
)

type jumpCall struct {
	seg *chapter.Segment
	ch  *chapter.Chapter
}

type fakeNavigator struct {
	segments []*chapter.Segment
	segment  *chapter.Segment
	current  *chapter.Chapter
	jumps    []jumpCall
	// enterAndLeave is returned from EnterAndLeave.
	enterAndLeave bool
}

func (f *fakeNavigator) Segments() []*chapter.Segment      { return f.segments }
func (f *fakeNavigator) CurrentSegment() *chapter.Segment  { return f.segment }
func (f *fakeNavigator) CurrentChapter() *chapter.Chapter  { return f.current }
func (f *fakeNavigator) EnterAndLeave(_, _ *chapter.Chapter, _ bool) bool {
	return f.enterAndLeave
}

func (f *fakeNavigator) JumpTo(seg *chapter.Segment, ch *chapter.Chapter) {
	f.jumps = append(f.jumps, jumpCall{seg: seg, ch: ch})
	f.segment = seg
	f.current = ch
}

func (f *fakeNavigator) FindChapterByUID(uid uint64) (*chapter.Segment, *chapter.Chapter) {
	for _, seg := range f.segments {
		if ch := seg.FindUID(uid); ch != nil {
			return seg, ch
		}
	}
	return nil, nil
}

func dvdChapter(uid uint64, private ...byte) *chapter.Chapter {
	return &chapter.Chapter{
		UID:       uid,
		Processes: []chapter.Process{{Codec: chapter.CodecDVD, Private: private}},
	}
}

func segmentOf(title string, chapters ...*chapter.Chapter) *chapter.Segment {
	return &chapter.Segment{
		Title:    title,
		Editions: []*chapter.Edition{{Chapters: chapters}},
	}
}

// buildDisc lays out a small DVD: a VMG segment with a root menu PGC and a
// VTS segment holding title 5 with two PTTs and three cells.
func buildDisc() (*fakeNavigator, map[string]*chapter.Chapter) {
	nodes := map[string]*chapter.Chapter{}

	vmg := dvdChapter(1, chapter.LevelSS, 0xC0, 0x00, 0x00)
	rootMenu := dvdChapter(2, chapter.LevelPGC, 0x00, 0x01, 0x03, 0, 0, 0, 0)
	vmg.AddChild(rootMenu)
	nodes["vmg"], nodes["rootMenu"] = vmg, rootMenu

	vts := dvdChapter(10, chapter.LevelSS, 0x80, 0x00, 0x01)
	vtsm := dvdChapter(11, chapter.LevelSS, 0x40, 0x00, 0x01)
	chapterMenu := dvdChapter(12, chapter.LevelPGC, 0x00, 0x02, 0x07, 0, 0, 0, 0)
	vtsm.AddChild(chapterMenu)
	title := dvdChapter(20, chapter.LevelTT, 0x00, 0x05)
	pgc := dvdChapter(21, chapter.LevelPGC, 0x00, 0x03, 0x00, 0, 0, 0, 0)
	ptt1 := dvdChapter(30, chapter.LevelPTT, 0x01)
	ptt2 := dvdChapter(31, chapter.LevelPTT, 0x02)
	cell1 := dvdChapter(40, chapter.LevelCN, 0x00, 0x00, 0x01, 0x00)
	cell2 := dvdChapter(41, chapter.LevelCN, 0x00, 0x00, 0x02, 0x00)
	cell3 := dvdChapter(42, chapter.LevelCN, 0x00, 0x00, 0x03, 0x00)
	ptt1.AddChild(cell1)
	ptt1.AddChild(cell2)
	ptt2.AddChild(cell3)
	pgc.AddChild(ptt1)
	pgc.AddChild(ptt2)
	title.AddChild(pgc)
	vts.AddChild(title)
	vts.AddChild(vtsm)
	nodes["vts"], nodes["vtsm"], nodes["chapterMenu"] = vts, vtsm, chapterMenu
	nodes["title"], nodes["pgc"] = title, pgc
	nodes["ptt1"], nodes["ptt2"] = ptt1, ptt2
	nodes["cell1"], nodes["cell2"], nodes["cell3"] = cell1, cell2, cell3

	vmgSeg := segmentOf("VMG", vmg)
	vtsSeg := segmentOf("VTS 1", vts)
	nav := &fakeNavigator{
		segments: []*chapter.Segment{vmgSeg, vtsSeg},
		segment:  vtsSeg,
		current:  ptt1,
	}
	return nav, nodes
}

func TestInterpretRejectsWrongLength(t *testing.T) {
	nav, _ := buildDisc()
	regs := NewRegisters()
	before := *regs
	rec := &Recorder{}
	in := NewInterpreter(nav, regs, rec)

	for _, cmd := range [][]byte{nil, {0x53}, make([]byte, 7), make([]byte, 9), {0x53, 0, 0, 7, 0, 2, 0, 0, 0}} {
		assert.False(t, in.Interpret(cmd))
	}
	assert.Empty(t, nav.jumps)
	assert.Equal(t, before, *regs)
	assert.Equal(t, 5, rec.Count(MalformedCommand))
}

func TestInterpretJumpTT(t *testing.T) {
	nav, nodes := buildDisc()
	in := NewInterpreter(nav, nil, nil)

	ok := in.Interpret([]byte{0x30, 0x02, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00})
	require.True(t, ok)
	require.Len(t, nav.jumps, 1)
	assert.Same(t, nodes["cell1"], nav.jumps[0].ch)
	assert.Equal(t, "VTS 1", nav.jumps[0].seg.Title)
}

func TestInterpretJumpTTShortTitleMetadata(t *testing.T) {
	title := dvdChapter(1, chapter.LevelTT, 0x00, 0x05)
	cell := dvdChapter(2, chapter.LevelCN, 0x00, 0x00, 0x01, 0x00)
	title.AddChild(cell)
	seg := segmentOf("only", title)
	nav := &fakeNavigator{segments: []*chapter.Segment{seg}, segment: seg}

	assert.True(t, NewInterpreter(nav, nil, nil).Interpret([]byte{0x30, 0x02, 0, 0, 0, 0x05, 0, 0}))
	require.Len(t, nav.jumps, 1)
	assert.Same(t, cell, nav.jumps[0].ch)
}

func TestInterpretJumpTTUnresolved(t *testing.T) {
	nav, _ := buildDisc()
	rec := &Recorder{}
	in := NewInterpreter(nav, nil, rec)

	assert.False(t, in.Interpret([]byte{0x30, 0x02, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00}))
	assert.Empty(t, nav.jumps)
	assert.Equal(t, 1, rec.Count(UnresolvedTarget))
}

func TestInterpretSetGPRMMD(t *testing.T) {
	nav, _ := buildDisc()
	in := NewInterpreter(nav, nil, nil)

	assert.False(t, in.Interpret([]byte{0x53, 0x00, 0x00, 0x07, 0x00, 0x02, 0x00, 0x00}))
	assert.Equal(t, uint16(7), in.Registers().GPRM(2))
	assert.Empty(t, nav.jumps)
}

func TestInterpretSetGPRMMDRejected(t *testing.T) {
	nav, _ := buildDisc()
	rec := &Recorder{}
	in := NewInterpreter(nav, nil, rec)

	assert.False(t, in.Interpret([]byte{0x53, 0x00, 0x00, 0x07, 0x00, 0x20, 0x00, 0x00}))
	assert.Equal(t, uint16(0), in.Registers().Get(0x20))
	assert.Equal(t, 1, rec.Count(RegisterWriteRejected))
}

func TestInterpretConditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *Registers)
		cmd   []byte
		jump  bool
	}{
		{
			name:  "equal registers not met",
			setup: func(r *Registers) { r.Set(0, 3); r.Set(1, 5) },
			cmd:   []byte{0x30, 0x22, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
		},
		{
			name:  "equal registers met",
			setup: func(r *Registers) { r.Set(0, 5); r.Set(1, 5) },
			cmd:   []byte{0x30, 0x22, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
			jump:  true,
		},
		{
			name:  "immediate flag ignored for jump group",
			setup: func(r *Registers) { r.Set(0, 1) },
			cmd:   []byte{0x30, 0xA2, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
		},
		{
			name:  "not equal",
			setup: func(r *Registers) { r.Set(0, 3); r.Set(1, 5) },
			cmd:   []byte{0x30, 0x32, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
			jump:  true,
		},
		{
			name:  "bitwise and zero",
			setup: func(r *Registers) { r.Set(0, 0x0F); r.Set(1, 0xF0) },
			cmd:   []byte{0x30, 0x12, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
		},
		{
			name:  "bitwise and nonzero",
			setup: func(r *Registers) { r.Set(0, 0x1F); r.Set(1, 0xF0) },
			cmd:   []byte{0x30, 0x12, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
			jump:  true,
		},
		{
			name:  "less than",
			setup: func(r *Registers) { r.Set(0, 2); r.Set(1, 5) },
			cmd:   []byte{0x30, 0x72, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
			jump:  true,
		},
		{
			name:  "greater or equal fails",
			setup: func(r *Registers) { r.Set(0, 2); r.Set(1, 5) },
			cmd:   []byte{0x30, 0x42, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
		},
		{
			name:  "greater",
			setup: func(r *Registers) { r.Set(0, 6); r.Set(1, 5) },
			cmd:   []byte{0x30, 0x52, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
			jump:  true,
		},
		{
			name:  "less or equal",
			setup: func(r *Registers) { r.Set(0, 5); r.Set(1, 5) },
			cmd:   []byte{0x30, 0x62, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
			jump:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, _ := buildDisc()
			regs := NewRegisters()
			tt.setup(regs)
			in := NewInterpreter(nav, regs, nil)

			assert.Equal(t, tt.jump, in.Interpret(tt.cmd))
			if tt.jump {
				assert.Len(t, nav.jumps, 1)
			} else {
				assert.Empty(t, nav.jumps)
			}
		})
	}
}

func TestInterpretConditionImmediate(t *testing.T) {
	// if GPreg[3] == value (7) then LinkCN 2
	cmd := []byte{0x20, 0xA7, 0x00, 0x03, 0x00, 0x07, 0x00, 0x02}

	nav, nodes := buildDisc()
	regs := NewRegisters()
	regs.Set(3, 6)
	in := NewInterpreter(nav, regs, nil)
	assert.False(t, in.Interpret(cmd))

	regs.Set(3, 7)
	require.True(t, in.Interpret(cmd))
	assert.Same(t, nodes["cell2"], nav.jumps[0].ch)
}

func TestInterpretConditionSkipsRegisterWrite(t *testing.T) {
	nav, _ := buildDisc()
	regs := NewRegisters()
	regs.Set(0, 3)
	regs.Set(1, 5)
	rec := &Recorder{}
	in := NewInterpreter(nav, regs, rec)

	// if GPreg[0] == GPreg[1] then Set GPreg[2] = 7
	assert.False(t, in.Interpret([]byte{0x53, 0x20, 0x00, 0x07, 0x00, 0x02, 0x00, 0x01}))
	assert.Equal(t, uint16(0), regs.GPRM(2))
	assert.Equal(t, 1, rec.Count(UnmetCondition))
}

func TestInterpretLinkCN(t *testing.T) {
	nav, nodes := buildDisc()
	in := NewInterpreter(nav, nil, nil)

	require.True(t, in.Interpret([]byte{0x20, 0x07, 0, 0, 0, 0, 0, 0x02}))
	assert.Same(t, nodes["cell2"], nav.jumps[0].ch)

	// cell 3 is not below cell 2
	assert.False(t, in.Interpret([]byte{0x20, 0x07, 0, 0, 0, 0, 0, 0x03}))
	assert.Len(t, nav.jumps, 1)
}

func TestInterpretLinkPGCN(t *testing.T) {
	nav, nodes := buildDisc()
	in := NewInterpreter(nav, nil, nil)

	require.True(t, in.Interpret([]byte{0x20, 0x04, 0, 0, 0, 0, 0x00, 0x03}))
	assert.Same(t, nodes["pgc"], nav.jumps[0].ch)

	// PGC 1 lives in the VMG segment, not the current one.
	assert.False(t, in.Interpret([]byte{0x20, 0x04, 0, 0, 0, 0, 0x00, 0x01}))
}

func TestInterpretJumpSSVMGM(t *testing.T) {
	nav, nodes := buildDisc()
	in := NewInterpreter(nav, nil, nil)

	require.True(t, in.Interpret([]byte{0x30, 0x06, 0, 0, 0, 0x43, 0, 0}))
	assert.Same(t, nodes["rootMenu"], nav.jumps[0].ch)
	assert.Equal(t, "VMG", nav.jumps[0].seg.Title)
}

func TestInterpretJumpSSVTSM(t *testing.T) {
	nav, nodes := buildDisc()
	nodes["vtsm"].AddChild(dvdChapter(13, chapter.LevelTT, 0x00, 0x05))
	in := NewInterpreter(nav, nil, nil)

	// vts 1, ttn 5, chapter menu
	require.True(t, in.Interpret([]byte{0x30, 0x06, 0, 0x05, 0x01, 0x87, 0, 0}))
	assert.Same(t, nodes["chapterMenu"], nav.jumps[0].ch)

	// title 9 does not exist in VTSM 1
	assert.False(t, in.Interpret([]byte{0x30, 0x06, 0, 0x09, 0x01, 0x87, 0, 0}))
	assert.Len(t, nav.jumps, 1)
}

func TestInterpretJumpVTSPTT(t *testing.T) {
	nav, nodes := buildDisc()
	in := NewInterpreter(nav, nil, nil)

	require.True(t, in.Interpret([]byte{0x30, 0x05, 0, 0x02, 0, 0x05, 0, 0}))
	assert.Same(t, nodes["ptt2"], nav.jumps[0].ch)

	assert.False(t, in.Interpret([]byte{0x30, 0x05, 0, 0x07, 0, 0x05, 0, 0}))
}

func TestInterpretCallSS(t *testing.T) {
	nav, nodes := buildDisc()
	cell := dvdChapter(3, chapter.LevelCN, 0, 0, 0x01, 0)
	nodes["rootMenu"].AddChild(cell)
	in := NewInterpreter(nav, nil, nil)

	require.True(t, in.Interpret([]byte{0x30, 0x08, 0, 0, 0x01, 0x03, 0x00, 0}))
	assert.Same(t, cell, nav.jumps[0].ch)

	rec := &Recorder{}
	in = NewInterpreter(nav, nil, rec)
	assert.False(t, in.Interpret([]byte{0x30, 0x08, 0, 0, 0x01, 0x03, 0x40, 0}))
	assert.Equal(t, 1, rec.Count(UnsupportedOpcode))
}

func TestInterpretSetHighlightButton(t *testing.T) {
	nav, _ := buildDisc()
	in := NewInterpreter(nav, nil, nil)

	assert.False(t, in.Interpret([]byte{0x56, 0x00, 0, 0, 0x03, 0, 0, 0}))
	assert.Equal(t, uint16(3), in.Registers().SPRM(SPRMHighlightButton))
}

func TestInterpretUnsupported(t *testing.T) {
	nav, _ := buildDisc()
	rec := &Recorder{}
	in := NewInterpreter(nav, nil, rec)

	assert.False(t, in.Interpret([]byte{0x00, 0x02, 0, 0, 0, 0, 0, 0}))
	assert.False(t, in.Interpret([]byte{0x00, 0x01, 0, 0, 0, 0, 0, 0x04}))
	assert.False(t, in.Interpret([]byte{0x71, 0x00, 0, 0, 0, 0, 0, 0}))
	assert.False(t, in.Interpret([]byte{0x00, 0x00, 0, 0, 0, 0, 0, 0}))
	assert.Equal(t, 3, rec.Count(UnsupportedOpcode))
	assert.Empty(t, nav.jumps)
}

func TestInterpretBlock(t *testing.T) {
	nav, _ := buildDisc()
	in := NewInterpreter(nav, nil, nil)

	block := []byte{0x03,
		0x53, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x30, 0x02, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00,
	}
	// count says 3 but only 2 commands fit
	assert.True(t, in.InterpretBlock(block))
	assert.Equal(t, uint16(1), in.Registers().GPRM(0))
	assert.Len(t, nav.jumps, 1)

	assert.False(t, in.InterpretBlock(nil))
	assert.False(t, in.InterpretBlock([]byte{0x01, 0x30}))
}
