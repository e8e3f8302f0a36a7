package navigator

import (
	"github.com/google/uuid"

	"github.com/autobrr/go-mkvnav/internal/chapter"
	"github.com/autobrr/go-mkvnav/internal/dvdvm"
)

// maxNestedJumps bounds how deep enter commands may chain jumps before the
// session stops running them and just seeks.
const maxNestedJumps = 16

// Jump is one committed change of playback position.
type Jump struct {
	Segment *chapter.Segment
	Chapter *chapter.Chapter
}

type Options struct {
	Sink      dvdvm.Sink
	Registers *dvdvm.Registers
}

// Session is the playback state of one set of linked segments. It is not safe
// for concurrent use; callers serialize navigation triggers.
type Session struct {
	ID uuid.UUID

	segments []*chapter.Segment
	segment  *chapter.Segment
	current  *chapter.Chapter
	history  []Jump

	regs   *dvdvm.Registers
	sink   dvdvm.Sink
	dvd    *dvdvm.Interpreter
	script *dvdvm.ScriptInterpreter

	depth   int
	leaving map[*chapter.Chapter]bool
}

func New(segments []*chapter.Segment, opts Options) *Session {
	if opts.Sink == nil {
		opts.Sink = dvdvm.Discard
	}
	if opts.Registers == nil {
		opts.Registers = dvdvm.NewRegisters()
	}
	s := &Session{
		ID:       uuid.New(),
		segments: segments,
		regs:     opts.Registers,
		sink:     opts.Sink,
		leaving:  map[*chapter.Chapter]bool{},
	}
	s.dvd = dvdvm.NewInterpreter(s, s.regs, s.sink)
	s.script = dvdvm.NewScriptInterpreter(s, s.sink)
	if len(segments) > 0 {
		s.segment = segments[0]
	}
	return s
}

func (s *Session) Segments() []*chapter.Segment {
	return s.segments
}

func (s *Session) CurrentSegment() *chapter.Segment {
	return s.segment
}

func (s *Session) CurrentChapter() *chapter.Chapter {
	return s.current
}

func (s *Session) Registers() *dvdvm.Registers {
	return s.regs
}

func (s *Session) History() []Jump {
	out := make([]Jump, len(s.history))
	copy(out, s.history)
	return out
}

// Start begins playback at the chapter with startUID, or at the first chapter
// of the first segment when startUID is 0, running its enter commands.
func (s *Session) Start(startUID uint64) bool {
	seg, ch := s.startPoint(startUID)
	if ch == nil {
		return false
	}
	s.JumpTo(seg, ch)
	return true
}

func (s *Session) startPoint(uid uint64) (*chapter.Segment, *chapter.Chapter) {
	if uid != 0 {
		return s.FindChapterByUID(uid)
	}
	for _, seg := range s.segments {
		if ch := seg.FirstChapter(); ch != nil {
			return seg, ch
		}
	}
	return nil, nil
}

// JumpTo moves playback to ch. The chapter's enter commands run first; when
// one of them jumps elsewhere that jump wins.
func (s *Session) JumpTo(seg *chapter.Segment, ch *chapter.Chapter) {
	if seg == nil {
		seg = s.segmentOf(ch)
	}
	s.depth++
	defer func() { s.depth-- }()

	if s.depth <= maxNestedJumps && s.Enter(ch, true) {
		return
	}
	s.seek(seg, ch)
}

func (s *Session) seek(seg *chapter.Segment, ch *chapter.Chapter) {
	s.segment = seg
	s.current = ch
	s.history = append(s.history, Jump{Segment: seg, Chapter: ch})
}

func (s *Session) segmentOf(ch *chapter.Chapter) *chapter.Segment {
	for _, seg := range s.segments {
		if seg.Contains(ch) {
			return seg
		}
	}
	return s.segment
}

func (s *Session) FindChapterByUID(uid uint64) (*chapter.Segment, *chapter.Chapter) {
	for _, seg := range s.segments {
		if ch := seg.FindUID(uid); ch != nil {
			return seg, ch
		}
	}
	return nil, nil
}

// Find resolves a structural target. A nil root searches every segment in
// session order, otherwise the search runs pre-order from root itself.
func (s *Session) Find(p dvdvm.Predicate, root *chapter.Chapter) (*chapter.Segment, *chapter.Chapter) {
	r := dvdvm.NewResolver(s)
	if root == nil {
		return r.Find(p)
	}
	ch := r.FindUnder(root, p)
	if ch == nil {
		return nil, nil
	}
	return s.segmentOf(ch), ch
}

// ExecuteCommand runs a single DVD command, as a menu button does.
func (s *Session) ExecuteCommand(cmd []byte) bool {
	return s.dvd.Interpret(cmd)
}

// ExecuteScript runs a single Matroska Script command.
func (s *Session) ExecuteScript(cmd []byte) bool {
	return s.script.Interpret(cmd)
}
