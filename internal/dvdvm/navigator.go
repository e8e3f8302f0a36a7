package dvdvm

import "github.com/autobrr/go-mkvnav/internal/chapter"

// Navigator owns the playback position the interpreters move around.
type Navigator interface {
	Segments() []*chapter.Segment
	CurrentSegment() *chapter.Segment
	CurrentChapter() *chapter.Chapter
	// JumpTo commits a jump. It cannot fail.
	JumpTo(seg *chapter.Segment, ch *chapter.Chapter)
	FindChapterByUID(uid uint64) (*chapter.Segment, *chapter.Chapter)
	// EnterAndLeave runs the leave commands from leaving up to the common
	// ancestor with target and the enter commands down to it. It reports
	// whether one of those commands jumped elsewhere.
	EnterAndLeave(target, leaving *chapter.Chapter, enter bool) bool
}
