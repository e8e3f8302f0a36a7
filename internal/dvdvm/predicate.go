package dvdvm

import (
	"fmt"

	"github.com/autobrr/go-mkvnav/internal/chapter"
)

// MatchKind names what a Predicate compares in a chapter's DVD private data.
type MatchKind uint8

const (
	MatchDomain MatchKind = iota
	MatchVMG
	MatchVTSNumber
	MatchVTSMNumber
	MatchTitleNumber
	MatchPgcType
	MatchPgcNumber
	MatchChapterNumber
	MatchCellNumber
)

// Predicate describes a navigation target by DVD structure rather than by
// chapter. It matches a chapter when any of its DVD-menu processes carries
// private data of the right level and value.
type Predicate struct {
	Kind  MatchKind
	Value uint16
}

func IsDomain() Predicate             { return Predicate{Kind: MatchDomain} }
func IsVMG() Predicate                { return Predicate{Kind: MatchVMG} }
func VTSNumber(n uint16) Predicate    { return Predicate{Kind: MatchVTSNumber, Value: n} }
func VTSMNumber(n uint8) Predicate    { return Predicate{Kind: MatchVTSMNumber, Value: uint16(n)} }
func TitleNumber(n uint16) Predicate  { return Predicate{Kind: MatchTitleNumber, Value: n} }
func PgcType(t uint8) Predicate       { return Predicate{Kind: MatchPgcType, Value: uint16(t)} }
func PgcNumber(n uint16) Predicate    { return Predicate{Kind: MatchPgcNumber, Value: n} }
func ChapterNumber(n uint8) Predicate { return Predicate{Kind: MatchChapterNumber, Value: uint16(n)} }
func CellNumber(n uint8) Predicate    { return Predicate{Kind: MatchCellNumber, Value: uint16(n)} }

func (p Predicate) Match(ch *chapter.Chapter) bool {
	if !ch.HasCodec(chapter.CodecDVD) {
		return false
	}
	for i := range ch.Processes {
		proc := &ch.Processes[i]
		if proc.Codec == chapter.CodecDVD && p.MatchPrivate(proc.Private) {
			return true
		}
	}
	return false
}

// MatchPrivate tests one private blob. Blobs too short for the fields the
// predicate reads never match.
func (p Predicate) MatchPrivate(data []byte) bool {
	switch p.Kind {
	case MatchDomain:
		return len(data) >= 1 && data[0] == chapter.LevelSS
	case MatchVMG:
		return len(data) >= 2 && data[0] == chapter.LevelSS && data[1] == 0xC0
	case MatchVTSNumber:
		return len(data) >= 4 && data[0] == chapter.LevelSS && data[1] == 0x80 &&
			be16(data[2:]) == p.Value
	case MatchVTSMNumber:
		return len(data) >= 4 && data[0] == chapter.LevelSS && data[1] == 0x40 &&
			uint16(data[3]) == p.Value
	case MatchTitleNumber:
		return len(data) >= 3 && data[0] == chapter.LevelTT && be16(data[1:]) == p.Value
	case MatchPgcType:
		return len(data) >= 8 && data[0] == chapter.LevelPGC && uint16(data[3]&0x0F) == p.Value
	case MatchPgcNumber:
		return len(data) >= 8 && data[0] == chapter.LevelPGC && be16(data[1:]) == p.Value
	case MatchChapterNumber:
		return len(data) >= 2 && data[0] == chapter.LevelPTT && uint16(data[1]) == p.Value
	case MatchCellNumber:
		return len(data) >= 5 && data[0] == chapter.LevelCN && uint16(data[3]) == p.Value
	}
	return false
}

func (p Predicate) String() string {
	switch p.Kind {
	case MatchDomain:
		return "domain"
	case MatchVMG:
		return "VMG"
	case MatchVTSNumber:
		return fmt.Sprintf("VTS %d", p.Value)
	case MatchVTSMNumber:
		return fmt.Sprintf("VTSM %d", p.Value)
	case MatchTitleNumber:
		return fmt.Sprintf("title %d", p.Value)
	case MatchPgcType:
		return fmt.Sprintf("PGC type %d", p.Value)
	case MatchPgcNumber:
		return fmt.Sprintf("PGC %d", p.Value)
	case MatchChapterNumber:
		return fmt.Sprintf("PTT %d", p.Value)
	case MatchCellNumber:
		return fmt.Sprintf("cell %d", p.Value)
	}
	return "unknown"
}

func be16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// Resolver searches the session's segments for chapters matching predicates.
type Resolver struct {
	nav Navigator
}

func NewResolver(nav Navigator) Resolver {
	return Resolver{nav: nav}
}

// Find searches every segment in session order and returns the first match
// together with the segment holding it.
func (r Resolver) Find(p Predicate) (*chapter.Segment, *chapter.Chapter) {
	for _, seg := range r.nav.Segments() {
		if ch := seg.Find(p); ch != nil {
			return seg, ch
		}
	}
	return nil, nil
}

// FindIn restricts the search to one segment.
func (r Resolver) FindIn(seg *chapter.Segment, p Predicate) *chapter.Chapter {
	if seg == nil {
		return nil
	}
	return seg.Find(p)
}

// FindUnder restricts the search to root and its descendants.
func (r Resolver) FindUnder(root *chapter.Chapter, p Predicate) *chapter.Chapter {
	if root == nil {
		return nil
	}
	return root.Find(p)
}
