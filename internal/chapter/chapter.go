package chapter

import (
	"fmt"
	"strings"
)

// CodecID is the ChapProcessCodecID of a chapter process.
type CodecID uint8

const (
	CodecScript CodecID = 0
	CodecDVD    CodecID = 1
)

func (c CodecID) String() string {
	switch c {
	case CodecScript:
		return "Matroska Script"
	case CodecDVD:
		return "DVD-menu"
	}
	return fmt.Sprintf("codec %d", uint8(c))
}

// DVD hierarchy levels carried in the first byte of a DVD process private blob.
const (
	LevelSS  = 0x30
	LevelLU  = 0x2A
	LevelTT  = 0x28
	LevelPGC = 0x20
	LevelPG  = 0x18
	LevelPTT = 0x10
	LevelCN  = 0x08
)

// Process is one ChapProcess attached to a chapter.
type Process struct {
	Codec    CodecID
	Private  []byte
	Commands CommandSet
}

// Matcher decides whether a chapter is the target of a search.
type Matcher interface {
	Match(ch *Chapter) bool
}

type Chapter struct {
	UID       uint64
	Start     int64
	End       int64
	Title     string
	Hidden    bool
	Disabled  bool
	Processes []Process
	Children  []*Chapter

	parent *Chapter
}

func (c *Chapter) Parent() *Chapter {
	return c.parent
}

func (c *Chapter) AddChild(child *Chapter) {
	child.parent = c
	c.Children = append(c.Children, child)
}

// Private returns the private blob of the first process using codec.
func (c *Chapter) Private(codec CodecID) []byte {
	for i := range c.Processes {
		if c.Processes[i].Codec == codec {
			return c.Processes[i].Private
		}
	}
	return nil
}

func (c *Chapter) HasCodec(codec CodecID) bool {
	for i := range c.Processes {
		if c.Processes[i].Codec == codec {
			return true
		}
	}
	return false
}

// Find walks c and its descendants in pre-order and returns the first match.
func (c *Chapter) Find(m Matcher) *Chapter {
	if c == nil {
		return nil
	}
	if m.Match(c) {
		return c
	}
	for _, child := range c.Children {
		if found := child.Find(m); found != nil {
			return found
		}
	}
	return nil
}

func (c *Chapter) FindUID(uid uint64) *Chapter {
	if c == nil {
		return nil
	}
	if c.UID == uid {
		return c
	}
	for _, child := range c.Children {
		if found := child.FindUID(uid); found != nil {
			return found
		}
	}
	return nil
}

// Contains reports whether other is c or one of its descendants.
func (c *Chapter) Contains(other *Chapter) bool {
	for p := other; p != nil; p = p.parent {
		if p == c {
			return true
		}
	}
	return false
}

func (c *Chapter) Depth() int {
	depth := 0
	for p := c.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// TitleNumber returns the VTS title number of a domain-level chapter, or -1.
func (c *Chapter) TitleNumber() int {
	data := c.Private(CodecDVD)
	if len(data) >= 4 && data[0] == LevelSS {
		return int(data[2])<<8 | int(data[3])
	}
	return -1
}

// CodecName is the label a DVD-menu chapter gets in chapter listings.
func (c *Chapter) CodecName(forTitle bool) string {
	data := c.Private(CodecDVD)
	if len(data) < 3 {
		return ""
	}
	switch {
	case data[0] == LevelLU:
		return fmt.Sprintf("---  DVD Menu (%c%c)  ---", data[1], data[2])
	case data[0] == LevelSS && forTitle:
		switch data[1] {
		case 0x00:
			return "First Played"
		case 0xC0:
			return "Video Manager"
		case 0x80:
			if len(data) < 4 {
				return ""
			}
			return fmt.Sprintf("----- Title %d -----", int(data[2])<<8|int(data[3]))
		}
	}
	return ""
}

func (c *Chapter) String() string {
	if c == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "chapter %d", c.UID)
	if c.Title != "" {
		fmt.Fprintf(&b, " %q", c.Title)
	}
	return b.String()
}

type Edition struct {
	UID      uint64
	Hidden   bool
	Default  bool
	Ordered  bool
	Chapters []*Chapter
}

func (e *Edition) Find(m Matcher) *Chapter {
	if e == nil {
		return nil
	}
	for _, ch := range e.Chapters {
		if found := ch.Find(m); found != nil {
			return found
		}
	}
	return nil
}

func (e *Edition) FindUID(uid uint64) *Chapter {
	if e == nil {
		return nil
	}
	for _, ch := range e.Chapters {
		if found := ch.FindUID(uid); found != nil {
			return found
		}
	}
	return nil
}

func (e *Edition) Contains(ch *Chapter) bool {
	if e == nil {
		return false
	}
	for _, top := range e.Chapters {
		if top.Contains(ch) {
			return true
		}
	}
	return false
}

// Segment is a top-level navigation sub-tree, usually one Matroska file.
type Segment struct {
	UID      []byte
	Title    string
	Filename string
	Duration int64
	Editions []*Edition

	current int
}

// CurrentEdition is the edition searches run against: the selected one, else
// the first edition flagged default, else the first edition.
func (s *Segment) CurrentEdition() *Edition {
	if s == nil || len(s.Editions) == 0 {
		return nil
	}
	if s.current > 0 && s.current <= len(s.Editions) {
		return s.Editions[s.current-1]
	}
	for _, ed := range s.Editions {
		if ed.Default {
			return ed
		}
	}
	return s.Editions[0]
}

// SelectEdition makes the edition at index current. It reports false for an
// index out of range.
func (s *Segment) SelectEdition(index int) bool {
	if index < 0 || index >= len(s.Editions) {
		return false
	}
	s.current = index + 1
	return true
}

func (s *Segment) Find(m Matcher) *Chapter {
	return s.CurrentEdition().Find(m)
}

func (s *Segment) FindUID(uid uint64) *Chapter {
	return s.CurrentEdition().FindUID(uid)
}

func (s *Segment) Contains(ch *Chapter) bool {
	return s.CurrentEdition().Contains(ch)
}

// FirstChapter is the first enabled top-level chapter of the current edition.
func (s *Segment) FirstChapter() *Chapter {
	ed := s.CurrentEdition()
	if ed == nil {
		return nil
	}
	for _, ch := range ed.Chapters {
		if !ch.Disabled {
			return ch
		}
	}
	return nil
}

func (s *Segment) String() string {
	if s == nil {
		return "<nil>"
	}
	if s.Title != "" {
		return fmt.Sprintf("segment %q", s.Title)
	}
	return fmt.Sprintf("segment %X", s.UID)
}
