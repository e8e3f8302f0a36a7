package navigator

import (
	"github.com/autobrr/go-mkvnav/internal/chapter"
	"github.com/autobrr/go-mkvnav/internal/dvdvm"
)

// Enter runs the enter commands of ch and, with subs, of every chapter below it.
func (s *Session) Enter(ch *chapter.Chapter, subs bool) bool {
	if ch == nil {
		return false
	}
	jumped := s.run(ch, chapter.Enter)
	if subs {
		for _, child := range ch.Children {
			if s.Enter(child, true) {
				jumped = true
			}
		}
	}
	return jumped
}

// Leave runs the leave commands of ch and, with subs, of every chapter below it.
func (s *Session) Leave(ch *chapter.Chapter, subs bool) bool {
	if ch == nil {
		return false
	}
	s.leaving[ch] = true
	defer delete(s.leaving, ch)

	jumped := s.run(ch, chapter.Leave)
	if subs {
		for _, child := range ch.Children {
			if s.Leave(child, true) {
				jumped = true
			}
		}
	}
	return jumped
}

func (s *Session) run(ch *chapter.Chapter, phase chapter.Phase) bool {
	jumped := false
	for i := range ch.Processes {
		proc := &ch.Processes[i]
		for _, data := range proc.Commands.Commands(phase) {
			if len(data) == 0 {
				continue
			}
			switch proc.Codec {
			case chapter.CodecDVD:
				s.sink.Event(dvdvm.Event{Outcome: dvdvm.Trace, Message: "Matroska DVD " + phase.String() + " command"})
				if s.dvd.InterpretBlock(data) {
					jumped = true
				}
			case chapter.CodecScript:
				s.sink.Event(dvdvm.Event{Outcome: dvdvm.Trace, Message: "Matroska Script " + phase.String() + " command"})
				if s.script.Interpret(data) {
					jumped = true
				}
			}
		}
	}
	return jumped
}

// EnterAndLeave leaves from leaving up to the closest chapter that also holds
// target, then enters every chapter on the way down to target. target itself
// is entered only when enter is set. It reports whether one of the commands
// run on the way jumped.
func (s *Session) EnterAndLeave(target, leaving *chapter.Chapter, enter bool) bool {
	if target == nil {
		return false
	}

	common := leaving
	for common != nil && !common.Contains(target) {
		if !s.leaving[common] && s.Leave(common, false) {
			return true
		}
		common = common.Parent()
	}

	if common != nil {
		for _, ch := range pathBetween(common, target) {
			if ch == target {
				break
			}
			if s.Enter(ch, false) {
				return true
			}
		}
	}

	if enter {
		return s.Enter(target, true)
	}
	return false
}

// pathBetween lists the chapters strictly below ancestor down to target,
// outermost first.
func pathBetween(ancestor, target *chapter.Chapter) []*chapter.Chapter {
	var path []*chapter.Chapter
	for ch := target; ch != nil && ch != ancestor; ch = ch.Parent() {
		path = append(path, ch)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
