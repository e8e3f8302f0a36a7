package dvdvm

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const gotoAndPlay = "GotoAndPlay"

// ScriptInterpreter executes Matroska Script commands. The only command is
// GotoAndPlay(<chapter uid>).
type ScriptInterpreter struct {
	nav  Navigator
	sink Sink
}

func NewScriptInterpreter(nav Navigator, sink Sink) *ScriptInterpreter {
	if sink == nil {
		sink = Discard
	}
	return &ScriptInterpreter{nav: nav, sink: sink}
}

// Interpret runs one script command and reports whether it moved playback.
func (s *ScriptInterpreter) Interpret(cmd []byte) bool {
	text := decodeScript(cmd)
	emit(s.sink, Trace, nil, "command : %s", text)

	if !strings.HasPrefix(text, gotoAndPlay) {
		emit(s.sink, UnsupportedOpcode, nil, "unknown script command %q", text)
		return false
	}
	uid, ok := parseGotoAndPlay(text[len(gotoAndPlay):])
	if !ok {
		emit(s.sink, MalformedCommand, nil, "malformed %q", text)
		return false
	}

	seg, target := s.nav.FindChapterByUID(uid)
	if target == nil {
		emit(s.sink, UnresolvedTarget, nil, "chapter %d not found", uid)
		return false
	}
	if !s.nav.EnterAndLeave(target, s.nav.CurrentChapter(), false) {
		emit(s.sink, Jumped, nil, "jump to %s in %s", target, seg)
		s.nav.JumpTo(seg, target)
	}
	return true
}

// parseGotoAndPlay reads "(<decimal uid>)" from what follows the command name.
func parseGotoAndPlay(args string) (uint64, bool) {
	open := strings.IndexByte(args, '(')
	if open < 0 {
		return 0, false
	}
	rest := args[open+1:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return 0, false
	}
	uid, err := strconv.ParseUint(strings.TrimSpace(rest[:end]), 10, 64)
	if err != nil {
		return 0, false
	}
	return uid, true
}

// decodeScript strips a UTF-8 or UTF-16 byte order mark and trailing NULs.
func decodeScript(cmd []byte) string {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, cmd)
	if err != nil {
		out = cmd
	}
	return strings.TrimRight(string(out), "\x00")
}
