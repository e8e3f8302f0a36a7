package dvdvm

import (
	"fmt"
	"sync"
)

// Outcome classifies what happened while interpreting one command.
type Outcome uint8

const (
	Trace Outcome = iota
	Jumped
	MalformedCommand
	UnmetCondition
	UnresolvedTarget
	UnsupportedOpcode
	RegisterWriteRejected
)

func (o Outcome) String() string {
	switch o {
	case Trace:
		return "trace"
	case Jumped:
		return "jump"
	case MalformedCommand:
		return "malformed command"
	case UnmetCondition:
		return "unmet condition"
	case UnresolvedTarget:
		return "unresolved target"
	case UnsupportedOpcode:
		return "unsupported opcode"
	case RegisterWriteRejected:
		return "register write rejected"
	}
	return "unknown"
}

// Event is one diagnostic emitted by the interpreters.
type Event struct {
	Outcome Outcome
	Command []byte
	Message string
}

func (e Event) String() string {
	if len(e.Command) > 0 {
		return fmt.Sprintf("%s: %s [% X]", e.Outcome, e.Message, e.Command)
	}
	return fmt.Sprintf("%s: %s", e.Outcome, e.Message)
}

// Sink receives interpreter diagnostics.
type Sink interface {
	Event(Event)
}

type discard struct{}

func (discard) Event(Event) {}

// Discard drops every event.
var Discard Sink = discard{}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Event(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events carried outcome o.
func (r *Recorder) Count(o Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Tee fans events out to several sinks.
type Tee []Sink

func (t Tee) Event(e Event) {
	for _, s := range t {
		s.Event(e)
	}
}

func emit(s Sink, outcome Outcome, cmd []byte, format string, args ...any) {
	s.Event(Event{Outcome: outcome, Command: cmd, Message: fmt.Sprintf(format, args...)})
}
