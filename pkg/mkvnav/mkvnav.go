package mkvnav

import (
	"github.com/autobrr/go-mkvnav/internal/chapter"
	"github.com/autobrr/go-mkvnav/internal/config"
	"github.com/autobrr/go-mkvnav/internal/dvdvm"
	"github.com/autobrr/go-mkvnav/internal/events"
	"github.com/autobrr/go-mkvnav/internal/matroska"
	"github.com/autobrr/go-mkvnav/internal/navigator"
)

// Types
type Segment = chapter.Segment
type Edition = chapter.Edition
type Chapter = chapter.Chapter
type Process = chapter.Process
type CommandSet = chapter.CommandSet
type ProcessCommand = chapter.ProcessCommand
type Phase = chapter.Phase

type Session = navigator.Session
type SessionOptions = navigator.Options
type Jump = navigator.Jump

type Registers = dvdvm.Registers
type Predicate = dvdvm.Predicate
type Sink = dvdvm.Sink
type Event = dvdvm.Event
type Outcome = dvdvm.Outcome
type Recorder = dvdvm.Recorder

type Config = config.Config
type Menu = events.Menu
type Loop = events.Loop

// Constants
const (
	PhaseDuring = chapter.During
	PhaseEnter  = chapter.Enter
	PhaseLeave  = chapter.Leave

	Trace                 = dvdvm.Trace
	Jumped                = dvdvm.Jumped
	MalformedCommand      = dvdvm.MalformedCommand
	UnmetCondition        = dvdvm.UnmetCondition
	UnresolvedTarget      = dvdvm.UnresolvedTarget
	UnsupportedOpcode     = dvdvm.UnsupportedOpcode
	RegisterWriteRejected = dvdvm.RegisterWriteRejected
)

// Loading
func ReadFile(path string) (*Segment, error) {
	return matroska.ReadFile(path)
}

func LoadYAML(path string) ([]*Segment, error) {
	return chapter.LoadYAML(path)
}

func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// Sessions
func NewSession(segments []*Segment, opts SessionOptions) *Session {
	return navigator.New(segments, opts)
}

func NewRegisters() *Registers {
	return dvdvm.NewRegisters()
}

func NewLoop(session *Session, sink Sink) *Loop {
	return events.NewLoop(session, sink)
}

func Disassemble(cmd []byte) string {
	return dvdvm.Disassemble(cmd)
}
