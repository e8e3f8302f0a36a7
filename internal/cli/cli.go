package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/autobrr/go-mkvnav/internal/chapter"
	"github.com/autobrr/go-mkvnav/internal/config"
	"github.com/autobrr/go-mkvnav/internal/dvdvm"
	"github.com/autobrr/go-mkvnav/internal/events"
	"github.com/autobrr/go-mkvnav/internal/matroska"
	"github.com/autobrr/go-mkvnav/internal/navigator"
)

const (
	exitOK    = 0
	exitError = 1
)

type Options struct {
	Config string
	Enter  uint64
	Keys   []string
	Trace  bool
	Color  bool
}

// LoadSegments reads every path as one segment. YAML files are navigation
// fixtures and may hold several segments.
func LoadSegments(paths []string) ([]*chapter.Segment, error) {
	var segments []*chapter.Segment
	for _, path := range paths {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			loaded, err := chapter.LoadYAML(path)
			if err != nil {
				return nil, err
			}
			segments = append(segments, loaded...)
		default:
			seg, err := matroska.ReadFile(path)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		}
	}
	return segments, nil
}

// Chapters prints the chapter tree of each file, or a raw dump of the parsed
// structures.
func Chapters(paths []string, raw bool, stdout, stderr io.Writer) int {
	segments, err := LoadSegments(paths)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	if raw {
		spew.Fdump(stdout, segments)
		return exitOK
	}
	for _, seg := range segments {
		writeSegment(stdout, seg)
	}
	return exitOK
}

func writeSegment(w io.Writer, seg *chapter.Segment) {
	fmt.Fprintln(w, seg.String())
	for i, ed := range seg.Editions {
		flags := ""
		if ed == seg.CurrentEdition() {
			flags += " *"
		}
		if ed.Ordered {
			flags += " ordered"
		}
		if ed.Hidden {
			flags += " hidden"
		}
		fmt.Fprintf(w, "  edition %d uid %d%s\n", i, ed.UID, flags)
		for _, ch := range ed.Chapters {
			writeChapter(w, ch, 2)
		}
	}
}

func writeChapter(w io.Writer, ch *chapter.Chapter, indent int) {
	pad := strings.Repeat("  ", indent)
	line := pad + ch.String()
	if label := ch.CodecName(ch.Depth() == 0); label != "" {
		line += "  " + label
	}
	if ch.Start >= 0 {
		line += "  " + formatTime(ch.Start)
		if ch.End >= 0 {
			line += "-" + formatTime(ch.End)
		}
	}
	if ch.Hidden {
		line += "  hidden"
	}
	if ch.Disabled {
		line += "  disabled"
	}
	fmt.Fprintln(w, line)

	for _, proc := range ch.Processes {
		if len(proc.Private) > 0 {
			fmt.Fprintf(w, "%s  %s private % X\n", pad, proc.Codec, proc.Private)
		}
		for _, phase := range []chapter.Phase{chapter.Enter, chapter.During, chapter.Leave} {
			for _, data := range proc.Commands.Commands(phase) {
				writeCommands(w, pad+"    "+phase.String()+": ", proc.Codec, data)
			}
		}
	}
	for _, child := range ch.Children {
		writeChapter(w, child, indent+1)
	}
}

func writeCommands(w io.Writer, prefix string, codec chapter.CodecID, data []byte) {
	if codec != chapter.CodecDVD {
		fmt.Fprintf(w, "%s%s\n", prefix, strings.TrimRight(string(data), "\x00"))
		return
	}
	if len(data) == 0 {
		return
	}
	count := int(data[0])
	if limit := (len(data) - 1) / dvdvm.WordSize; count > limit {
		count = limit
	}
	for i := 0; i < count; i++ {
		word := data[1+i*dvdvm.WordSize : 1+(i+1)*dvdvm.WordSize]
		fmt.Fprintf(w, "%s%s\n", prefix, dvdvm.Disassemble(word))
	}
}

func formatTime(ns int64) string {
	ms := ns / 1000000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// Disasm decodes hex command words and prints one line per command.
func Disasm(args []string, stdout, stderr io.Writer) int {
	data, err := decodeHex(strings.Join(args, ""))
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	if len(data) == 0 || len(data)%dvdvm.WordSize != 0 {
		fmt.Fprintf(stderr, "expected a multiple of %d bytes, got %d\n", dvdvm.WordSize, len(data))
		return exitError
	}
	for off := 0; off < len(data); off += dvdvm.WordSize {
		word := data[off : off+dvdvm.WordSize]
		fmt.Fprintf(stdout, "% X  %s\n", word, dvdvm.Disassemble(word))
	}
	return exitOK
}

// Play starts a session over paths, feeds it the configured key presses and
// prints the resulting jump history.
func Play(ctx context.Context, paths []string, opts Options, stdout, stderr io.Writer) int {
	s, cfg, err := newSession(paths, opts, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	if !s.Start(cfg.StartChapter) {
		fmt.Fprintln(stderr, "no chapter to start playback from")
		return exitError
	}
	if err := pressKeys(ctx, s, cfg, opts.Keys, stderr); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	writeHistory(stdout, s)
	return exitOK
}

// Exec starts a session over paths and runs one DVD command against it.
func Exec(paths []string, command string, opts Options, stdout, stderr io.Writer) int {
	cmd, err := decodeHex(command)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	s, cfg, err := newSession(paths, opts, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	s.Start(cfg.StartChapter)

	fmt.Fprintln(stdout, dvdvm.Disassemble(cmd))
	jumped := s.ExecuteCommand(cmd)
	fmt.Fprintf(stdout, "jumped: %t\n", jumped)
	writeHistory(stdout, s)
	return exitOK
}

func newSession(paths []string, opts Options, stderr io.Writer) (*navigator.Session, config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, cfg, err
		}
	}
	if opts.Enter != 0 {
		cfg.StartChapter = opts.Enter
	}
	cfg.Trace = cfg.Trace || opts.Trace
	cfg.Color = cfg.Color && opts.Color

	segments, err := LoadSegments(paths)
	if err != nil {
		return nil, cfg, err
	}
	if len(segments) == 0 {
		return nil, cfg, errors.New("no segments loaded")
	}
	cfg.SelectEdition(segments)

	regs := dvdvm.NewRegisters()
	cfg.Apply(regs)

	sinks := dvdvm.Tee{dvdvm.GlogSink{Verbosity: 2}}
	trace := &traceSink{out: stderr, color: cfg.Color}
	if cfg.Trace {
		sinks = append(sinks, trace)
	}
	s := navigator.New(segments, navigator.Options{Sink: sinks, Registers: regs})
	trace.session = s.ID.String()[:8]
	return s, cfg, nil
}

func pressKeys(ctx context.Context, s *navigator.Session, cfg config.Config, keys []string, stderr io.Writer) error {
	if len(keys) == 0 {
		return nil
	}
	menu, err := cfg.ParseMenu()
	if err != nil {
		return err
	}
	if menu == nil {
		fmt.Fprintln(stderr, "no menu configured, key presses are ignored")
	}

	loop := events.NewLoop(s, dvdvm.GlogSink{Verbosity: 2})
	loop.SetMenu(menu)
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	for _, name := range keys {
		key, err := events.ParseKey(name)
		if err != nil {
			loop.Close()
			<-done
			return err
		}
		if err := loop.Post(ctx, events.ActionEvent{Key: key}); err != nil {
			return err
		}
	}
	loop.Close()
	return <-done
}

func writeHistory(w io.Writer, s *navigator.Session) {
	for i, jump := range s.History() {
		fmt.Fprintf(w, "%d: %s / %s\n", i+1, jump.Segment, jump.Chapter)
	}
	if ch := s.CurrentChapter(); ch != nil {
		fmt.Fprintf(w, "current: %s / %s\n", s.CurrentSegment(), ch)
	}
	fmt.Fprintf(w, "gprm: %v\n", s.Registers().GPRMs())
}

func decodeHex(text string) ([]byte, error) {
	text = strings.Join(strings.Fields(text), "")
	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, errors.Wrap(err, "decode hex")
	}
	return data, nil
}
