package events

import (
	"context"
	"strconv"
	"sync"

	"github.com/autobrr/go-mkvnav/internal/dvdvm"
)

// Target is what button commands act on. navigator.Session satisfies it.
type Target interface {
	Registers() *dvdvm.Registers
	ExecuteCommand(cmd []byte) bool
}

// Loop serializes navigation events onto one goroutine so no two command
// executions ever interleave.
type Loop struct {
	target Target
	sink   dvdvm.Sink
	queue  chan Event

	mu   sync.Mutex
	menu *Menu

	closeOnce sync.Once
}

func NewLoop(target Target, sink dvdvm.Sink) *Loop {
	if sink == nil {
		sink = dvdvm.Discard
	}
	return &Loop{
		target: target,
		sink:   sink,
		queue:  make(chan Event, 16),
	}
}

// SetMenu installs the button table events are resolved against. A nil menu
// removes it.
func (l *Loop) SetMenu(menu *Menu) {
	l.mu.Lock()
	l.menu = menu
	l.mu.Unlock()
}

func (l *Loop) currentMenu() *Menu {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.menu
}

// Post queues ev. It blocks while the queue is full and gives up when ctx is
// done.
func (l *Loop) Post(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case l.queue <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events. Run returns once the queue is drained. Post
// must not be called after Close.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.queue) })
}

// Run handles queued events until ctx is cancelled or the loop is closed and
// drained.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-l.queue:
			if !ok {
				return nil
			}
			l.Handle(ev)
		}
	}
}

// Handle processes one event synchronously and reports whether it made the
// target jump.
func (l *Loop) Handle(ev Event) bool {
	switch ev := ev.(type) {
	case ActionEvent:
		return l.handleAction(ev)
	case MouseEvent:
		return l.handleMouse(ev)
	}
	return false
}

func (l *Loop) handleAction(ev ActionEvent) bool {
	menu := l.currentMenu()
	if menu == nil {
		return false
	}
	regs := l.target.Registers()
	current := int(regs.SPRM(dvdvm.SPRMHighlightButton))
	button, ok := menu.Button(current)
	if !ok {
		current = 1
		if button, ok = menu.Button(current); !ok {
			return false
		}
	}

	if ev.Key == KeyActivate {
		return l.activate(current, button)
	}
	next := button.neighbor(ev.Key)
	dest, ok := menu.Button(next)
	if !ok {
		l.highlight(current)
		return false
	}
	if dest.AutoAction {
		return l.activate(next, dest)
	}
	l.highlight(next)
	return false
}

func (l *Loop) handleMouse(ev MouseEvent) bool {
	menu := l.currentMenu()
	n := menu.At(ev.X, ev.Y)
	if n == 0 {
		return false
	}
	l.highlight(n)
	if !ev.Clicked {
		return false
	}
	button, _ := menu.Button(n)
	return l.activate(n, button)
}

func (l *Loop) highlight(n int) {
	l.target.Registers().SetSPRM(dvdvm.SPRMHighlightButton, uint16(n))
}

func (l *Loop) activate(n int, button Button) bool {
	l.highlight(n)
	l.sink.Event(dvdvm.Event{
		Outcome: dvdvm.Trace,
		Command: button.Command,
		Message: "activate button " + strconv.Itoa(n),
	})
	return l.target.ExecuteCommand(button.Command)
}
