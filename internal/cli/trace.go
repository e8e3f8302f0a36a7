package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/autobrr/go-mkvnav/internal/dvdvm"
)

// traceSink prints interpreter events, one per line, tagged with the session.
type traceSink struct {
	out     io.Writer
	color   bool
	session string
}

func (t *traceSink) Event(e dvdvm.Event) {
	c := color.New(outcomeColor(e.Outcome))
	if t.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	fmt.Fprintf(t.out, "[%s] %s\n", t.session, c.Sprint(e.String()))
}

func outcomeColor(o dvdvm.Outcome) color.Attribute {
	switch o {
	case dvdvm.Jumped:
		return color.FgGreen
	case dvdvm.UnmetCondition:
		return color.FgCyan
	case dvdvm.UnresolvedTarget, dvdvm.UnsupportedOpcode:
		return color.FgYellow
	case dvdvm.MalformedCommand, dvdvm.RegisterWriteRejected:
		return color.FgRed
	}
	return color.Faint
}
