package events

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Event is a navigation trigger coming from the user. It is either a
// MouseEvent or an ActionEvent.
type Event interface {
	isEvent()
}

// MouseEvent is a pointer move, or a click when Clicked is set, in video
// coordinates.
type MouseEvent struct {
	X       int
	Y       int
	Clicked bool
}

func (MouseEvent) isEvent() {}

type ActionEvent struct {
	Key Key
}

func (ActionEvent) isEvent() {}

type Key uint8

const (
	KeyUp Key = iota + 1
	KeyDown
	KeyLeft
	KeyRight
	KeyActivate
)

var keyNames = map[Key]string{
	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyActivate: "activate",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

// ParseKey maps a key name as printed by Key.String back to the key. "enter"
// and "ok" are accepted for activate.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "enter", "ok":
		return KeyActivate, nil
	}
	for key, known := range keyNames {
		if known == name {
			return key, nil
		}
	}
	return 0, errors.Errorf("unknown key %q", name)
}
