package events

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
	"github.com/pkg/errors"
)

// ButtonSize is the length of one packed button record.
const ButtonSize = 18

// buttonRecord is the packed form of a menu button: six bytes of 10-bit
// coordinates, four neighbor bytes and one command word.
type buttonRecord struct {
	Coords  [6]byte
	Up      uint8
	Down    uint8
	Left    uint8
	Right   uint8
	Command [8]byte
}

// Button is one selectable area of a menu. Neighbor fields hold 1-based
// button numbers, 0 when there is none. An AutoAction button runs its command
// as soon as a key moves the highlight onto it.
type Button struct {
	X0, Y0, X1, Y1 int

	Up, Down, Left, Right int
	AutoAction            bool
	Command               []byte
}

func (b Button) contains(x, y int) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

func (b Button) neighbor(key Key) int {
	switch key {
	case KeyUp:
		return b.Up
	case KeyDown:
		return b.Down
	case KeyLeft:
		return b.Left
	case KeyRight:
		return b.Right
	}
	return 0
}

type Menu struct {
	Buttons []Button
}

// ParseMenu unpacks consecutive button records. Trailing bytes that do not
// make a whole record are an error.
func ParseMenu(data []byte) (*Menu, error) {
	if len(data)%ButtonSize != 0 {
		return nil, errors.Errorf("button table is %d bytes, not a multiple of %d", len(data), ButtonSize)
	}
	menu := &Menu{}
	for off := 0; off < len(data); off += ButtonSize {
		var rec buttonRecord
		if err := restruct.Unpack(data[off:off+ButtonSize], binary.BigEndian, &rec); err != nil {
			return nil, errors.Wrapf(err, "button %d", off/ButtonSize+1)
		}
		menu.Buttons = append(menu.Buttons, rec.button())
	}
	return menu, nil
}

func (r buttonRecord) button() Button {
	c := r.Coords
	cmd := make([]byte, len(r.Command))
	copy(cmd, r.Command[:])
	return Button{
		X0:         int(c[0]&0x3F)<<4 | int(c[1]>>4),
		X1:         int(c[1]&0x03)<<8 | int(c[2]),
		AutoAction: c[3]&0xC0 != 0,
		Y0:         int(c[3]&0x3F)<<4 | int(c[4]>>4),
		Y1:         int(c[4]&0x03)<<8 | int(c[5]),
		Up:         int(r.Up & 0x3F),
		Down:       int(r.Down & 0x3F),
		Left:       int(r.Left & 0x3F),
		Right:      int(r.Right & 0x3F),
		Command:    cmd,
	}
}

// Button returns button n, counting from 1.
func (m *Menu) Button(n int) (Button, bool) {
	if m == nil || n < 1 || n > len(m.Buttons) {
		return Button{}, false
	}
	return m.Buttons[n-1], true
}

// At returns the number of the first button covering (x, y), or 0.
func (m *Menu) At(x, y int) int {
	if m == nil {
		return 0
	}
	for i, b := range m.Buttons {
		if b.contains(x, y) {
			return i + 1
		}
	}
	return 0
}
