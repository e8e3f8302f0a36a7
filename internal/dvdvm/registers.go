package dvdvm

import "fmt"

const (
	registerCount = 256
	gprmCount     = 16

	sprmBase  = 0x80
	sprmLimit = 0x95

	// SPRMHighlightButton holds the highlighted button number.
	SPRMHighlightButton = 0x88
)

// Registers is the parameter bank shared by every command executed during a
// playback session. General parameters live at 0..15, system parameters at
// 0x80..0x94.
type Registers struct {
	prm [registerCount]uint16
}

func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset clears the bank and restores player defaults for the system parameters.
func (r *Registers) Reset() {
	r.prm = [registerCount]uint16{}
	r.prm[sprmBase+1] = 15 // audio stream
	r.prm[sprmBase+2] = 62 // sub-picture stream
	r.prm[sprmBase+3] = 1  // angle
	r.prm[sprmBase+4] = 1  // title
	r.prm[sprmBase+5] = 1  // VTS title
	r.prm[sprmBase+7] = 1  // chapter
	r.prm[sprmBase+12] = 'U'<<8 | 'S'
	r.prm[sprmBase+13] = 15     // parental level
	r.prm[sprmBase+14] = 0x0C00 // 16:9 letterboxed
	r.prm[sprmBase+16] = 'e'<<8 | 'n'
	r.prm[sprmBase+18] = 'e'<<8 | 'n'
	r.prm[sprmBase+20] = 1 // region 1
}

// Get reads any parameter by its raw index. Unknown indexes read 0.
func (r *Registers) Get(index uint16) uint16 {
	if index < registerCount {
		return r.prm[index]
	}
	return 0
}

func (r *Registers) GPRM(index uint16) uint16 {
	if index < gprmCount {
		return r.prm[index]
	}
	return 0
}

func (r *Registers) SPRM(index uint16) uint16 {
	if index >= sprmBase && index < sprmLimit {
		return r.prm[index]
	}
	return 0
}

// Set writes a general parameter. It reports false when index is not a GPRM.
func (r *Registers) Set(index, value uint16) bool {
	if index < gprmCount {
		r.prm[index] = value
		return true
	}
	return false
}

// SetSPRM writes one of the player-writable system parameters (0x81..0x8A).
func (r *Registers) SetSPRM(index, value uint16) bool {
	if index > sprmBase && index <= sprmBase+10 {
		r.prm[index] = value
		return true
	}
	return false
}

// GPRMs returns a copy of the general parameters.
func (r *Registers) GPRMs() []uint16 {
	out := make([]uint16, gprmCount)
	copy(out, r.prm[:gprmCount])
	return out
}

// RegisterName renders an operand for diagnostics.
func RegisterName(immediate bool, value uint16) string {
	switch {
	case immediate:
		return fmt.Sprintf("value (%d)", value)
	case value < sprmBase:
		return fmt.Sprintf("GPreg[%d]", value)
	default:
		return fmt.Sprintf("SPreg[%d]", value)
	}
}
