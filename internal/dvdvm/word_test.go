package dvdvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordConditionLayouts(t *testing.T) {
	for _, tc := range []struct {
		name string
		cmd  []byte
		want Condition
	}{
		{
			name: "group 6 test bits pick byte 5",
			cmd:  []byte{0x60, 0x20, 0x00, 0x00, 0x01, 0x02, 0x00, 0x03},
			want: Condition{Test: TestEqual, Register: 2, Operand: 3},
		},
		{
			name: "group 7 without test bits reads byte 4",
			cmd:  []byte{0x70, 0x00, 0x00, 0x00, 0x04, 0x09, 0x12, 0x34},
			want: Condition{Test: TestNone, Register: 4, Operand: 0x1234},
		},
		{
			name: "group 6 keeps the immediate flag",
			cmd:  []byte{0x60, 0xB0, 0x00, 0x00, 0x01, 0x03, 0x00, 0x2A},
			want: Condition{Test: TestNotEqual, Register: 3, Operand: 42, Immediate: true},
		},
		{
			name: "group 7 wide operand",
			cmd:  []byte{0x71, 0xC0, 0x00, 0x00, 0x07, 0x08, 0xFF, 0xFF},
			want: Condition{Test: TestGreaterEqual, Register: 8, Operand: 0xFFFF, Immediate: true},
		},
		{
			name: "group 3 forces a register operand",
			cmd:  []byte{0x30, 0xA2, 0x00, 0x00, 0x00, 0x05, 0x00, 0x01},
			want: Condition{Test: TestEqual, Register: 0, Operand: 1},
		},
		{
			name: "group 2 reads bytes 3 and 4..5",
			cmd:  []byte{0x20, 0xA7, 0x00, 0x03, 0x00, 0x07, 0x00, 0x02},
			want: Condition{Test: TestEqual, Register: 3, Operand: 7, Immediate: true},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w, err := DecodeWord(tc.cmd)
			require.NoError(t, err)
			assert.Equal(t, tc.want, w.Condition())
		})
	}
}
