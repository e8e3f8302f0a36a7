package matroska

import (
	"encoding/binary"
	"math"
)

const unknownVintSize = ^uint64(0)

// forEachElement walks the EBML children of buf. Children with an unknown or
// overflowing size are clamped to the end of buf.
func forEachElement(buf []byte, fn func(id uint64, data []byte)) {
	pos := 0
	for pos < len(buf) {
		id, idLen, ok := readVintID(buf, pos)
		if !ok {
			return
		}
		size, sizeLen, ok := readVintSize(buf, pos+idLen)
		if !ok {
			return
		}
		dataStart := pos + idLen + sizeLen
		dataEnd := len(buf)
		if size != unknownVintSize && size <= uint64(len(buf)-dataStart) {
			dataEnd = dataStart + int(size)
		}
		fn(id, buf[dataStart:dataEnd])
		pos = dataEnd
	}
}

func readVintID(buf []byte, pos int) (uint64, int, bool) {
	if pos >= len(buf) {
		return 0, 0, false
	}
	first := buf[pos]
	length := vintLength(first)
	if length == 0 || length > 4 || pos+length > len(buf) {
		return 0, 0, false
	}
	var value uint64
	for i := 0; i < length; i++ {
		value = (value << 8) | uint64(buf[pos+i])
	}
	return value, length, true
}

func readVintSize(buf []byte, pos int) (uint64, int, bool) {
	if pos >= len(buf) {
		return 0, 0, false
	}
	first := buf[pos]
	length := vintLength(first)
	if length == 0 || pos+length > len(buf) {
		return 0, 0, false
	}
	mask := byte(0xFF >> length)
	value := uint64(first & mask)
	for i := 1; i < length; i++ {
		value = (value << 8) | uint64(buf[pos+i])
	}
	if value == (uint64(1)<<(uint(length*7)))-1 {
		return unknownVintSize, length, true
	}
	return value, length, true
}

func vintLength(first byte) int {
	for i := 0; i < 8; i++ {
		if first&(1<<(7-uint(i))) != 0 {
			return i + 1
		}
	}
	return 0
}

func readUnsigned(buf []byte) (uint64, bool) {
	if len(buf) == 0 || len(buf) > 8 {
		return 0, false
	}
	var value uint64
	for _, b := range buf {
		value = (value << 8) | uint64(b)
	}
	return value, true
}

func readFloat(buf []byte) (float64, bool) {
	switch len(buf) {
	case 4:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(buf))), true
	case 8:
		return math.Float64frombits(binary.BigEndian.Uint64(buf)), true
	}
	return 0, false
}

func readString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

func cloneBytes(buf []byte) []byte {
	if len(buf) == 0 {
		return nil
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out
}
