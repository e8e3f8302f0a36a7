package matroska

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/autobrr/go-mkvnav/internal/chapter"
)

const (
	mkvIDEBML          = 0x1A45DFA3
	mkvIDDocType       = 0x4282
	mkvIDSegment       = 0x18538067
	mkvIDInfo          = 0x1549A966
	mkvIDSegmentUID    = 0x73A4
	mkvIDTitle         = 0x7BA9
	mkvIDTimecodeScale = 0x2AD7B1
	mkvIDDuration      = 0x4489
	mkvIDChapters      = 0x1043A770

	// headerPeek covers the largest element header: 4 byte ID + 8 byte size.
	headerPeek = 12
	// maxElementLoad caps how much of a single top-level element is loaded.
	maxElementLoad = int64(16 << 20)
)

var ErrNotMatroska = errors.New("not a matroska file")

// ReadFile opens path and reads its chapter tree.
func ReadFile(path string) (*chapter.Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat")
	}
	seg, err := Parse(file, stat.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	seg.Filename = path
	return seg, nil
}

// Parse reads the EBML header and the Info and Chapters elements of the first
// Segment. Clusters are skipped without being read.
func Parse(r io.ReaderAt, size int64) (*chapter.Segment, error) {
	h, err := readHeader(r, 0, size)
	if err != nil || h.id != mkvIDEBML {
		return nil, ErrNotMatroska
	}
	header, err := load(r, h)
	if err != nil {
		return nil, err
	}
	if !isMatroskaDocType(header) {
		return nil, ErrNotMatroska
	}

	pos := h.end()
	for pos < size {
		h, err := readHeader(r, pos, size)
		if err != nil {
			return nil, err
		}
		if h.id == mkvIDSegment {
			return parseSegment(r, h)
		}
		if h.unknown {
			break
		}
		pos = h.end()
	}
	return nil, errors.New("no segment element")
}

func isMatroskaDocType(header []byte) bool {
	docType := "matroska"
	forEachElement(header, func(id uint64, data []byte) {
		if id == mkvIDDocType {
			docType = readString(data)
		}
	})
	return docType == "matroska" || docType == "webm"
}

func parseSegment(r io.ReaderAt, seg header) (*chapter.Segment, error) {
	out := &chapter.Segment{}
	pos := seg.dataStart
	for pos < seg.dataEnd {
		h, err := readHeader(r, pos, seg.dataEnd)
		if err != nil {
			break
		}
		switch h.id {
		case mkvIDInfo:
			data, err := load(r, h)
			if err != nil {
				return nil, err
			}
			parseInfo(data, out)
		case mkvIDChapters:
			data, err := load(r, h)
			if err != nil {
				return nil, err
			}
			out.Editions = append(out.Editions, parseChapters(data)...)
		}
		// an unknown-sized cluster runs to the end of the segment
		if h.unknown {
			break
		}
		pos = h.end()
	}
	return out, nil
}

func parseInfo(buf []byte, seg *chapter.Segment) {
	scale := uint64(1000000)
	var duration float64
	forEachElement(buf, func(id uint64, data []byte) {
		switch id {
		case mkvIDSegmentUID:
			seg.UID = cloneBytes(data)
		case mkvIDTitle:
			seg.Title = readString(data)
		case mkvIDTimecodeScale:
			if value, ok := readUnsigned(data); ok && value > 0 {
				scale = value
			}
		case mkvIDDuration:
			if value, ok := readFloat(data); ok {
				duration = value
			}
		}
	})
	seg.Duration = int64(duration * float64(scale))
}

type header struct {
	id        uint64
	dataStart int64
	dataEnd   int64
	unknown   bool
}

func (h header) end() int64 {
	return h.dataEnd
}

func readHeader(r io.ReaderAt, pos, limit int64) (header, error) {
	peek := int64(headerPeek)
	if pos+peek > limit {
		peek = limit - pos
	}
	if peek <= 0 {
		return header{}, io.ErrUnexpectedEOF
	}
	buf := make([]byte, peek)
	n, err := r.ReadAt(buf, pos)
	if n == 0 && err != nil {
		return header{}, errors.Wrap(err, "read element header")
	}
	buf = buf[:n]

	id, idLen, ok := readVintID(buf, 0)
	if !ok {
		return header{}, errors.Errorf("bad element id at %d", pos)
	}
	size, sizeLen, ok := readVintSize(buf, idLen)
	if !ok {
		return header{}, errors.Errorf("bad element size at %d", pos)
	}
	h := header{id: id, dataStart: pos + int64(idLen+sizeLen)}
	if size == unknownVintSize || int64(size) < 0 || h.dataStart+int64(size) > limit {
		h.dataEnd = limit
		h.unknown = size == unknownVintSize
	} else {
		h.dataEnd = h.dataStart + int64(size)
	}
	return h, nil
}

func load(r io.ReaderAt, h header) ([]byte, error) {
	length := h.dataEnd - h.dataStart
	if length > maxElementLoad {
		return nil, errors.Errorf("element 0x%X too large (%d bytes)", h.id, length)
	}
	buf := make([]byte, length)
	if _, err := r.ReadAt(buf, h.dataStart); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read element 0x%X", h.id)
	}
	return buf, nil
}
