package matroska

import (
	"github.com/autobrr/go-mkvnav/internal/chapter"
)

const (
	mkvIDEditionEntry       = 0x45B9
	mkvIDEditionUID         = 0x45BC
	mkvIDEditionFlagHidden  = 0x45BD
	mkvIDEditionFlagDefault = 0x45DB
	mkvIDEditionFlagOrdered = 0x45DD

	mkvIDChapterAtom        = 0xB6
	mkvIDChapterUID         = 0x73C4
	mkvIDChapterTimeStart   = 0x91
	mkvIDChapterTimeEnd     = 0x92
	mkvIDChapterFlagHidden  = 0x98
	mkvIDChapterFlagEnabled = 0x4598
	mkvIDChapterDisplay     = 0x80
	mkvIDChapString         = 0x85

	mkvIDChapProcess        = 0x6944
	mkvIDChapProcessCodecID = 0x6955
	mkvIDChapProcessPrivate = 0x450D
	mkvIDChapProcessCommand = 0x6911
	mkvIDChapProcessTime    = 0x6922
	mkvIDChapProcessData    = 0x6933
)

func parseChapters(buf []byte) []*chapter.Edition {
	var editions []*chapter.Edition
	forEachElement(buf, func(id uint64, data []byte) {
		if id == mkvIDEditionEntry {
			editions = append(editions, parseEdition(data))
		}
	})
	return editions
}

func parseEdition(buf []byte) *chapter.Edition {
	ed := &chapter.Edition{}
	forEachElement(buf, func(id uint64, data []byte) {
		switch id {
		case mkvIDEditionUID:
			ed.UID, _ = readUnsigned(data)
		case mkvIDEditionFlagHidden:
			ed.Hidden = readFlag(data)
		case mkvIDEditionFlagDefault:
			ed.Default = readFlag(data)
		case mkvIDEditionFlagOrdered:
			ed.Ordered = readFlag(data)
		case mkvIDChapterAtom:
			ed.Chapters = append(ed.Chapters, parseAtom(data))
		}
	})
	return ed
}

func parseAtom(buf []byte) *chapter.Chapter {
	ch := &chapter.Chapter{Start: -1, End: -1}
	forEachElement(buf, func(id uint64, data []byte) {
		switch id {
		case mkvIDChapterUID:
			ch.UID, _ = readUnsigned(data)
		case mkvIDChapterTimeStart:
			if value, ok := readUnsigned(data); ok {
				ch.Start = int64(value)
			}
		case mkvIDChapterTimeEnd:
			if value, ok := readUnsigned(data); ok {
				ch.End = int64(value)
			}
		case mkvIDChapterFlagHidden:
			ch.Hidden = readFlag(data)
		case mkvIDChapterFlagEnabled:
			if value, ok := readUnsigned(data); ok {
				ch.Disabled = value == 0
			}
		case mkvIDChapterDisplay:
			if ch.Title == "" {
				ch.Title = parseDisplay(data)
			}
		case mkvIDChapProcess:
			ch.Processes = append(ch.Processes, parseProcess(data))
		case mkvIDChapterAtom:
			ch.AddChild(parseAtom(data))
		}
	})
	return ch
}

func parseDisplay(buf []byte) string {
	title := ""
	forEachElement(buf, func(id uint64, data []byte) {
		if id == mkvIDChapString && title == "" {
			title = readString(data)
		}
	})
	return title
}

func parseProcess(buf []byte) chapter.Process {
	var proc chapter.Process
	forEachElement(buf, func(id uint64, data []byte) {
		switch id {
		case mkvIDChapProcessCodecID:
			if value, ok := readUnsigned(data); ok {
				proc.Codec = chapter.CodecID(value)
			}
		case mkvIDChapProcessPrivate:
			proc.Private = cloneBytes(data)
		case mkvIDChapProcessCommand:
			proc.Commands.AddCommand(parseCommand(data))
		}
	})
	return proc
}

func parseCommand(buf []byte) chapter.ProcessCommand {
	var cmd chapter.ProcessCommand
	forEachElement(buf, func(id uint64, data []byte) {
		switch id {
		case mkvIDChapProcessTime:
			// the first time tag decides the phase
			if value, ok := readUnsigned(data); ok && !cmd.HasTime {
				cmd.HasTime = true
				cmd.Time = uint32(value)
			}
		case mkvIDChapProcessData:
			cmd.Data = append(cmd.Data, data)
		}
	})
	return cmd
}

func readFlag(buf []byte) bool {
	value, ok := readUnsigned(buf)
	return ok && value != 0
}
