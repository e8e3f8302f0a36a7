package chapter

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Fixture documents describe navigation trees in YAML. Binary fields are hex
// strings; whitespace inside them is ignored.
//
//	segments:
//	  - title: VMG
//	    editions:
//	      - chapters:
//	          - uid: 1
//	            processes:
//	              - codec: 1
//	                private: "30 c0"
//	                commands:
//	                  - time: 1
//	                    data: ["01 30 02 00 00 00 05 00 00"]
type fixtureDoc struct {
	Segments []fixtureSegment `yaml:"segments"`
}

type fixtureSegment struct {
	UID      string           `yaml:"uid"`
	Title    string           `yaml:"title"`
	Editions []fixtureEdition `yaml:"editions"`
}

type fixtureEdition struct {
	UID      uint64           `yaml:"uid"`
	Hidden   bool             `yaml:"hidden"`
	Default  bool             `yaml:"default"`
	Ordered  bool             `yaml:"ordered"`
	Chapters []fixtureChapter `yaml:"chapters"`
}

type fixtureChapter struct {
	UID       uint64           `yaml:"uid"`
	Title     string           `yaml:"title"`
	Start     int64            `yaml:"start"`
	End       int64            `yaml:"end"`
	Hidden    bool             `yaml:"hidden"`
	Disabled  bool             `yaml:"disabled"`
	Processes []fixtureProcess `yaml:"processes"`
	Children  []fixtureChapter `yaml:"children"`
}

type fixtureProcess struct {
	Codec    uint8            `yaml:"codec"`
	Private  string           `yaml:"private"`
	Commands []fixtureCommand `yaml:"commands"`
}

type fixtureCommand struct {
	Time *uint32  `yaml:"time"`
	Data []string `yaml:"data"`
}

func LoadYAML(path string) ([]*Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read chapter fixture")
	}
	segments, err := ParseYAML(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	for _, seg := range segments {
		seg.Filename = path
	}
	return segments, nil
}

func ParseYAML(data []byte) ([]*Segment, error) {
	var doc fixtureDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	segments := make([]*Segment, 0, len(doc.Segments))
	for i, fs := range doc.Segments {
		uid, err := decodeHex(fs.UID)
		if err != nil {
			return nil, errors.Wrapf(err, "segment %d uid", i)
		}
		seg := &Segment{UID: uid, Title: fs.Title}
		for _, fe := range fs.Editions {
			ed := &Edition{UID: fe.UID, Hidden: fe.Hidden, Default: fe.Default, Ordered: fe.Ordered}
			for _, fc := range fe.Chapters {
				ch, err := buildFixtureChapter(fc)
				if err != nil {
					return nil, errors.Wrapf(err, "segment %d", i)
				}
				ed.Chapters = append(ed.Chapters, ch)
			}
			seg.Editions = append(seg.Editions, ed)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func buildFixtureChapter(fc fixtureChapter) (*Chapter, error) {
	ch := &Chapter{
		UID:      fc.UID,
		Title:    fc.Title,
		Start:    fc.Start,
		End:      fc.End,
		Hidden:   fc.Hidden,
		Disabled: fc.Disabled,
	}
	for _, fp := range fc.Processes {
		private, err := decodeHex(fp.Private)
		if err != nil {
			return nil, errors.Wrapf(err, "chapter %d private", fc.UID)
		}
		proc := Process{Codec: CodecID(fp.Codec), Private: private}
		for _, fcmd := range fp.Commands {
			cmd := ProcessCommand{}
			if fcmd.Time != nil {
				cmd.HasTime = true
				cmd.Time = *fcmd.Time
			}
			for _, raw := range fcmd.Data {
				payload, err := decodePayload(CodecID(fp.Codec), raw)
				if err != nil {
					return nil, errors.Wrapf(err, "chapter %d command", fc.UID)
				}
				cmd.Data = append(cmd.Data, payload)
			}
			proc.Commands.AddCommand(cmd)
		}
		ch.Processes = append(ch.Processes, proc)
	}
	for _, child := range fc.Children {
		sub, err := buildFixtureChapter(child)
		if err != nil {
			return nil, err
		}
		ch.AddChild(sub)
	}
	return ch, nil
}

// Script payloads are text; DVD payloads are hex.
func decodePayload(codec CodecID, raw string) ([]byte, error) {
	if codec == CodecScript {
		return []byte(raw), nil
	}
	return decodeHex(raw)
}

func decodeHex(value string) ([]byte, error) {
	value = strings.Join(strings.Fields(value), "")
	if value == "" {
		return nil, nil
	}
	return hex.DecodeString(value)
}
