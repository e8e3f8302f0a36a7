package chapter

// Phase selects which bucket of a CommandSet a ChapProcessData payload lands in.
type Phase uint8

const (
	During Phase = iota
	Enter
	Leave
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case During:
		return "during"
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	}
	return "unknown"
}

// ProcessCommand mirrors one ChapProcessCommand element.
type ProcessCommand struct {
	HasTime bool
	Time    uint32
	Data    [][]byte
}

// CommandSet holds the raw command payloads of one chapter process,
// bucketed by ChapProcessTime. Payloads are opaque here.
type CommandSet struct {
	buckets [phaseCount][][]byte
}

// AddCommand files every payload of cmd under the phase named by its time tag.
// Commands without a time tag, or with a tag outside 0..2, are dropped.
func (s *CommandSet) AddCommand(cmd ProcessCommand) {
	if !cmd.HasTime || cmd.Time >= uint32(phaseCount) {
		return
	}
	phase := Phase(cmd.Time)
	for _, data := range cmd.Data {
		payload := make([]byte, len(data))
		copy(payload, data)
		s.buckets[phase] = append(s.buckets[phase], payload)
	}
}

func (s *CommandSet) Commands(phase Phase) [][]byte {
	if phase >= phaseCount {
		return nil
	}
	return s.buckets[phase]
}

func (s *CommandSet) Len() int {
	n := 0
	for _, bucket := range s.buckets {
		n += len(bucket)
	}
	return n
}
