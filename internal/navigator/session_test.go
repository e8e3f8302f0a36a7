package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/go-mkvnav/internal/chapter"
	"github.com/autobrr/go-mkvnav/internal/dvdvm"
)

const discYAML = `
segments:
  - title: VMG
    editions:
      - chapters:
          - uid: 1
            title: First Play
            processes:
              - codec: 1
                private: "30 00 00 00"
                commands:
                  - time: 1
                    data: ["01 30 02 00 00 00 05 00 00"]
          - uid: 2
            processes:
              - codec: 1
                private: "30 c0 00 00"
            children:
              - uid: 3
                title: Root Menu
                processes:
                  - codec: 1
                    private: "20 00 01 03 00 00 00 00"
                children:
                  - uid: 4
                    processes:
                      - codec: 1
                        private: "08 00 00 01 00"
  - title: VTS 1
    editions:
      - chapters:
          - uid: 10
            processes:
              - codec: 1
                private: "30 80 00 01"
            children:
              - uid: 20
                processes:
                  - codec: 1
                    private: "28 00 05"
                children:
                  - uid: 21
                    processes:
                      - codec: 1
                        private: "20 00 03 00 00 00 00 00"
                    children:
                      - uid: 30
                        processes:
                          - codec: 1
                            private: "10 01"
                            commands:
                              - time: 2
                                data: ["01 53 00 00 07 00 02 00 00"]
                              - time: 0
                                data: ["01 53 00 00 09 00 05 00 00"]
                        children:
                          - uid: 40
                            processes:
                              - codec: 1
                                private: "08 00 00 01 00"
                          - uid: 41
                            processes:
                              - codec: 1
                                private: "08 00 00 02 00"
                                commands:
                                  - time: 1
                                    data: ["01 53 00 00 01 00 03 00 00"]
                      - uid: 31
                        processes:
                          - codec: 1
                            private: "10 02"
  - title: Loop
    editions:
      - chapters:
          - uid: 50
            processes:
              - codec: 0
                commands:
                  - time: 1
                    data: ["GotoAndPlay(50)"]
`

func newDiscSession(t *testing.T) (*Session, *dvdvm.Recorder) {
	t.Helper()
	segments, err := chapter.ParseYAML([]byte(discYAML))
	require.NoError(t, err)
	rec := &dvdvm.Recorder{}
	return New(segments, Options{Sink: rec}), rec
}

func TestSessionStartRunsFirstPlay(t *testing.T) {
	s, _ := newDiscSession(t)

	require.True(t, s.Start(0))
	require.NotNil(t, s.CurrentChapter())
	assert.Equal(t, uint64(40), s.CurrentChapter().UID)
	assert.Equal(t, "VTS 1", s.CurrentSegment().Title)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, uint64(40), history[0].Chapter.UID)
}

func TestSessionStartAtUID(t *testing.T) {
	s, _ := newDiscSession(t)

	require.True(t, s.Start(31))
	assert.Equal(t, uint64(31), s.CurrentChapter().UID)
	assert.False(t, s.Start(999))
}

func TestSessionScriptRunsLeaveAndEnter(t *testing.T) {
	s, _ := newDiscSession(t)
	require.True(t, s.Start(0))

	require.True(t, s.ExecuteScript([]byte("GotoAndPlay(41)")))
	assert.Equal(t, uint64(41), s.CurrentChapter().UID)
	assert.Equal(t, uint16(1), s.Registers().GPRM(3))
	assert.Equal(t, uint16(0), s.Registers().GPRM(2))

	require.True(t, s.ExecuteScript([]byte("GotoAndPlay(31)")))
	assert.Equal(t, uint64(31), s.CurrentChapter().UID)
	assert.Equal(t, uint16(7), s.Registers().GPRM(2))
	// during commands are never run on enter or leave
	assert.Equal(t, uint16(0), s.Registers().GPRM(5))
}

func TestSessionExecuteCommand(t *testing.T) {
	s, _ := newDiscSession(t)
	require.True(t, s.Start(40))

	// JumpVTS_PTT title 5, PTT 2
	require.True(t, s.ExecuteCommand([]byte{0x30, 0x05, 0x00, 0x02, 0x00, 0x05, 0x00, 0x00}))
	assert.Equal(t, uint64(31), s.CurrentChapter().UID)

	// JumpSS VMGM root menu
	require.True(t, s.ExecuteCommand([]byte{0x30, 0x06, 0x00, 0x00, 0x00, 0x43, 0x00, 0x00}))
	assert.Equal(t, uint64(3), s.CurrentChapter().UID)
	assert.Equal(t, "VMG", s.CurrentSegment().Title)

	// LinkCN 1 below the root menu
	require.True(t, s.ExecuteCommand([]byte{0x20, 0x07, 0, 0, 0, 0, 0, 0x01}))
	assert.Equal(t, uint64(4), s.CurrentChapter().UID)
}

func TestSessionSelfJumpTerminates(t *testing.T) {
	s, _ := newDiscSession(t)

	assert.True(t, s.ExecuteScript([]byte("GotoAndPlay(50)")))
	assert.Equal(t, uint64(50), s.CurrentChapter().UID)
	assert.Len(t, s.History(), 1)
}

func TestSessionFind(t *testing.T) {
	s, _ := newDiscSession(t)

	seg, ch := s.Find(dvdvm.PgcType(3), nil)
	require.NotNil(t, ch)
	assert.Equal(t, uint64(3), ch.UID)
	assert.Equal(t, "VMG", seg.Title)

	_, vts := s.FindChapterByUID(10)
	seg, ch = s.Find(dvdvm.CellNumber(1), vts)
	require.NotNil(t, ch)
	assert.Equal(t, uint64(40), ch.UID)
	assert.Equal(t, "VTS 1", seg.Title)

	seg, ch = s.Find(dvdvm.PgcType(3), vts)
	assert.Nil(t, seg)
	assert.Nil(t, ch)

	seg, ch = s.FindChapterByUID(41)
	require.NotNil(t, ch)
	assert.Equal(t, "VTS 1", seg.Title)
}

func TestEnterAndLeaveWithoutCommonParent(t *testing.T) {
	s, _ := newDiscSession(t)
	_, from := s.FindChapterByUID(30)
	_, to := s.FindChapterByUID(3)

	assert.False(t, s.EnterAndLeave(to, from, false))
	assert.Equal(t, uint16(7), s.Registers().GPRM(2))
	assert.False(t, s.EnterAndLeave(nil, from, true))
}

func TestPathBetween(t *testing.T) {
	s, _ := newDiscSession(t)
	_, top := s.FindChapterByUID(10)
	_, leaf := s.FindChapterByUID(41)

	var uids []uint64
	for _, ch := range pathBetween(top, leaf) {
		uids = append(uids, ch.UID)
	}
	assert.Equal(t, []uint64{20, 21, 30, 41}, uids)
	assert.Empty(t, pathBetween(leaf, leaf))
}
