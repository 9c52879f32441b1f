package i2cdec

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelinePollCycle(t *testing.T) {
	/* One poll of the status register followed by a response carrying
	   a valid touch count. */
	synth := NewSynth(SynthConfig{})
	synth.Frame(0x38, DirWrite, []byte{0x02}, nil)
	synth.Idle(500 * time.Microsecond)
	synth.Frame(0x38, DirRead, []byte{0x05, 0x12, 0x34}, []bool{true, true, false})

	_, evs, s := runEdges(t, synth.Edges())

	require.Len(t, evs, 2)
	assert.Equal(t, KindPollRequest, evs[0].Kind)
	assert.Equal(t, KindFreshResponse, evs[1].Kind)
	assert.True(t, evs[0].Time < evs[1].Time)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Polls)
	assert.Equal(t, uint64(1), snap.Fresh)
	assert.Zero(t, snap.Stale)
	assert.Zero(t, snap.PollIntervals)
	assert.Zero(t, snap.AvgPollInterval)
	assert.Equal(t, 1.0, snap.FreshRatio)
	assert.Zero(t, s.Anomalies().Total())
}

func TestPipelineLongSession(t *testing.T) {
	synth := NewSynth(SynthConfig{})

	status := []byte{0x05, 0x00, 0x00, 0x06, 0x06, 0x07}
	for _, st := range status {
		synth.Frame(0x38, DirWrite, []byte{0x02}, nil)
		synth.Idle(200 * time.Microsecond)
		synth.Frame(0x38, DirRead, []byte{st, 0x12}, nil)
		synth.Idle(10 * time.Millisecond)
	}

	_, evs, s := runEdges(t, synth.Edges())
	require.Len(t, evs, 2*len(status))

	/* Expected intervals follow from the classified event times, the
	   sums telescope to last minus first. */
	var polls, fresh []time.Duration
	for _, ev := range evs {
		switch ev.Kind {
		case KindPollRequest:
			polls = append(polls, ev.Time)
		case KindFreshResponse:
			fresh = append(fresh, ev.Time)
		}
	}
	require.Len(t, polls, 6)
	require.Len(t, fresh, 4)

	snap := s.Snapshot()
	assert.Equal(t, uint64(6), snap.Polls)
	assert.Equal(t, uint64(4), snap.Fresh)
	assert.Equal(t, uint64(2), snap.Stale)

	assert.Equal(t, uint64(5), snap.PollIntervals)
	assert.Equal(t, (polls[5]-polls[0])/5, snap.AvgPollInterval)

	assert.Equal(t, uint64(3), snap.FreshIntervals)
	assert.Equal(t, (fresh[3]-fresh[0])/3, snap.AvgFreshInterval)

	assert.InDelta(t, 4.0/6.0, snap.FreshRatio, 1e-9)
}

func TestPipelineLogsDecodeAnomalies(t *testing.T) {
	var logged []string

	s, err := New(Config{
		Profile: ProfileFT6x36(),
		LogFunc: func(level int, format string, param ...interface{}) {
			if level == 2 {
				logged = append(logged, fmt.Sprintf(format, param...))
			}
		},
	})
	require.NoError(t, err)

	synth := NewSynth(SynthConfig{})
	synth.Start()
	synth.Byte(0x38<<1, true)
	synth.Byte(0x02, true)
	synth.Start()
	synth.Byte(0x38<<1|1, true)
	synth.Byte(0x05, true)
	synth.Stop()

	for _, e := range synth.Edges() {
		s.Feed(e)
	}

	require.Len(t, logged, 1)
	assert.True(t, strings.Contains(logged[0], "Restart"), logged[0])
}

func TestNewRejectsBadProfile(t *testing.T) {
	_, err := New(Config{
		Profile: Profile{Addr: 0x9A, Fresh: func([]byte) bool { return true }},
	})
	assert.Equal(t, ErrorInvalidAddress, err)

	_, err = New(Config{Profile: Profile{Addr: 0x38}})
	assert.Equal(t, ErrorNoFreshnessCheck, err)
}
