package i2cdec

import (
	"testing"
	"time"

	"github.com/BertoldVdb/i2ctap/gpioedge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runEdges(t *testing.T, edges []gpioedge.Edge) ([]*Transaction, []Event, *Sniffer) {
	t.Helper()

	var txs []*Transaction
	var evs []Event

	s, err := New(Config{
		Profile: ProfileFT6x36(),
		OnTransaction: func(tx *Transaction) {
			txs = append(txs, tx)
		},
		OnEvent: func(ev Event) {
			evs = append(evs, ev)
		},
	})
	require.NoError(t, err)

	for _, e := range edges {
		s.Feed(e)
	}

	return txs, evs, s
}

func TestDecodeWriteFrame(t *testing.T) {
	synth := NewSynth(SynthConfig{})
	synth.Frame(0x38, DirWrite, []byte{0x02}, nil)

	txs, _, s := runEdges(t, synth.Edges())

	require.Len(t, txs, 1)
	tx := txs[0]

	assert.Equal(t, byte(0x38), tx.Addr)
	assert.Equal(t, DirWrite, tx.Dir)
	assert.True(t, tx.AddrAck)
	assert.Equal(t, []byte{0x02}, tx.Data)
	assert.Equal(t, []bool{true}, tx.Ack)

	edges := synth.Edges()
	assert.Equal(t, edges[0].Time, tx.Start)
	assert.Equal(t, edges[len(edges)-1].Time, tx.Stop)

	anom := s.Anomalies()
	assert.Zero(t, anom.Total())
}

func TestDecodeReadFrameWithNack(t *testing.T) {
	synth := NewSynth(SynthConfig{})
	synth.Frame(0x38, DirRead, []byte{0x05, 0x11, 0x22}, []bool{true, true, false})

	txs, _, s := runEdges(t, synth.Edges())

	require.Len(t, txs, 1)
	tx := txs[0]

	assert.Equal(t, byte(0x38), tx.Addr)
	assert.Equal(t, DirRead, tx.Dir)
	assert.Equal(t, []byte{0x05, 0x11, 0x22}, tx.Data)
	assert.Equal(t, []bool{true, true, false}, tx.Ack)
	assert.Zero(t, s.Anomalies().Total())
}

func TestDecodeAddressNack(t *testing.T) {
	synth := NewSynth(SynthConfig{})
	synth.Start()
	synth.Byte(0x38<<1, false)
	synth.Stop()

	txs, _, s := runEdges(t, synth.Edges())

	require.Len(t, txs, 1)
	assert.False(t, txs[0].AddrAck)
	assert.Empty(t, txs[0].Data)
	assert.Zero(t, s.Anomalies().Total())
}

func TestDecodeRepeatedStartDiscards(t *testing.T) {
	/* A combined write then read transfer: the write half is cut off
	   by the repeated start and must never be emitted. */
	synth := NewSynth(SynthConfig{})
	synth.Start()
	synth.Byte(0x38<<1|byte(DirWrite), true)
	synth.Byte(0x02, true)
	synth.Start()
	synth.Byte(0x38<<1|byte(DirRead), true)
	synth.Byte(0x05, true)
	synth.Stop()

	txs, _, s := runEdges(t, synth.Edges())

	require.Len(t, txs, 1)
	tx := txs[0]

	assert.Equal(t, DirRead, tx.Dir)
	assert.Equal(t, []byte{0x05}, tx.Data)
	assert.Len(t, tx.Ack, len(tx.Data))

	anom := s.Anomalies()
	assert.Equal(t, uint64(1), anom.Restarts)
	assert.Zero(t, anom.OrphanStops)
	assert.Zero(t, anom.Truncated)
}

func TestDecodeOrphanStop(t *testing.T) {
	/* SDA rising while SCL is high, without any start before it. */
	edges := []gpioedge.Edge{
		{Line: gpioedge.LineSCL, Level: gpioedge.Low, Time: 10 * time.Microsecond},
		{Line: gpioedge.LineSDA, Level: gpioedge.Low, Time: 20 * time.Microsecond},
		{Line: gpioedge.LineSCL, Level: gpioedge.High, Time: 30 * time.Microsecond},
		{Line: gpioedge.LineSDA, Level: gpioedge.High, Time: 40 * time.Microsecond},
	}

	txs, _, s := runEdges(t, edges)

	assert.Empty(t, txs)
	assert.Equal(t, uint64(1), s.Anomalies().OrphanStops)
}

func TestDecodeStopMidByte(t *testing.T) {
	/* Four bits into the second byte the master gives up. The acked
	   part of the frame survives, the partial byte does not. */
	synth := NewSynth(SynthConfig{})
	synth.Start()
	synth.Byte(0x38<<1|byte(DirWrite), true)
	synth.Byte(0x02, true)
	synth.Bit(gpioedge.Low)
	synth.Bit(gpioedge.High)
	synth.Bit(gpioedge.High)
	synth.Bit(gpioedge.Low)
	synth.Stop()

	txs, _, s := runEdges(t, synth.Edges())

	require.Len(t, txs, 1)
	assert.Equal(t, []byte{0x02}, txs[0].Data)
	assert.Len(t, txs[0].Ack, 1)
	assert.Equal(t, uint64(1), s.Anomalies().Truncated)
}

func TestDecodeStopBeforeAddressCompletes(t *testing.T) {
	synth := NewSynth(SynthConfig{})
	synth.Start()
	synth.Bit(gpioedge.High)
	synth.Bit(gpioedge.High)
	synth.Stop()

	txs, _, s := runEdges(t, synth.Edges())

	assert.Empty(t, txs)
	assert.Equal(t, uint64(1), s.Anomalies().Truncated)
}

func TestDecodeIgnoresRedundantLevels(t *testing.T) {
	synth := NewSynth(SynthConfig{})
	synth.Frame(0x38, DirWrite, []byte{0x02}, nil)

	/* Double every edge. The repeats carry no level change and must
	   not disturb decoding. */
	var edges []gpioedge.Edge
	for _, e := range synth.Edges() {
		edges = append(edges, e, e)
	}

	txs, _, s := runEdges(t, edges)

	require.Len(t, txs, 1)
	assert.Equal(t, []byte{0x02}, txs[0].Data)
	assert.Zero(t, s.Anomalies().Total())
}

func TestDecodeBackToBackFrames(t *testing.T) {
	synth := NewSynth(SynthConfig{})
	synth.Frame(0x38, DirWrite, []byte{0x02}, nil)
	synth.Idle(time.Millisecond)
	synth.Frame(0x38, DirRead, []byte{0x01, 0x80}, nil)
	synth.Idle(time.Millisecond)
	synth.Frame(0x50, DirWrite, []byte{0x00, 0x10}, nil)

	txs, _, s := runEdges(t, synth.Edges())

	require.Len(t, txs, 3)
	assert.Equal(t, byte(0x38), txs[0].Addr)
	assert.Equal(t, byte(0x38), txs[1].Addr)
	assert.Equal(t, byte(0x50), txs[2].Addr)
	assert.True(t, txs[0].Stop < txs[1].Start)
	assert.True(t, txs[1].Stop < txs[2].Start)
	assert.Zero(t, s.Anomalies().Total())
}

func TestAnomaliesTotal(t *testing.T) {
	/* Total must be callable straight on returned values, not just on
	   addressable variables. */
	assert.Zero(t, Anomalies{}.Total())
	assert.Equal(t, uint64(6),
		Anomalies{Restarts: 1, OrphanStops: 2, Truncated: 3}.Total())

	s, err := New(Config{Profile: ProfileFT6x36()})
	require.NoError(t, err)
	assert.Zero(t, s.Anomalies().Total())
}

func TestTransactionString(t *testing.T) {
	tx := &Transaction{
		Addr:    0x38,
		Dir:     DirRead,
		AddrAck: true,
		Data:    []byte{0x05, 0xA1},
		Ack:     []bool{true, false},
	}

	assert.Equal(t, "R(0x38)+ 05+ a1-", tx.String())
}
