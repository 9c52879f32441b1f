package i2cdec

import (
	"time"

	"github.com/BertoldVdb/i2ctap/gpioedge"
)

type SynthConfig struct {
	/* Duration of one SCL period. */
	BitPeriod time.Duration

	/* Timestamp offset of the first edge. */
	StartAt time.Duration
}

// Synth encodes legal I2C waveforms as edge sequences. It backs the self
// test, the bench tool and the decoder tests: whatever it encodes the
// decoder must read back.
type Synth struct {
	config SynthConfig

	t     time.Duration
	scl   gpioedge.Level
	sda   gpioedge.Level
	edges []gpioedge.Edge
}

func NewSynth(config SynthConfig) *Synth {
	if config.BitPeriod <= 0 {
		config.BitPeriod = 10 * time.Microsecond
	}

	return &Synth{
		config: config,
		t:      config.StartAt,
		scl:    gpioedge.High,
		sda:    gpioedge.High,
	}
}

func (s *Synth) set(line gpioedge.Line, level gpioedge.Level) {
	cur := &s.scl
	if line == gpioedge.LineSDA {
		cur = &s.sda
	}
	if *cur == level {
		return
	}
	*cur = level

	s.t += s.config.BitPeriod / 4
	s.edges = append(s.edges, gpioedge.Edge{
		Line:  line,
		Level: level,
		Time:  s.t,
	})
}

// Start appends a start condition, or a repeated start when a frame is
// open.
func (s *Synth) Start() {
	if s.scl == gpioedge.Low {
		/* Mid frame: release data, then the clock, like a master
		   setting up a repeated start. */
		s.set(gpioedge.LineSDA, gpioedge.High)
		s.set(gpioedge.LineSCL, gpioedge.High)
	}

	s.set(gpioedge.LineSDA, gpioedge.Low)
	s.set(gpioedge.LineSCL, gpioedge.Low)
}

// Bit appends one clocked bit: data settles while the clock is low, then
// one clock pulse.
func (s *Synth) Bit(bit gpioedge.Level) {
	s.set(gpioedge.LineSDA, bit)
	s.set(gpioedge.LineSCL, gpioedge.High)
	s.set(gpioedge.LineSCL, gpioedge.Low)
}

// Byte appends eight data bits MSB first plus the ack slot, driven low by
// the receiver when ack is true.
func (s *Synth) Byte(b byte, ack bool) {
	for i := 7; i >= 0; i-- {
		bit := gpioedge.Low
		if b&(1<<i) != 0 {
			bit = gpioedge.High
		}
		s.Bit(bit)
	}

	ackLevel := gpioedge.High
	if ack {
		ackLevel = gpioedge.Low
	}
	s.Bit(ackLevel)
}

// Stop appends a stop condition, returning the bus to idle.
func (s *Synth) Stop() {
	s.set(gpioedge.LineSDA, gpioedge.Low)
	s.set(gpioedge.LineSCL, gpioedge.High)
	s.set(gpioedge.LineSDA, gpioedge.High)
}

// Idle advances time with the bus released.
func (s *Synth) Idle(d time.Duration) {
	s.t += d
}

// Frame appends one complete addressed frame. acks follows data byte for
// byte, nil meaning everything was acked. The address ack is always
// present.
func (s *Synth) Frame(addr byte, dir Dir, data []byte, acks []bool) {
	s.Start()
	s.Byte(addr<<1|byte(dir), true)

	for i, b := range data {
		ack := true
		if acks != nil {
			ack = acks[i]
		}
		s.Byte(b, ack)
	}

	s.Stop()
}

// Edges returns everything encoded so far.
func (s *Synth) Edges() []gpioedge.Edge {
	return s.edges
}
