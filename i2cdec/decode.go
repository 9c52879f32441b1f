package i2cdec

import (
	"time"

	"github.com/BertoldVdb/i2ctap/gpioedge"
)

// Anomalies counts protocol irregularities seen on the wire. They are
// diagnostics, never fatal: the decoder resynchronizes and keeps going.
type Anomalies struct {
	/* Start conditions that aborted an open frame. The partial frame
	   is discarded. */
	Restarts uint64

	/* Stop conditions with no frame open. */
	OrphanStops uint64

	/* Frames cut off mid byte or before the ack slot. */
	Truncated uint64
}

func (a Anomalies) Total() uint64 {
	return a.Restarts + a.OrphanStops + a.Truncated
}

type decodePhase int

const (
	phaseIdle decodePhase = iota
	phaseAddr
	phaseAddrAck
	phaseData
	phaseDataAck
)

// Feed consumes one edge. Decoding, classification and statistics all run
// here, synchronously on the caller's goroutine. Events for the same
// level are ignored, so redundant samples are harmless.
func (s *Sniffer) Feed(e gpioedge.Edge) {
	switch e.Line {
	case gpioedge.LineSCL:
		if e.Level == s.scl {
			return
		}
		s.scl = e.Level

		if e.Level == gpioedge.High {
			s.sampleBit()
		}

	case gpioedge.LineSDA:
		if e.Level == s.sda {
			return
		}
		s.sda = e.Level

		/* SDA moving while SCL is high is a start or stop condition.
		   While SCL is low it is just the next bit settling. */
		if s.scl != gpioedge.High {
			return
		}

		if e.Level == gpioedge.Low {
			s.startCond(e.Time)
		} else {
			s.stopCond(e.Time)
		}
	}
}

func (s *Sniffer) sampleBit() {
	bit := byte(0)
	if s.sda == gpioedge.High {
		bit = 1
	}

	switch s.phase {
	case phaseIdle:

	case phaseAddr:
		s.shift = s.shift<<1 | bit
		s.bits++
		if s.bits == 8 {
			s.cur.Addr = s.shift >> 1
			s.cur.Dir = Dir(s.shift & 1)
			s.bits = 0
			s.shift = 0
			s.phase = phaseAddrAck
		}

	case phaseAddrAck:
		s.cur.AddrAck = bit == 0
		s.phase = phaseData

		if s.config.LogFunc != nil {
			s.config.LogFunc(3, "Address 0x%02X %s %s", s.cur.Addr, s.cur.Dir, ackName(bit == 0))
		}

	case phaseData:
		s.shift = s.shift<<1 | bit
		s.bits++
		if s.bits == 8 {
			s.bits = 0
			s.phase = phaseDataAck
		}

	case phaseDataAck:
		/* A byte only enters the frame together with its ack, so the
		   data and ack slices can never diverge. */
		s.cur.Data = append(s.cur.Data, s.shift)
		s.cur.Ack = append(s.cur.Ack, bit == 0)

		if s.config.LogFunc != nil {
			s.config.LogFunc(3, "Byte 0x%02X %s", s.shift, ackName(bit == 0))
		}

		s.shift = 0
		s.phase = phaseData
	}
}

func (s *Sniffer) startCond(ts time.Duration) {
	if s.phase != phaseIdle {
		/* A single pending high bit is the clock release that comes
		   before every repeated start. Anything beyond that means a
		   frame was thrown away. */
		aborted := s.phase != phaseAddr || s.bits > 1 || (s.bits == 1 && s.shift == 0)
		if aborted {
			s.anomalies.Restarts++
			if s.config.LogFunc != nil {
				s.config.LogFunc(2, "Restart at %v discarded an open frame (%d data bytes)", ts, len(s.cur.Data))
			}
		}
	}

	s.cur = &Transaction{Start: ts}
	s.bits = 0
	s.shift = 0
	s.phase = phaseAddr
}

func (s *Sniffer) stopCond(ts time.Duration) {
	if s.phase == phaseIdle {
		s.anomalies.OrphanStops++
		if s.config.LogFunc != nil {
			s.config.LogFunc(2, "Stop at %v without a matching start", ts)
		}
		return
	}

	/* A single pending low bit is the clock release preceding every
	   stop. More than that, or a missing ack slot, cut the frame. */
	cut := s.bits > 1 || (s.bits == 1 && s.shift != 0) ||
		s.phase == phaseAddrAck || s.phase == phaseDataAck
	if cut {
		s.anomalies.Truncated++
		if s.config.LogFunc != nil {
			s.config.LogFunc(2, "Stop at %v cut a frame short (%d data bytes kept)", ts, len(s.cur.Data))
		}
	}

	/* Only emit once the address byte made it through its ack slot. */
	complete := s.phase == phaseData || s.phase == phaseDataAck

	tx := s.cur
	s.cur = nil
	s.bits = 0
	s.shift = 0
	s.phase = phaseIdle

	if complete {
		tx.Stop = ts
		s.finish(tx)
	}
}

func ackName(ack bool) string {
	if ack {
		return "ACK"
	}
	return "NACK"
}
