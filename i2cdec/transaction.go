package i2cdec

import (
	"fmt"
	"strings"
	"time"
)

type Dir byte

const (
	DirWrite Dir = 0
	DirRead  Dir = 1
)

func (d Dir) String() string {
	if d == DirRead {
		return "R"
	}
	return "W"
}

// Transaction is one complete start to stop frame observed on the bus.
// It is never modified after being emitted. Data and Ack always have the
// same length, Ack[i] telling whether byte i was acknowledged.
type Transaction struct {
	Start time.Duration
	Stop  time.Duration

	Addr    byte
	Dir     Dir
	AddrAck bool

	Data []byte
	Ack  []bool
}

// String renders the frame like W(0x38)+ 02+ a5- with + for ACK and - for
// NACK.
func (t *Transaction) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s(0x%02X)%c", t.Dir, t.Addr, ackMark(t.AddrAck))

	for i, v := range t.Data {
		fmt.Fprintf(&b, " %02x%c", v, ackMark(t.Ack[i]))
	}

	return b.String()
}

func ackMark(ack bool) byte {
	if ack {
		return '+'
	}
	return '-'
}
