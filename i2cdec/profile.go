package i2cdec

import (
	"bytes"
	"time"
)

type Kind int

const (
	KindUnrecognized Kind = iota
	KindPollRequest
	KindFreshResponse
	KindStaleResponse
)

func (k Kind) String() string {
	switch k {
	case KindPollRequest:
		return "poll"
	case KindFreshResponse:
		return "fresh"
	case KindStaleResponse:
		return "stale"
	}
	return "other"
}

// Event is one classified transaction. Time is the transaction start.
type Event struct {
	Kind Kind
	Time time.Duration
	Tx   *Transaction
}

// Profile describes the polled device: where it lives on the bus, which
// selector byte the controller writes to address the status register, and
// what a response payload must look like to carry fresh data. Fresh is
// only consulted for reads with at least one byte.
type Profile struct {
	Addr    byte
	PollReg byte
	Fresh   func(data []byte) bool
}

func (p *Profile) Validate() error {
	if p.Addr > 0x7F {
		return ErrorInvalidAddress
	}
	if p.Fresh == nil {
		return ErrorNoFreshnessCheck
	}
	return nil
}

// Classify maps one decoded transaction onto the poll cycle.
func (p *Profile) Classify(tx *Transaction) Event {
	ev := Event{
		Kind: KindUnrecognized,
		Time: tx.Start,
		Tx:   tx,
	}

	if tx.Addr != p.Addr {
		return ev
	}

	switch tx.Dir {
	case DirWrite:
		if len(tx.Data) == 1 && tx.Data[0] == p.PollReg {
			ev.Kind = KindPollRequest
		}

	case DirRead:
		if len(tx.Data) == 0 {
			break
		}
		if p.Fresh(tx.Data) {
			ev.Kind = KindFreshResponse
		} else {
			ev.Kind = KindStaleResponse
		}
	}

	return ev
}

// ProfileFT6x36 matches the FocalTech FT6x36 touch controllers: status
// register 0x02 holds the touch count, where 0x00 and 0xFF both mean
// nothing new.
func ProfileFT6x36() Profile {
	return Profile{
		Addr:    0x38,
		PollReg: 0x02,
		Fresh: func(data []byte) bool {
			return data[0] != 0x00 && data[0] != 0xFF
		},
	}
}

// FreshByteMask reports data fresh when the first payload byte, masked,
// equals value.
func FreshByteMask(mask byte, value byte) func([]byte) bool {
	return func(data []byte) bool {
		return data[0]&mask == value
	}
}

// FreshOnChange wraps check so a payload only counts as fresh when it
// also differs from the previous payload that passed. Useful for
// controllers that keep reporting the last touch forever: only movement
// counts. The returned closure keeps state and belongs to a single
// pipeline.
func FreshOnChange(check func(data []byte) bool) func(data []byte) bool {
	var last []byte

	return func(data []byte) bool {
		if check != nil && !check(data) {
			return false
		}
		if last != nil && bytes.Equal(last, data) {
			return false
		}

		last = append(last[:0], data...)
		return true
	}
}
