// Package i2cdec turns a stream of SCL/SDA edges from a passive tap into
// decoded I2C transactions, classifies them against a polled device
// profile and keeps running statistics about the poll cycle.
package i2cdec

import (
	"github.com/BertoldVdb/i2ctap/gpioedge"
)

type LogFunc func(level int, format string, param ...interface{})

type Config struct {
	Profile Profile

	/* Optional taps, both run synchronously inside Feed. */
	OnTransaction func(*Transaction)
	OnEvent       func(Event)

	LogFunc LogFunc
}

type Sniffer struct {
	config Config

	scl gpioedge.Level
	sda gpioedge.Level

	phase decodePhase
	cur   *Transaction
	bits  int
	shift byte

	anomalies Anomalies
	stats     Stats
}

func New(config Config) (*Sniffer, error) {
	if err := config.Profile.Validate(); err != nil {
		return nil, err
	}

	return &Sniffer{
		config: config,

		/* An idle bus has both lines pulled up. */
		scl: gpioedge.High,
		sda: gpioedge.High,
	}, nil
}

// Snapshot copies the aggregate counters. Like Feed it must be called
// from the consuming goroutine, nothing here takes locks.
func (s *Sniffer) Snapshot() Snapshot {
	return s.stats.Snapshot()
}

func (s *Sniffer) Anomalies() Anomalies {
	return s.anomalies
}

func (s *Sniffer) finish(tx *Transaction) {
	if s.config.OnTransaction != nil {
		s.config.OnTransaction(tx)
	}

	ev := s.config.Profile.Classify(tx)
	s.stats.Observe(ev)

	if s.config.OnEvent != nil {
		s.config.OnEvent(ev)
	}
}
