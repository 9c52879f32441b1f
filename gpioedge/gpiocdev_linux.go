//go:build linux
// +build linux

package gpioedge

import (
	"errors"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

var ErrorSamePin = errors.New("Clock and data must use different offsets")

type ChipConfig struct {
	Chip      string
	SCLOffset int
	SDAOffset int

	/* Optional kernel debounce period for electrically noisy taps. */
	Debounce time.Duration

	Consumer string
}

type chipSource struct {
	req *gpiocdev.Lines
}

// OpenChip requests both lines from a gpiochip character device and
// streams their edges to h. A single request covers both offsets so the
// kernel serializes events across the pair in timestamp order. The lines
// are only watched, never driven.
func OpenChip(config ChipConfig, h Handler) (Source, error) {
	if config.Chip == "" {
		config.Chip = "gpiochip0"
	}
	if config.Consumer == "" {
		config.Consumer = "i2ctap"
	}
	if config.SCLOffset == config.SDAOffset {
		return nil, ErrorSamePin
	}

	scl := config.SCLOffset

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithMonotonicEventClock,
		gpiocdev.WithConsumer(config.Consumer),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			e := Edge{
				Line:  LineSDA,
				Level: High,
				Time:  evt.Timestamp,
			}
			if evt.Offset == scl {
				e.Line = LineSCL
			}
			if evt.Type == gpiocdev.LineEventFallingEdge {
				e.Level = Low
			}

			h(e)
		}),
	}

	if config.Debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(config.Debounce))
	}

	req, err := gpiocdev.RequestLines(config.Chip,
		[]int{config.SCLOffset, config.SDAOffset}, opts...)
	if err != nil {
		return nil, err
	}

	return &chipSource{req: req}, nil
}

func (s *chipSource) Close() error {
	return s.req.Close()
}
