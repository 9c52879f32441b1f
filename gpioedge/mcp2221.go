package gpioedge

import (
	"errors"
	"sync"
	"time"

	"github.com/BertoldVdb/i2ctap/gohid"
)

/*
 MCP2221A status/set-parameters command (0x10). The 64 byte response
 carries the live SCL and SDA input levels at offsets 22 and 23.
*/
const (
	mcpMsgSz     = 64
	mcpCmdStatus = 0x10
)

var ErrorBadResponse = errors.New("Bridge returned an invalid response")

type SamplerConfig struct {
	/* Poll period. The bridge is a full speed USB device, going below
	   1ms only adds bus load. */
	Every time.Duration

	/* Called once when sampling dies mid session. */
	OnError func(error)
}

// OpenMCP2221 turns an MCP2221A USB bridge into an edge source by polling
// its status command and synthesizing edges from level changes. Usable
// for slow or heavily stretched buses only: anything faster than the poll
// period is missed.
func OpenMCP2221(dev gohid.Device, config SamplerConfig, h Handler) (Source, error) {
	if config.Every <= 0 {
		config.Every = time.Millisecond
	}

	s := &hidSampler{
		dev:    dev,
		config: config,
		h:      h,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	/* Probe once so a missing or wedged bridge fails the open, and to
	   seed the levels without fabricating edges. */
	scl, sda, err := s.sample()
	if err != nil {
		return nil, err
	}
	s.scl = scl
	s.sda = sda

	go s.run()

	return s, nil
}

type hidSampler struct {
	dev    gohid.Device
	config SamplerConfig
	h      Handler

	closeOnce sync.Once
	quit      chan struct{}
	done      chan struct{}

	scl Level
	sda Level
}

func (s *hidSampler) sample() (Level, Level, error) {
	/* The leading zero is the report number, the bridge uses
	   unnumbered reports. */
	var cmd [mcpMsgSz + 1]byte
	cmd[1] = mcpCmdStatus

	if _, err := s.dev.Write(cmd[:]); err != nil {
		return Low, Low, err
	}

	var rsp [mcpMsgSz]byte
	n, err := s.dev.Read(rsp[:])
	if err != nil {
		return Low, Low, err
	}
	if n < 24 || rsp[0] != mcpCmdStatus || rsp[1] != 0 {
		return Low, Low, ErrorBadResponse
	}

	return levelFromByte(rsp[22]), levelFromByte(rsp[23]), nil
}

func levelFromByte(b byte) Level {
	if b != 0 {
		return High
	}
	return Low
}

func (s *hidSampler) run() {
	start := time.Now()

	tick := time.NewTicker(s.config.Every)
	defer tick.Stop()

	for {
		select {
		case <-s.quit:
			close(s.done)
			return

		case <-tick.C:
		}

		scl, sda, err := s.sample()
		if err != nil {
			close(s.done)

			/* Not a fault when Close tore down the device under us. */
			select {
			case <-s.quit:
			default:
				if s.config.OnError != nil {
					s.config.OnError(err)
				}
			}
			return
		}

		now := time.Since(start)

		/* The true order of two changes inside one sample window is
		   unknown. Data moves while the clock is low: replay a falling
		   clock first and a rising clock last, so the SDA change lands
		   in the low phase and never fakes a start or stop. */
		if scl != s.scl && scl == Low {
			s.scl = scl
			s.h(Edge{Line: LineSCL, Level: scl, Time: now})
		}
		if sda != s.sda {
			s.sda = sda
			s.h(Edge{Line: LineSDA, Level: sda, Time: now})
		}
		if scl != s.scl {
			s.scl = scl
			s.h(Edge{Line: LineSCL, Level: scl, Time: now})
		}
	}
}

func (s *hidSampler) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
	})

	<-s.done
	return s.dev.Close()
}
