package gpioedge

import (
	"sync/atomic"
	"time"
)

type Line int

const (
	LineSCL Line = iota
	LineSDA
)

func (l Line) String() string {
	if l == LineSCL {
		return "SCL"
	}
	return "SDA"
}

type Level int

const (
	Low Level = iota
	High
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Edge is one observed level change on a monitored line. Time is a
// monotonic timestamp, non-decreasing within a source.
type Edge struct {
	Line  Line
	Level Level
	Time  time.Duration
}

// Handler receives edges in occurrence order. Sources call it from a
// single goroutine, it must not block.
type Handler func(Edge)

// Source is an open capture session. Close stops delivery and returns
// once no more Handler calls can happen.
type Source interface {
	Close() error
}

// Queue sits between a source and the single decode consumer. Push never
// blocks: when the buffer is full the edge is dropped and counted, so a
// stalled consumer cannot back up into the capture path.
type Queue struct {
	ch      chan Edge
	dropped uint64
}

func NewQueue(depth int) *Queue {
	if depth <= 0 {
		depth = 4096
	}

	return &Queue{
		ch: make(chan Edge, depth),
	}
}

func (q *Queue) Push(e Edge) {
	select {
	case q.ch <- e:
	default:
		atomic.AddUint64(&q.dropped, 1)
	}
}

func (q *Queue) Edges() <-chan Edge {
	return q.ch
}

func (q *Queue) Dropped() uint64 {
	return atomic.LoadUint64(&q.dropped)
}

// Close releases the consumer side. The source feeding Push must be
// closed first.
func (q *Queue) Close() {
	close(q.ch)
}
