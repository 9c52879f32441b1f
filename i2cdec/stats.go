package i2cdec

import (
	"math"
	"time"
)

// Stats accumulates classification counts and poll timing for one capture
// session. It belongs to whoever calls Observe and takes no locks.
type Stats struct {
	polls        uint64
	fresh        uint64
	stale        uint64
	unrecognized uint64

	havePoll      bool
	lastPoll      time.Duration
	pollSum       time.Duration
	pollIntervals uint64

	haveFresh      bool
	lastFresh      time.Duration
	freshSum       time.Duration
	freshIntervals uint64
}

func (s *Stats) Observe(ev Event) {
	switch ev.Kind {
	case KindPollRequest:
		s.polls++
		if s.havePoll {
			s.pollSum += ev.Time - s.lastPoll
			s.pollIntervals++
		}
		s.havePoll = true
		s.lastPoll = ev.Time

	case KindFreshResponse:
		s.fresh++
		if s.haveFresh {
			/* Stale responses never touch lastFresh, so this interval
			   spans them: it measures time between data changes, not
			   between polls. */
			s.freshSum += ev.Time - s.lastFresh
			s.freshIntervals++
		}
		s.haveFresh = true
		s.lastFresh = ev.Time

	case KindStaleResponse:
		s.stale++

	default:
		s.unrecognized++
	}
}

// Snapshot is a copy of the aggregate state at one point in time.
type Snapshot struct {
	Polls        uint64
	Fresh        uint64
	Stale        uint64
	Unrecognized uint64

	/* Averages are zero until the matching interval count is nonzero. */
	PollIntervals    uint64
	AvgPollInterval  time.Duration
	FreshIntervals   uint64
	AvgFreshInterval time.Duration

	/* NaN until at least one response was classified. */
	FreshRatio float64
}

func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Polls:        s.polls,
		Fresh:        s.fresh,
		Stale:        s.stale,
		Unrecognized: s.unrecognized,

		PollIntervals:  s.pollIntervals,
		FreshIntervals: s.freshIntervals,

		FreshRatio: math.NaN(),
	}

	if s.pollIntervals > 0 {
		snap.AvgPollInterval = s.pollSum / time.Duration(s.pollIntervals)
	}
	if s.freshIntervals > 0 {
		snap.AvgFreshInterval = s.freshSum / time.Duration(s.freshIntervals)
	}
	if s.fresh+s.stale > 0 {
		snap.FreshRatio = float64(s.fresh) / float64(s.fresh+s.stale)
	}

	return snap
}
