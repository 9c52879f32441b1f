package main

import (
	"fmt"
	"time"

	"github.com/BertoldVdb/i2ctap/i2cdec"
)

type SelftestCmd struct {
	Pairs int `optional help:"Number of poll/response pairs to synthesize." default:"50"`
}

/* Runs a built-in FT6x36 style capture through the decode pipeline, so it
   does not use the profile flags: the point is checking the pipeline, not
   the configuration. */
func (l *SelftestCmd) Run(c *Context) error {
	profile := i2cdec.ProfileFT6x36()

	var txs []*i2cdec.Transaction
	sniffer, err := i2cdec.New(i2cdec.Config{
		Profile: profile,
		LogFunc: c.logFunc,
		OnTransaction: func(tx *i2cdec.Transaction) {
			txs = append(txs, tx)
		},
	})
	if err != nil {
		return err
	}

	synth := i2cdec.NewSynth(i2cdec.SynthConfig{BitPeriod: 10 * time.Microsecond})
	for i := 0; i < l.Pairs; i++ {
		synth.Frame(profile.Addr, i2cdec.DirWrite, []byte{profile.PollReg}, nil)
		synth.Idle(time.Millisecond)

		/* Every second response reports one touch, the rest are empty. */
		status := byte(0x00)
		if i%2 == 0 {
			status = 0x01
		}
		synth.Frame(profile.Addr, i2cdec.DirRead, []byte{status}, []bool{false})
		synth.Idle(9 * time.Millisecond)
	}

	for _, e := range synth.Edges() {
		sniffer.Feed(e)
	}

	if len(txs) != 2*l.Pairs {
		return fmt.Errorf("Expected %d transactions, decoded %d", 2*l.Pairs, len(txs))
	}

	first := txs[0]
	if first.Addr != profile.Addr || first.Dir != i2cdec.DirWrite ||
		len(first.Data) != 1 || first.Data[0] != profile.PollReg {
		return fmt.Errorf("Poll frame did not round trip: %s", first)
	}

	snap := sniffer.Snapshot()
	anom := sniffer.Anomalies()

	wantFresh := uint64((l.Pairs + 1) / 2)
	wantStale := uint64(l.Pairs / 2)

	switch {
	case anom.Total() != 0:
		return fmt.Errorf("Clean capture produced %d anomalies", anom.Total())
	case snap.Polls != uint64(l.Pairs):
		return fmt.Errorf("Expected %d polls, counted %d", l.Pairs, snap.Polls)
	case snap.Fresh != wantFresh || snap.Stale != wantStale:
		return fmt.Errorf("Expected %d fresh and %d stale, counted %d and %d",
			wantFresh, wantStale, snap.Fresh, snap.Stale)
	case snap.PollIntervals != uint64(l.Pairs-1):
		return fmt.Errorf("Expected %d poll intervals, counted %d", l.Pairs-1, snap.PollIntervals)
	}

	printStats(snap, anom, 0)
	fmt.Println("Selftest passed.")
	return nil
}
