package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/BertoldVdb/i2ctap/gpioedge"
	"github.com/BertoldVdb/i2ctap/i2cdec"
	"github.com/fatih/color"
	"github.com/inancgumus/screen"
)

type WatchCmd struct {
	Every   time.Duration `optional help:"Statistics refresh period." default:"1s"`
	Seconds int           `optional help:"Stop after this many seconds, 0 runs until interrupted."`
	Quiet   bool          `optional help:"Do not print individual transactions."`
	NoUI    bool          `optional name:"no-ui" help:"Append statistics instead of redrawing the screen."`
}

var (
	pollColor  = color.New(color.FgCyan)
	freshColor = color.New(color.FgGreen)
	staleColor = color.New(color.FgYellow)
	alertColor = color.New(color.FgRed)
)

func printEvent(ev i2cdec.Event) {
	line := fmt.Sprintf("%12v  %-24s %s", ev.Time, ev.Tx, ev.Kind)

	switch ev.Kind {
	case i2cdec.KindPollRequest:
		pollColor.Println(line)
	case i2cdec.KindFreshResponse:
		freshColor.Println(line)
	case i2cdec.KindStaleResponse:
		staleColor.Println(line)
	default:
		fmt.Println(line)
	}
}

func printStats(snap i2cdec.Snapshot, anom i2cdec.Anomalies, dropped uint64) {
	fmt.Printf("Polls: %d  Fresh: %d  Stale: %d  Other: %d\n",
		snap.Polls, snap.Fresh, snap.Stale, snap.Unrecognized)

	if snap.PollIntervals > 0 {
		fmt.Printf("Average poll interval:  %v (%d samples)\n", snap.AvgPollInterval, snap.PollIntervals)
	} else {
		fmt.Printf("Average poll interval:  undefined\n")
	}
	if snap.FreshIntervals > 0 {
		fmt.Printf("Average fresh interval: %v (%d samples)\n", snap.AvgFreshInterval, snap.FreshIntervals)
	} else {
		fmt.Printf("Average fresh interval: undefined\n")
	}

	if math.IsNaN(snap.FreshRatio) {
		fmt.Printf("Fresh ratio:            undefined\n")
	} else {
		fmt.Printf("Fresh ratio:            %.3f\n", snap.FreshRatio)
	}

	if anom.Total() > 0 || dropped > 0 {
		alertColor.Printf("Anomalies: %d restarts, %d orphan stops, %d truncated. Dropped edges: %d\n",
			anom.Restarts, anom.OrphanStops, anom.Truncated, dropped)
	}
}

func (l *WatchCmd) Run(c *Context) error {
	queue := gpioedge.NewQueue(CLI.Queue)

	sniffer, err := i2cdec.New(i2cdec.Config{
		Profile: c.profile,
		LogFunc: c.logFunc,
		OnEvent: func(ev i2cdec.Event) {
			if !l.Quiet {
				printEvent(ev)
			}
		},
	})
	if err != nil {
		return err
	}

	srcErr := make(chan error, 1)
	src, err := openSource(queue.Push, func(err error) {
		select {
		case srcErr <- err:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("Failed to open edge source: %v", err)
	}
	defer src.Close()

	tick := time.NewTicker(l.Every)
	defer tick.Stop()

	var deadline <-chan time.Time
	if l.Seconds > 0 {
		deadline = time.After(time.Duration(l.Seconds) * time.Second)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	final := func() {
		fmt.Println()
		printStats(sniffer.Snapshot(), sniffer.Anomalies(), queue.Dropped())
	}

	for {
		select {
		case e := <-queue.Edges():
			sniffer.Feed(e)

		case <-tick.C:
			if !l.NoUI {
				screen.Clear()
				screen.MoveTopLeft()
			}
			printStats(sniffer.Snapshot(), sniffer.Anomalies(), queue.Dropped())

		case err := <-srcErr:
			final()
			return fmt.Errorf("Edge source failed: %v", err)

		case <-deadline:
			final()
			return nil

		case <-stop:
			final()
			return nil
		}
	}
}
