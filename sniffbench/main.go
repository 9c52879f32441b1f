// Measures how fast the decode pipeline chews through a synthetic
// poll/response workload. The edge handler sits on the capture path, so
// the per-edge cost printed here is the number that matters.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/BertoldVdb/i2ctap/gpioedge"
	"github.com/BertoldVdb/i2ctap/i2cdec"
)

func main() {
	pairs := flag.Int("pairs", 100000, "Number of poll/response pairs to synthesize")
	bitPeriod := flag.Duration("bit-period", 2500*time.Nanosecond, "SCL period of the synthetic bus")
	staleEvery := flag.Int("stale-every", 4, "Every Nth response carries no new data, 0 for all fresh")
	restartEvery := flag.Int("restart-every", 0, "Abort every Nth pair with a repeated start, 0 disables")
	glitchEvery := flag.Int("glitch-every", 0, "Duplicate every Nth edge of the final stream, 0 disables")
	flag.Parse()

	profile := i2cdec.ProfileFT6x36()

	synth := i2cdec.NewSynth(i2cdec.SynthConfig{BitPeriod: *bitPeriod})
	for i := 0; i < *pairs; i++ {
		if *restartEvery > 0 && i%*restartEvery == *restartEvery-1 {
			/* Abandon the poll write halfway, the next Frame opens
			   with a repeated start. */
			synth.Start()
			synth.Byte(profile.Addr<<1, true)
		} else {
			synth.Frame(profile.Addr, i2cdec.DirWrite, []byte{profile.PollReg}, nil)
			synth.Idle(100 * time.Microsecond)
		}

		status := byte(0x01)
		if *staleEvery > 0 && i%*staleEvery == *staleEvery-1 {
			status = 0x00
		}
		synth.Frame(profile.Addr, i2cdec.DirRead, []byte{status, 0x80, 0x10}, []bool{true, true, false})
		synth.Idle(time.Millisecond)
	}

	edges := synth.Edges()

	if *glitchEvery > 0 {
		glitched := make([]gpioedge.Edge, 0, len(edges)+len(edges)/(*glitchEvery))
		for i, e := range edges {
			glitched = append(glitched, e)
			if i%*glitchEvery == *glitchEvery-1 {
				glitched = append(glitched, e)
			}
		}
		edges = glitched
	}

	sniffer, err := i2cdec.New(i2cdec.Config{Profile: profile})
	if err != nil {
		log.Fatalln("Failed to create sniffer:", err)
	}

	start := time.Now()
	for _, e := range edges {
		sniffer.Feed(e)
	}
	elapsed := time.Since(start)

	snap := sniffer.Snapshot()
	anom := sniffer.Anomalies()

	fmt.Printf("Fed %d edges in %v: %.0f edges/s, %.1f ns/edge\n",
		len(edges), elapsed,
		float64(len(edges))/elapsed.Seconds(),
		float64(elapsed.Nanoseconds())/float64(len(edges)))
	fmt.Printf("Polls: %d  Fresh: %d  Stale: %d  Other: %d\n",
		snap.Polls, snap.Fresh, snap.Stale, snap.Unrecognized)
	fmt.Printf("Anomalies: %d restarts, %d orphan stops, %d truncated\n",
		anom.Restarts, anom.OrphanStops, anom.Truncated)
	if snap.PollIntervals > 0 {
		fmt.Printf("Average poll interval: %v over %d samples\n",
			snap.AvgPollInterval, snap.PollIntervals)
	}
}
