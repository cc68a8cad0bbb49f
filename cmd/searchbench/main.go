package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog/log"

	"othello-engine/engine"
	"othello-engine/logging"
	mg "othello-engine/othellomg"
)

func main() {
	depthFlag := flag.Int("depth", 8, "search depth in plies (0 = timed search)")
	moveTime := flag.Duration("movetime", 0, "think time for a timed search")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	boardFlag := flag.String("board", mg.StartBoard, "board string to search")
	stats := flag.Bool("stats", false, "print cut statistics after each search")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	level := flag.String("loglevel", "info", "log level")
	flag.Parse()

	if err := logging.Setup(os.Stderr, *level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *depthFlag <= 0 && *moveTime <= 0 {
		log.Fatal().Msg("need a positive -depth or -movetime")
	}

	pos, blackToMove, err := mg.ParseBoard(*boardFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid board")
	}

	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fmt.Printf("searchbench: board=%q depth=%d movetime=%v repeat=%d\n", *boardFlag, *depthFlag, *moveTime, *repeatFlag)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		// Fresh engine per run so the table starts empty.
		e := engine.New()
		var res engine.SearchResult
		if *depthFlag > 0 {
			res = e.SearchDepth(pos, blackToMove, *depthFlag)
		} else {
			res = e.Search(pos, blackToMove, *moveTime)
		}
		totalNodes += res.Nodes
		nps := float64(res.Nodes) / res.Elapsed.Seconds()
		fmt.Printf("iteration %d: bestmove %v score %d depth %d nodes %d time=%v nps=%.0f\n",
			i+1, res.Move, res.Score, res.Depth, res.Nodes, res.Elapsed, nps)
		if *stats {
			for _, l := range res.Stats.Lines() {
				fmt.Println(l)
			}
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v  nodes: %d  nps: %.0f\n", totalElapsed, totalNodes, float64(totalNodes)/totalElapsed.Seconds())

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}
