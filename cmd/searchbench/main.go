package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chess-variant/engine"
	"chess-variant/generator"
)

func main() {
	depthFlag := flag.Int("depth", 4, "search depth in plies")
	seedFlag := flag.Int64("seed", 1, "first variant seed")
	variantsFlag := flag.Int("variants", 5, "number of consecutive seeds to search")
	repeatFlag := flag.Int("repeat", 1, "searches per variant")
	budgetFlag := flag.Duration("budget", time.Minute, "time budget per search")
	verbose := flag.Bool("v", false, "log every completed depth")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if *depthFlag <= 0 {
		log.Fatal().Int("depth", *depthFlag).Msg("depth must be positive")
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

	searcher := engine.NewSearcher(
		engine.WithMaxDepth(*depthFlag),
		engine.WithTimeBudget(*budgetFlag),
		engine.WithCeiling(*budgetFlag),
		engine.WithAdaptiveBudget(false),
	)

	fmt.Printf("searchbench: seeds=%d..%d depth=%d repeat=%d\n", *seedFlag, *seedFlag+int64(*variantsFlag)-1, *depthFlag, *repeatFlag)

	var totalNodes uint64
	startAll := time.Now()
	for v := 0; v < *variantsFlag; v++ {
		seed := *seedFlag + int64(v)
		game, _, err := generator.NewGame(seed)
		if err != nil {
			log.Fatal().Err(err).Int64("seed", seed).Msg("generating variant")
		}
		for i := 0; i < *repeatFlag; i++ {
			r := searcher.Search(context.Background(), game)
			totalNodes += r.Nodes
			fmt.Printf("seed %d iteration %d: bestmove %s depth=%d score=%d nodes=%d time=%v\n",
				seed, i+1, game.Notation(r.Move), r.Depth, r.Score, r.Nodes, r.Elapsed)
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v nodes: %d nps: %.0f\n", totalElapsed, totalNodes, float64(totalNodes)/totalElapsed.Seconds())

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
