package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chess-variant/engine"
	"chess-variant/generator"
	"chess-variant/variantmg"
)

func main() {
	seed := flag.Int64("seed", 1, "variant seed (0 = classical chess)")
	white := flag.String("white", "medium", "difficulty for white")
	black := flag.String("black", "medium", "difficulty for black")
	maxPlies := flag.Int("plies", 200, "stop the game after this many plies")
	logLevel := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	var searchers [2]*engine.Searcher
	for i, name := range []string{*white, *black} {
		d, err := engine.ParseDifficulty(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		searchers[i] = engine.NewSearcher(engine.WithDifficulty(d))
	}

	var game *variantmg.Engine
	if *seed == 0 {
		game, _ = generator.NewStandardGame()
	} else {
		game, _, err = generator.NewGame(*seed)
		if err != nil {
			log.Fatal().Err(err).Int64("seed", *seed).Msg("generating variant")
		}
	}
	fmt.Print(game)

	ctx := context.Background()
	for ply := 0; ply < *maxPlies && !game.GameOver(); ply++ {
		mover := game.Turn()
		r := searchers[mover].Search(ctx, game)
		if !r.Found {
			log.Error().Int("ply", ply).Msg("no move found")
			os.Exit(1)
		}
		name := game.Notation(r.Move)
		if !game.ApplySearchMove(r.Move) {
			log.Error().Str("move", name).Msg("search returned an illegal move")
			os.Exit(1)
		}
		log.Info().Int("ply", ply+1).Stringer("side", mover).Str("move", name).
			Int32("score", r.Score).Int("depth", r.Depth).Dur("elapsed", r.Elapsed).Msg("played")
	}
	fmt.Print(game)
	fmt.Printf("result: %s\n", game.Result())
}
