package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chess-variant/engine"
	"chess-variant/generator"
	"chess-variant/variantmg"
)

const startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func main() {
	logLevel := flag.String("log-level", "info", "zerolog level (trace, debug, info, warn, error)")
	difficulty := flag.String("difficulty", "medium", "default search difficulty: easy, medium, hard, expert")
	seed := flag.Int64("seed", 0, "seed for newgame without an explicit seed (0 = time based)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	d, err := engine.ParseDifficulty(*difficulty)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	s := newSession(os.Stdout, d, *seed)
	if err := s.run(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("reading commands")
	}
}

// session is one game driven by a line protocol. Replies go to out; the
// search runs in its own goroutine on a clone and prints its bestmove when
// done. Commands that read or change the game wait for a running search.
type session struct {
	out  io.Writer
	outM sync.Mutex

	game       *variantmg.Engine
	set        generator.PieceSet
	difficulty engine.Difficulty
	seed       int64

	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(out io.Writer, d engine.Difficulty, seed int64) *session {
	game, set := generator.NewStandardGame()
	return &session{out: out, game: game, set: set, difficulty: d, seed: seed}
}

func (s *session) reply(format string, args ...any) {
	s.outM.Lock()
	defer s.outM.Unlock()
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *session) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		cmd, args := strings.ToLower(tokens[0]), tokens[1:]
		if cmd != "stop" && cmd != "isready" {
			s.wait()
		}
		switch cmd {
		case "uci":
			s.reply("id name chess-variant")
			s.reply("uciok")
		case "isready":
			s.reply("readyok")
		case "quit":
			s.stop()
			return nil
		case "stop":
			s.stop()
		case "newgame":
			s.newGame(args)
		case "standard":
			s.game, s.set = generator.NewStandardGame()
			s.reply("ok")
		case "position":
			s.position(args)
		case "move":
			s.move(args)
		case "promote":
			s.promote(args)
		case "message":
			s.message(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(scanner.Text()), tokens[0])))
		case "go":
			s.goSearch(args)
		case "moves":
			s.moves(args)
		case "attacks":
			s.attacks(args)
		case "board", "d":
			s.reply("%s", strings.TrimRight(s.game.String(), "\n"))
			s.reply("turn %s result %s", s.game.Turn(), s.game.Result())
		case "eval":
			s.reply("eval %d", engine.Evaluate(s.game))
		case "perft":
			s.perft(args)
		default:
			s.reply("info string unknown command %s", cmd)
		}
	}
	s.wait()
	return scanner.Err()
}

func (s *session) newGame(args []string) {
	seed := s.seed
	if len(args) > 0 {
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			s.reply("info string invalid seed %q", args[0])
			return
		}
		seed = v
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game, set, err := generator.NewGame(seed)
	if err != nil {
		log.Warn().Err(err).Int64("seed", seed).Msg("generating variant")
		s.reply("info string %v", err)
		return
	}
	s.game, s.set = game, set
	s.reply("ok seed %d", seed)
}

func (s *session) position(args []string) {
	if len(args) == 0 {
		s.reply("info string malformed position command")
		return
	}
	fen := ""
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = startpos
	case "fen":
		var fields []string
		for len(rest) > 0 && strings.ToLower(rest[0]) != "moves" {
			fields = append(fields, rest[0])
			rest = rest[1:]
		}
		fen = strings.Join(fields, " ")
	default:
		s.reply("info string invalid position subcommand")
		return
	}

	set := generator.Standard()
	game := variantmg.New(variantmg.WithRuleSource(generator.Upgrader{}))
	if err := game.LoadFEN(fen, generator.FENPieces(set)); err != nil {
		s.reply("info string %v", err)
		return
	}
	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		for _, mv := range rest[1:] {
			if !applyNotation(game, mv) {
				s.reply("info string illegal move %s", mv)
				return
			}
			if _, frozen := game.PendingPromotion(); frozen {
				s.reply("info string promotion choice missing in %s", mv)
				return
			}
		}
	}
	s.game, s.set = game, set
	s.reply("ok")
}

// applyNotation plays "e2e4" or "e7e8q", the promotion letter naming the
// choice by symbol. Without a letter a choice promotion stays pending.
func applyNotation(game *variantmg.Engine, mv string) bool {
	if len(mv) != 4 && len(mv) != 5 {
		return false
	}
	from, ok := parseSquare(mv[0:2])
	if !ok {
		return false
	}
	to, ok := parseSquare(mv[2:4])
	if !ok {
		return false
	}
	if !game.ApplyMove(from, to) {
		return false
	}
	pending, frozen := game.PendingPromotion()
	if !frozen || len(mv) == 4 {
		return true
	}
	for i, choice := range pending.Choices {
		if strings.EqualFold(string(choice.Symbol), mv[4:5]) {
			return game.ResolvePromotion(i)
		}
	}
	return false
}

func (s *session) move(args []string) {
	if len(args) == 0 {
		s.reply("info string malformed move command")
		return
	}
	ok := applyNotation(s.game, args[0])
	if _, frozen := s.game.PendingPromotion(); frozen {
		s.reply("pending promotion")
		return
	}
	if !ok {
		s.reply("illegal")
		return
	}
	s.status()
}

func (s *session) promote(args []string) {
	if len(args) != 1 {
		s.reply("info string malformed promote command")
		return
	}
	choice, err := strconv.Atoi(args[0])
	if err != nil || !s.game.ResolvePromotion(choice) {
		s.reply("illegal")
		return
	}
	s.status()
}

// message applies a JSON transport message such as
// {"fromRow":6,"fromCol":4,"toRow":4,"toCol":4}.
func (s *session) message(raw string) {
	var msg variantmg.MoveMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		s.reply("info string malformed message: %v", err)
		return
	}
	if !s.game.ApplyMessage(msg) {
		s.reply("illegal")
		return
	}
	s.status()
}

func (s *session) status() {
	if s.game.GameOver() {
		s.reply("ok gameover %s", s.game.Result())
		return
	}
	s.reply("ok")
}

func (s *session) goSearch(args []string) {
	options := []engine.Option{engine.WithDifficulty(s.difficulty)}
	for i := 0; i < len(args); i++ {
		switch tok := strings.ToLower(args[i]); tok {
		case "depth", "movetime":
			if i+1 >= len(args) {
				s.reply("info string malformed go command option %s", tok)
				return
			}
			v, err := strconv.Atoi(args[i+1])
			if err != nil || v <= 0 {
				s.reply("info string malformed go command option %s", tok)
				return
			}
			i++
			if tok == "depth" {
				options = append(options, engine.WithMaxDepth(v))
			} else {
				budget := time.Duration(v) * time.Millisecond
				options = append(options, engine.WithTimeBudget(budget), engine.WithCeiling(budget))
			}
		default:
			d, err := engine.ParseDifficulty(tok)
			if err != nil {
				s.reply("info string unknown go subcommand %s", tok)
				return
			}
			// options[0] so explicit depth or movetime still win
			options[0] = engine.WithDifficulty(d)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	game := s.game.Clone()
	searcher := engine.NewSearcher(options...)

	go func() {
		defer close(done)
		r := searcher.Search(ctx, game)
		if !r.Found {
			s.reply("bestmove 0000")
			return
		}
		s.reply("info depth %d score %d nodes %d time %d", r.Depth, r.Score, r.Nodes, r.Elapsed.Milliseconds())
		s.reply("bestmove %s", game.Notation(r.Move))
	}()
}

func (s *session) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wait()
}

func (s *session) wait() {
	if s.done == nil {
		return
	}
	<-s.done
	s.cancel()
	s.cancel, s.done = nil, nil
}

func (s *session) moves(args []string) {
	var list []variantmg.Move
	if len(args) > 0 {
		sq, ok := parseSquare(args[0])
		if !ok {
			s.reply("info string invalid square %s", args[0])
			return
		}
		list = s.game.LegalMoves(sq)
	} else {
		list = s.game.AllLegalMoves(s.game.Turn())
	}
	names := make([]string, 0, len(list))
	for _, m := range list {
		names = append(names, m.String())
	}
	s.reply("moves %s", strings.Join(names, " "))
}

func (s *session) attacks(args []string) {
	if len(args) != 1 {
		s.reply("info string malformed attacks command")
		return
	}
	sq, ok := parseSquare(args[0])
	if !ok {
		s.reply("info string invalid square %s", args[0])
		return
	}
	var names []string
	for _, to := range s.game.AttackFootprint(sq) {
		names = append(names, to.String())
	}
	s.reply("attacks %s", strings.Join(names, " "))
}

func (s *session) perft(args []string) {
	depth := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			s.reply("info string invalid depth %s", args[0])
			return
		}
		depth = v
	}
	start := time.Now()
	nodes := variantmg.Perft(s.game.Clone(), depth)
	s.reply("perft %d nodes %d time %d", depth, nodes, time.Since(start).Milliseconds())
}

func parseSquare(s string) (variantmg.Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return variantmg.NoSquare, false
	}
	return variantmg.SquareAt(8-int(s[1]-'0'), int(s[0]-'a')), true
}
