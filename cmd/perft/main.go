package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"chess-variant/generator"
	"chess-variant/variantmg"
)

const startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func main() {
	fen := flag.String("fen", startpos, "FEN string for the classical piece set")
	seed := flag.Int64("seed", 0, "perft a generated variant from this seed instead of -fen")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	verify := flag.Bool("verify", false, "Cross-check every root move against dragontoothmg (classical only)")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}
	if *verify && *seed != 0 {
		fmt.Fprintln(os.Stderr, "-verify only works on classical positions")
		os.Exit(2)
	}

	var e *variantmg.Engine
	if *seed != 0 {
		var err error
		e, _, err = generator.NewGame(*seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generating variant: %v\n", err)
			os.Exit(2)
		}
	} else {
		e = variantmg.New(variantmg.WithRuleSource(generator.Upgrader{}))
		if err := e.LoadFEN(*fen, generator.FENPieces(generator.Standard())); err != nil {
			fmt.Fprintf(os.Stderr, "LoadFEN error: %v\n", err)
			os.Exit(2)
		}
	}

	if *verify {
		os.Exit(verifyDivide(e, *fen, *depth))
	}

	if *divide {
		div := variantmg.PerftDivide(e, *depth)
		names := make([]string, 0, len(div))
		var sum uint64
		for m, n := range div {
			names = append(names, m)
			sum += n
		}
		sort.Strings(names)
		for _, m := range names {
			fmt.Printf("%s: %d\n", m, div[m])
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += variantmg.Perft(e, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)
}

// verifyDivide compares the per-move counts with dragontoothmg and prints
// every root move that disagrees. It returns the exit status.
func verifyDivide(e *variantmg.Engine, fen string, depth int) int {
	ours := variantmg.PerftDivide(e, depth)

	board := dragontoothmg.ParseFen(fen)
	theirs := make(map[string]uint64)
	for _, m := range board.GenerateLegalMoves() {
		unapply := board.Apply(m)
		theirs[m.String()] = referencePerft(&board, depth-1)
		unapply()
	}

	status := 0
	for name, n := range theirs {
		if ours[name] != n {
			fmt.Printf("%s: got %d, dragontoothmg %d\n", name, ours[name], n)
			status = 1
		}
	}
	for name := range ours {
		if _, ok := theirs[name]; !ok {
			fmt.Printf("%s: not generated by dragontoothmg\n", name)
			status = 1
		}
	}
	if status == 0 {
		fmt.Printf("verified %d root moves at depth %d\n", len(ours), depth)
	}
	return status
}

func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}
