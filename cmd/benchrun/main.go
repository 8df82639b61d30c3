package main

import (
	"flag"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// step is one toolchain invocation of the benchmark suite.
type step struct {
	name string
	args []string
}

func suite(seeds []int64, depth int, benchtime string, skipBench bool) []step {
	var steps []step
	if !skipBench {
		steps = append(steps, step{"bench", []string{"test", "./bench", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=" + benchtime}})
	}
	d := strconv.Itoa(depth)
	steps = append(steps,
		step{"perft classical", []string{"run", "./cmd/perft", "-depth", d, "-label", "Initial"}},
		step{"perft kiwipete", []string{"run", "./cmd/perft", "-fen", kiwipete, "-depth", d, "-label", "Kiwipete"}},
	)
	for _, seed := range seeds {
		s := strconv.FormatInt(seed, 10)
		steps = append(steps, step{"perft variant " + s, []string{"run", "./cmd/perft", "-seed", s, "-depth", d, "-label", "Variant" + s}})
	}
	if len(seeds) > 0 {
		steps = append(steps, step{"searchbench", []string{"run", "./cmd/searchbench",
			"-seed", strconv.FormatInt(seeds[0], 10), "-variants", strconv.Itoa(len(seeds)), "-depth", d}})
	}
	return steps
}

func parseSeeds(s string) ([]int64, error) {
	var out []int64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func main() {
	seedsFlag := flag.String("seeds", "1,42,1337", "comma separated variant seeds for perft and search")
	depth := flag.Int("depth", 3, "perft and search depth")
	benchtime := flag.String("benchtime", "1s", "passed to go test -benchtime")
	skipBench := flag.Bool("skip-bench", false, "skip the ./bench package")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	seeds, err := parseSeeds(*seedsFlag)
	if err != nil {
		log.Error().Err(err).Str("seeds", *seedsFlag).Msg("bad -seeds")
		os.Exit(2)
	}

	failed := 0
	for _, st := range suite(seeds, *depth, *benchtime, *skipBench) {
		start := time.Now()
		cmd := exec.Command("go", st.args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			failed++
			log.Error().Err(err).Str("step", st.name).Msg("step failed")
			continue
		}
		log.Info().Str("step", st.name).Dur("took", time.Since(start)).Msg("done")
	}
	if failed > 0 {
		os.Exit(1)
	}
}
