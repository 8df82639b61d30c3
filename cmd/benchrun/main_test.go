package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSeeds(t *testing.T) {
	seeds, err := parseSeeds(" 1, 42,,1337 ")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 42, 1337}, seeds)

	_, err = parseSeeds("1,x")
	require.Error(t, err)
}

func TestSuiteCoversEverySeed(t *testing.T) {
	steps := suite([]int64{5, 9}, 2, "1x", false)
	names := make([]string, 0, len(steps))
	for _, st := range steps {
		names = append(names, st.name)
	}
	require.Equal(t, []string{"bench", "perft classical", "perft kiwipete", "perft variant 5", "perft variant 9", "searchbench"}, names)
	require.Contains(t, strings.Join(steps[0].args, " "), "-benchtime=1x")
	require.Equal(t, []string{"run", "./cmd/searchbench", "-seed", "5", "-variants", "2", "-depth", "2"}, steps[len(steps)-1].args)

	steps = suite(nil, 3, "1s", true)
	require.Len(t, steps, 2)
}
