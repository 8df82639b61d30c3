package generator

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func TestGenerationLogsStayQuiet(t *testing.T) {
	if zerolog.GlobalLevel() < zerolog.WarnLevel {
		t.Fatalf("global level %s lets debug output through", zerolog.GlobalLevel())
	}
}
