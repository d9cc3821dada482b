package cli

import (
	"context"
	"log/slog"
	"testing"

	applog "maliyye/internal/log"
)

func TestNewRandIsDeterministicForFixedSeed(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 5; i++ {
		if x, y := a.Int63(), b.Int63(); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

func TestSetupLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	logger := SetupLogger(applog.ComponentWorker)
	if logger.Component() != applog.ComponentWorker {
		t.Errorf("component = %s", logger.Component())
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
}
