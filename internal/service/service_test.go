package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/climate-hub/internal/content"
	"github.com/sakif/climate-hub/internal/metrics"
	"github.com/sakif/climate-hub/internal/model"
)

var fixedNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time { return fixedNow }

// catalogueSeeds returns the forum's real starter threads.
func catalogueSeeds(t *testing.T) []model.Discussion {
	t.Helper()
	c, err := content.Load("")
	require.NoError(t, err)
	return c.SeedDiscussions()
}

func newMetrics() *metrics.Metrics {
	return metrics.NewNop()
}
