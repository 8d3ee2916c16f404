package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"traffic_sim/config"
)

func TestRun(t *testing.T) {
	cfg, err := config.Parse(`
lights = 2
drivers = 2

[light]
cycle_min = "20ms"
cycle_max = "30ms"
send_throttle = "0s"
`)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := zerolog.New(zerolog.SyncWriter(&buf))
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, run(ctx, cfg, logger))
	assert.Contains(t, buf.String(), "crossing")
	assert.Contains(t, buf.String(), "shutting down")
}
