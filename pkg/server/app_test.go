package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"ACATN/internal/domain/models"
	drepo "ACATN/internal/domain/repository"
	"ACATN/internal/usecase"
	"ACATN/pkg/config"
	xhttp "ACATN/pkg/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	published chan *models.SnapshotRecord
	closed    bool
}

func (s *sink) Name() string { return "test" }

func (s *sink) Publish(_ context.Context, rec *models.SnapshotRecord) error {
	s.published <- rec
	return nil
}

func (s *sink) Close() error {
	s.closed = true
	return nil
}

func newApp(src config.Source, s *sink) *App {
	reg := prometheus.NewRegistry()
	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithPrometheus(reg, reg))
	auditor := usecase.NewSnapshotAuditor([]drepo.SnapshotPublisher{s}, nil, nil, "test-host", time.Second)
	return New(config.NewRegistry(), src, auditor, srv, nil)
}

func TestRunPublishesAndStops(t *testing.T) {
	s := &sink{published: make(chan *models.SnapshotRecord, 1)}
	app := newApp(config.MapSource{"HISTORICAL_DAYS": "30"}, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	select {
	case rec := <-s.published:
		assert.Equal(t, "test-host", rec.Host)
		assert.Equal(t, 30, rec.Document["limits"]["historicalDays"])
	case <-time.After(5 * time.Second):
		t.Fatal("snapshot was not published")
	}
	assert.Equal(t, config.StateReady, app.Registry().State())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.True(t, s.closed)
}

func TestRunFailsOnMalformedLimits(t *testing.T) {
	s := &sink{published: make(chan *models.SnapshotRecord, 1)}
	app := newApp(config.MapSource{"MAX_DAILY_LOSS": "five percent"}, s)

	err := app.RunContext(context.Background())

	var perr *config.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "MAX_DAILY_LOSS", perr.Key)
	assert.Equal(t, config.StateFailed, app.Registry().State())
	assert.Empty(t, s.published)
	assert.True(t, s.closed, "sinks are closed when initialization fails")
}
