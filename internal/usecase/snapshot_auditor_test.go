package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ACATN/internal/domain/models"
	drepo "ACATN/internal/domain/repository"
	"ACATN/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	name     string
	err      error
	closeErr error
	got      []*models.SnapshotRecord
	deadline bool
	closed   bool
}

func (f *fakePublisher) Name() string { return f.name }

func (f *fakePublisher) Publish(ctx context.Context, rec *models.SnapshotRecord) error {
	_, f.deadline = ctx.Deadline()
	f.got = append(f.got, rec)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return f.closeErr
}

type fakeMetrics struct {
	mu    sync.Mutex
	calls map[string]int
}

func (m *fakeMetrics) RecordAudit(sink string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	key := sink + ":ok"
	if err != nil {
		key = sink + ":error"
	}
	m.calls[key]++
}

func testSnapshot(t *testing.T) *config.Snapshot {
	t.Helper()
	snap, err := config.NewRegistry().Initialize(config.MapSource{})
	require.NoError(t, err)
	return snap
}

func TestSnapshotAuditorPublishesToAllSinks(t *testing.T) {
	ok := &fakePublisher{name: "redis"}
	bad := &fakePublisher{name: "kafka", err: errors.New("broker down")}
	last := &fakePublisher{name: "clickhouse"}
	m := &fakeMetrics{}

	a := NewSnapshotAuditor([]drepo.SnapshotPublisher{ok, bad, last}, m, nil, "node-1", time.Second)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	rec, err := a.Publish(context.Background(), testSnapshot(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka: broker down")
	require.NotNil(t, rec)
	assert.Equal(t, fixed, rec.PublishedAt)
	assert.Equal(t, "node-1", rec.Host)

	for _, p := range []*fakePublisher{ok, bad, last} {
		require.Len(t, p.got, 1, p.name)
		assert.Same(t, rec, p.got[0])
		assert.True(t, p.deadline)
	}
	assert.Equal(t, map[string]int{"redis:ok": 1, "kafka:error": 1, "clickhouse:ok": 1}, m.calls)
	assert.Equal(t, []string{"redis", "kafka", "clickhouse"}, a.Sinks())
}

func TestSnapshotAuditorNoSinks(t *testing.T) {
	a := NewSnapshotAuditor(nil, nil, nil, "h", 0)
	rec, err := a.Publish(context.Background(), testSnapshot(t))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Fingerprint)
	assert.NoError(t, a.Close())
}

func TestSnapshotAuditorClose(t *testing.T) {
	a := &fakePublisher{name: "a"}
	b := &fakePublisher{name: "b", closeErr: errors.New("busy")}
	au := NewSnapshotAuditor([]drepo.SnapshotPublisher{a, b}, nil, nil, "h", 0)

	err := au.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b: busy")
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
