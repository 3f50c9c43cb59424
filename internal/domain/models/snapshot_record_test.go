package models

import (
	"testing"
	"time"

	"ACATN/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T, src config.MapSource) *config.Snapshot {
	t.Helper()
	snap, err := config.NewRegistry().Initialize(src)
	require.NoError(t, err)
	return snap
}

func TestNewSnapshotRecord(t *testing.T) {
	snap := snapshot(t, config.MapSource{
		"FIREBASE_PRIVATE_KEY": config.PrivateKeyHeader + `\nsecret`,
	})
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.FixedZone("X", 3600))

	rec, err := NewSnapshotRecord(snap, "node-1", now)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "node-1", rec.Host)
	assert.Equal(t, now.UTC(), rec.PublishedAt)
	assert.Len(t, rec.Fingerprint, 64)
	assert.False(t, rec.CredentialsValid)
	assert.ElementsMatch(t, []string{"projectId", "clientEmail"}, fieldNames(rec.Problems))
	assert.Equal(t, "[REDACTED]", rec.Document["credential"]["privateKey"])
}

func TestFingerprintStable(t *testing.T) {
	src := config.MapSource{"MAX_DAILY_LOSS": "0.03"}
	a, err := NewSnapshotRecord(snapshot(t, src), "a", time.Now())
	require.NoError(t, err)
	b, err := NewSnapshotRecord(snapshot(t, src), "b", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.ID, b.ID)

	c, err := NewSnapshotRecord(snapshot(t, config.MapSource{"MAX_DAILY_LOSS": "0.04"}), "a", time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func fieldNames(ps []config.FieldProblem) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Field)
	}
	return out
}
