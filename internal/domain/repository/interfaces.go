package repository

import (
	"context"

	"ACATN/internal/domain/models"
)

// SnapshotPublisher persists or forwards configuration audit records.
type SnapshotPublisher interface {
	Name() string
	Publish(ctx context.Context, rec *models.SnapshotRecord) error
	Close() error
}

type Metrics interface {
	RecordAudit(sink string, err error)
}
