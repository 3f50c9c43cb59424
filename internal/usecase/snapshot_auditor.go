package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ACATN/internal/domain/models"
	drepo "ACATN/internal/domain/repository"
	"ACATN/pkg/config"
	"ACATN/pkg/logger"
)

// SnapshotAuditor publishes the configuration snapshot to audit sinks.
// Sink failures never affect the snapshot itself.
type SnapshotAuditor struct {
	pubs    []drepo.SnapshotPublisher
	metrics drepo.Metrics
	log     *logger.Logger
	host    string
	timeout time.Duration
	now     func() time.Time
}

// NewSnapshotAuditor creates a new SnapshotAuditor instance.
func NewSnapshotAuditor(
	pubs []drepo.SnapshotPublisher,
	metrics drepo.Metrics,
	log *logger.Logger,
	host string,
	timeout time.Duration,
) *SnapshotAuditor {
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotAuditor{
		pubs:    pubs,
		metrics: metrics,
		log:     log,
		host:    host,
		timeout: timeout,
		now:     time.Now,
	}
}

// Publish sends one record for snap to every sink. It attempts all sinks and
// returns the joined failures.
func (a *SnapshotAuditor) Publish(ctx context.Context, snap *config.Snapshot) (*models.SnapshotRecord, error) {
	rec, err := models.NewSnapshotRecord(snap, a.host, a.now())
	if err != nil {
		return nil, fmt.Errorf("build snapshot record: %w", err)
	}

	var errs []error
	for _, p := range a.pubs {
		err := a.publishOne(ctx, p, rec)
		if a.metrics != nil {
			a.metrics.RecordAudit(p.Name(), err)
		}
		if err != nil {
			a.log.Warn("snapshot audit publish failed",
				logger.String("sink", p.Name()),
				logger.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		a.log.Info("snapshot audit published",
			logger.String("sink", p.Name()),
			logger.String("fingerprint", rec.Fingerprint),
		)
	}
	return rec, errors.Join(errs...)
}

func (a *SnapshotAuditor) publishOne(ctx context.Context, p drepo.SnapshotPublisher, rec *models.SnapshotRecord) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return p.Publish(ctx, rec)
}

// Sinks returns the configured sink names.
func (a *SnapshotAuditor) Sinks() []string {
	names := make([]string, 0, len(a.pubs))
	for _, p := range a.pubs {
		names = append(names, p.Name())
	}
	return names
}

// Close releases every sink.
func (a *SnapshotAuditor) Close() error {
	var errs []error
	for _, p := range a.pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
