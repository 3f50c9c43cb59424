package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"ACATN/internal/domain/repository"
	"ACATN/internal/handler/api"
	internalrepo "ACATN/internal/repository"
	"ACATN/internal/usecase"
	pkgcache "ACATN/pkg/cache"
	pkgch "ACATN/pkg/clickhouse"
	"ACATN/pkg/config"
	xhttp "ACATN/pkg/http"
	pkgkafka "ACATN/pkg/kafka"
	applogger "ACATN/pkg/logger"
	"ACATN/pkg/metrics"
	"ACATN/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideLogger creates the process logger.
func ProvideLogger(opts Options) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  opts.LogLevel,
		Format: opts.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideSource creates the environment source with the optional env file.
func ProvideSource(opts Options) (config.Source, error) {
	src, err := config.NewEnvSource(config.WithEnvFile(opts.EnvFile))
	if err != nil {
		return nil, fmt.Errorf("env source: %w", err)
	}
	return src, nil
}

// ProvidePrometheusRegistry creates the registry behind /metrics.
func ProvidePrometheusRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates the Prometheus config recorder.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Recorder {
	return metrics.New(reg)
}

// ProvideRegistry creates the configuration registry.
func ProvideRegistry(l *applogger.Logger, rec *metrics.Recorder) *config.Registry {
	return config.NewRegistry(
		config.WithLogger(l.With(applogger.String("component", "config"))),
		config.WithObserver(rec),
	)
}

// ProvideAuditSinks connects the sinks selected by opts.AuditSinks. Sinks
// opened before a failure are closed again.
func ProvideAuditSinks(opts Options) ([]repository.SnapshotPublisher, error) {
	var sinks []repository.SnapshotPublisher
	fail := func(err error) ([]repository.SnapshotPublisher, error) {
		for _, s := range sinks {
			_ = s.Close()
		}
		return nil, err
	}

	if opts.sinkEnabled(SinkKafka) {
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(opts.KafkaBrokers),
			pkgkafka.WithCompression(opts.KafkaCompression),
			pkgkafka.WithRequiredAcks(opts.KafkaRequiredAcks),
			pkgkafka.WithMaxAttempts(opts.KafkaMaxAttempts),
			pkgkafka.WithTimeouts(opts.AuditTimeout, opts.AuditTimeout),
		)
		if err != nil {
			return fail(fmt.Errorf("kafka producer: %w", err))
		}
		sinks = append(sinks, internalrepo.NewKafkaSnapshotPublisher(producer, opts.KafkaTopic))
	}

	if opts.sinkEnabled(SinkRedis) {
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(opts.RedisAddr),
			pkgcache.WithRedisPassword(opts.RedisPassword),
			pkgcache.WithRedisDB(opts.RedisDB),
		)
		if err != nil {
			return fail(fmt.Errorf("redis: %w", err))
		}
		sinks = append(sinks, internalrepo.NewRedisSnapshotStore(rc, opts.RedisHistory))
	}

	if opts.sinkEnabled(SinkClickHouse) {
		client, err := pkgch.NewClient(
			pkgch.WithHost(opts.ClickHouseHost),
			pkgch.WithPort(opts.ClickHousePort),
			pkgch.WithDatabase(opts.ClickHouseDatabase),
			pkgch.WithCredentials(opts.ClickHouseUser, opts.ClickHousePassword),
			pkgch.WithHTTP(opts.ClickHouseHTTP),
			pkgch.WithTimeouts(opts.AuditTimeout, opts.AuditTimeout),
		)
		if err != nil {
			return fail(fmt.Errorf("clickhouse client: %w", err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, internalrepo.SnapshotSchema(opts.ClickHouseDatabase, opts.ClickHouseTable)); err != nil {
			_ = client.Close()
			return fail(fmt.Errorf("clickhouse schema: %w", err))
		}
		sinks = append(sinks, internalrepo.NewClickHouseSnapshotStore(client.DB(), opts.ClickHouseDatabase+"."+opts.ClickHouseTable))
	}

	return sinks, nil
}

// ProvideSnapshotAuditor creates the audit use case over the selected sinks.
func ProvideSnapshotAuditor(
	sinks []repository.SnapshotPublisher,
	rec *metrics.Recorder,
	l *applogger.Logger,
	opts Options,
) *usecase.SnapshotAuditor {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return usecase.NewSnapshotAuditor(sinks, rec, l.With(applogger.String("component", "audit")), host, opts.AuditTimeout)
}

// ProvideConfigHandler creates the inspection API handler.
func ProvideConfigHandler(l *applogger.Logger, registry *config.Registry) *api.ConfigHandler {
	return api.NewConfigHandler(l, registry)
}

// ProvideHTTPServer creates the echo server exposing the handler and /metrics.
func ProvideHTTPServer(h *api.ConfigHandler, l *applogger.Logger, reg *prometheus.Registry, opts Options) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(opts.HTTPHost),
		xhttp.WithPort(opts.HTTPPort),
		xhttp.WithTimeouts(opts.HTTPReadTimeout, opts.HTTPWriteTimeout, opts.HTTPShutdownTimeout),
		xhttp.WithLogger(l),
		xhttp.WithPrometheus(reg, reg),
	)
}

// ProvideApp assembles the application.
func ProvideApp(
	registry *config.Registry,
	src config.Source,
	auditor *usecase.SnapshotAuditor,
	srv *xhttp.Server,
	l *applogger.Logger,
) *server.App {
	return server.New(registry, src, auditor, srv, l)
}
