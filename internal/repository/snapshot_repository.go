package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ACATN/internal/domain/models"
	"ACATN/internal/domain/repository"
)

// MessageProducer publishes keyed messages; *kafka.Producer implements it.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// ListWriter stores a value and prepends it to a capped list; *cache.RedisCache implements it.
type ListWriter interface {
	SetAndPush(ctx context.Context, key, list string, value interface{}, keep int64) error
	Close() error
}

// KafkaSnapshotPublisher implements SnapshotPublisher for Kafka.
type KafkaSnapshotPublisher struct {
	producer MessageProducer
	topic    string
}

// NewKafkaSnapshotPublisher creates Kafka publisher.
func NewKafkaSnapshotPublisher(producer MessageProducer, topic string) repository.SnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) Name() string { return "kafka" }

// Publish keys by fingerprint so records of one configuration share a partition.
func (p *KafkaSnapshotPublisher) Publish(ctx context.Context, rec *models.SnapshotRecord) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Fingerprint), rec)
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// ClickHouseSnapshotStore implements SnapshotPublisher for ClickHouse.
type ClickHouseSnapshotStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSnapshotStore creates ClickHouse storage.
func NewClickHouseSnapshotStore(db *sql.DB, table string) repository.SnapshotPublisher {
	return &ClickHouseSnapshotStore{db: db, table: table}
}

// SnapshotSchema returns the DDL for the audit table.
func SnapshotSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s ("+
			"published_at DateTime64(3), id String, host String, fingerprint String, "+
			"credentials_valid UInt8, document String"+
			") ENGINE=MergeTree ORDER BY (published_at, id)", database, table),
	}
}

func (s *ClickHouseSnapshotStore) Name() string { return "clickhouse" }

func (s *ClickHouseSnapshotStore) Publish(ctx context.Context, rec *models.SnapshotRecord) error {
	doc, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	var valid uint8
	if rec.CredentialsValid {
		valid = 1
	}

	q := fmt.Sprintf("INSERT INTO %s (published_at, id, host, fingerprint, credentials_valid, document) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	if _, err := s.db.ExecContext(ctx, q,
		rec.PublishedAt,
		rec.ID,
		rec.Host,
		rec.Fingerprint,
		valid,
		string(doc),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Close closes the connection pool the store was given.
func (s *ClickHouseSnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RedisSnapshotStore keeps the latest record and a capped history in Redis.
type RedisSnapshotStore struct {
	cache   ListWriter
	history int64
}

const (
	RedisLatestKey  = "config:latest"
	RedisHistoryKey = "config:history"
)

// NewRedisSnapshotStore creates Redis storage retaining history records.
func NewRedisSnapshotStore(cache ListWriter, history int64) repository.SnapshotPublisher {
	return &RedisSnapshotStore{cache: cache, history: history}
}

func (s *RedisSnapshotStore) Name() string { return "redis" }

func (s *RedisSnapshotStore) Publish(ctx context.Context, rec *models.SnapshotRecord) error {
	if err := s.cache.SetAndPush(ctx, RedisLatestKey, RedisHistoryKey, rec, s.history); err != nil {
		return fmt.Errorf("redis publish snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
