package di

import "time"

// Audit sink names accepted by Options.AuditSinks.
const (
	SinkNone       = "none"
	SinkKafka      = "kafka"
	SinkRedis      = "redis"
	SinkClickHouse = "clickhouse"
)

// Options carries process-level settings parsed from the command line.
type Options struct {
	EnvFile string

	LogLevel  string
	LogFormat string

	HTTPHost            string
	HTTPPort            int
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPShutdownTimeout time.Duration

	AuditSinks   []string
	AuditTimeout time.Duration

	KafkaBrokers      []string
	KafkaTopic        string
	KafkaCompression  string
	KafkaRequiredAcks int
	KafkaMaxAttempts  int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisHistory  int64

	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseTable    string
	ClickHouseHTTP     bool
}

func (o Options) sinkEnabled(name string) bool {
	for _, s := range o.AuditSinks {
		if s == name {
			return true
		}
	}
	return false
}
