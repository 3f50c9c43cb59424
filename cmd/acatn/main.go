package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"ACATN/internal/di"
	"ACATN/pkg/config"
	applogger "ACATN/pkg/logger"

	"github.com/alecthomas/kingpin/v2"
)

func main() {
	app := kingpin.New("acatn", "ACATN configuration service - loads, validates and publishes trading configuration")
	opts := di.Options{}

	app.Flag("env-file", "Optional dotenv file; process environment wins").Default(".env").StringVar(&opts.EnvFile)
	app.Flag("log-level", "Log level (debug, info, warn, error)").Default("info").StringVar(&opts.LogLevel)
	app.Flag("log-format", "Log format").Default("console").EnumVar(&opts.LogFormat, "console", "json")

	serve := app.Command("serve", "Initialize configuration, publish the audit record and serve the inspection API").Default()
	serve.Flag("http-host", "HTTP listen host").Default("0.0.0.0").StringVar(&opts.HTTPHost)
	serve.Flag("http-port", "HTTP listen port").Default("8080").IntVar(&opts.HTTPPort)
	serve.Flag("http-read-timeout", "HTTP read timeout").Default("10s").DurationVar(&opts.HTTPReadTimeout)
	serve.Flag("http-write-timeout", "HTTP write timeout").Default("10s").DurationVar(&opts.HTTPWriteTimeout)
	serve.Flag("http-shutdown-timeout", "Graceful shutdown timeout").Default("10s").DurationVar(&opts.HTTPShutdownTimeout)
	serve.Flag("audit-sink", "Audit sink, repeatable").Default(di.SinkNone).
		EnumsVar(&opts.AuditSinks, di.SinkNone, di.SinkKafka, di.SinkRedis, di.SinkClickHouse)
	serve.Flag("audit-timeout", "Per-sink publish timeout").Default("5s").DurationVar(&opts.AuditTimeout)
	serve.Flag("kafka-brokers", "Kafka brokers").Default("localhost:9092").StringsVar(&opts.KafkaBrokers)
	serve.Flag("kafka-topic", "Kafka topic for snapshot records").Default("acatn.config.snapshots").StringVar(&opts.KafkaTopic)
	serve.Flag("kafka-compression", "Kafka compression codec").Default("gzip").EnumVar(&opts.KafkaCompression, "gzip", "snappy", "lz4", "zstd")
	serve.Flag("kafka-required-acks", "Kafka required acks (-1 all, 0 none, 1 leader)").Default("-1").IntVar(&opts.KafkaRequiredAcks)
	serve.Flag("kafka-max-attempts", "Kafka write attempts").Default("3").IntVar(&opts.KafkaMaxAttempts)
	serve.Flag("redis-addr", "Redis address").Default("localhost:6379").StringVar(&opts.RedisAddr)
	serve.Flag("redis-password", "Redis password").Envar("ACATN_REDIS_PASSWORD").StringVar(&opts.RedisPassword)
	serve.Flag("redis-db", "Redis database").Default("0").IntVar(&opts.RedisDB)
	serve.Flag("redis-history", "Snapshot records kept in the Redis history list").Default("50").Int64Var(&opts.RedisHistory)
	serve.Flag("clickhouse-host", "ClickHouse host").Default("localhost").StringVar(&opts.ClickHouseHost)
	serve.Flag("clickhouse-port", "ClickHouse port").Default("9000").IntVar(&opts.ClickHousePort)
	serve.Flag("clickhouse-http", "Use the ClickHouse HTTP protocol").BoolVar(&opts.ClickHouseHTTP)
	serve.Flag("clickhouse-database", "ClickHouse database").Default("acatn").StringVar(&opts.ClickHouseDatabase)
	serve.Flag("clickhouse-user", "ClickHouse user").Default("default").StringVar(&opts.ClickHouseUser)
	serve.Flag("clickhouse-password", "ClickHouse password").Envar("ACATN_CLICKHOUSE_PASSWORD").StringVar(&opts.ClickHousePassword)
	serve.Flag("clickhouse-table", "ClickHouse snapshot table").Default("config_snapshots").StringVar(&opts.ClickHouseTable)

	printCmd := app.Command("print", "Print the configuration document as YAML")
	showSecrets := printCmd.Flag("show-secrets", "Print credential secrets unredacted").Bool()

	validateCmd := app.Command("validate", "Validate the configuration and report credential problems")

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	var err error
	switch cmd {
	case serve.FullCommand():
		err = runServe(opts)
	case printCmd.FullCommand():
		err = runPrint(opts, os.Stdout, !*showSecrets)
	case validateCmd.FullCommand():
		err = runValidate(opts, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "acatn: %v\n", err)
		os.Exit(1)
	}
}

func runServe(opts di.Options) error {
	app, err := di.InitializeApp(opts)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	return app.Run()
}

// loadSnapshot builds a snapshot without the service stack.
func loadSnapshot(opts di.Options) (*config.Snapshot, error) {
	l, err := applogger.New(&applogger.Config{Level: opts.LogLevel, Format: opts.LogFormat, Output: "stderr"})
	if err != nil {
		return nil, err
	}
	src, err := config.NewEnvSource(config.WithEnvFile(opts.EnvFile))
	if err != nil {
		return nil, err
	}
	return config.NewRegistry(config.WithLogger(l)).Initialize(src)
}

func runPrint(opts di.Options, w io.Writer, redacted bool) error {
	snap, err := loadSnapshot(opts)
	if err != nil {
		return err
	}
	return snap.Encode(w, redacted)
}

func runValidate(opts di.Options, w io.Writer) error {
	start := time.Now()
	snap, err := loadSnapshot(opts)
	if err != nil {
		return err
	}

	v := snap.CredentialValidation()
	fmt.Fprintf(w, "trading limits: ok\nlearning: ok\ncredential: %s\n", v)
	fmt.Fprintf(w, "checked in %s\n", time.Since(start).Round(time.Millisecond))
	if !v.OK() {
		return fmt.Errorf("credential invalid: %d problem(s)", len(v.Problems))
	}
	return nil
}
