package config

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/graph"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/resolver"
	"github.com/Ramsey-B/fern/pkg/table"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
)

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"fern"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Table IO
	InputEncoding  string   `env:"INPUT_ENCODING" env-default:"latin1" validate:"encoding"`
	OutputEncoding string   `env:"OUTPUT_ENCODING" env-default:"utf-8" validate:"encoding"`
	Delimiter      string   `env:"CSV_DELIMITER" env-default:"," validate:"len=1"`
	NullTokens     []string `env:"NULL_TOKENS" env-default:"NA,N/A,n/a,NaN,nan,-NaN,-nan,null,NULL,None,#N/A,#NA,<NA>"`

	// Input column names
	ColumnAccountID           string `env:"COLUMN_ACCOUNT_ID" env-default:"Account ID" validate:"required"`
	ColumnAccountName         string `env:"COLUMN_ACCOUNT_NAME" env-default:"Account Name" validate:"required"`
	ColumnDomain              string `env:"COLUMN_DOMAIN" env-default:"Domain" validate:"required"`
	ColumnWebsite             string `env:"COLUMN_WEBSITE" env-default:"Website" validate:"required"`
	ColumnBillingCountry      string `env:"COLUMN_BILLING_COUNTRY" env-default:"Billing Country" validate:"required"`
	ColumnClosedOpportunities string `env:"COLUMN_CLOSED_OPPORTUNITIES" env-default:"# of Closed Opportunities" validate:"required"`
	ColumnOpenOpportunities   string `env:"COLUMN_OPEN_OPPORTUNITIES" env-default:"# of Open Opportunities" validate:"required"`

	// Resolver rules
	PreferredSuffix    string   `env:"PREFERRED_SUFFIX" env-default:".com" validate:"required"`
	PrimaryCountries   []string `env:"PRIMARY_COUNTRIES" env-default:"United States"`
	SecondaryCountries []string `env:"SECONDARY_COUNTRIES" env-default:"United Kingdom,Europe"`
	TieBreak           string   `env:"MERGE_TIE_BREAK" env-default:"first" validate:"oneof=first last"`
	DomainNormalizers  []string `env:"DOMAIN_NORMALIZERS" validate:"dive,normalizer"`
	NameNormalizers    []string `env:"NAME_NORMALIZERS" validate:"dive,normalizer"`

	// PostgreSQL table backend
	DatabaseInsertBatchSize int `env:"DB_INSERT_BATCH_SIZE" env-default:"500" validate:"gt=0"`

	// Kafka outcome events
	KafkaEnabled      bool          `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string      `env:"KAFKA_BROKERS" env-default:"localhost:9092" validate:"required_if=KafkaEnabled true"`
	KafkaOutputTopic  string        `env:"KAFKA_OUTPUT_TOPIC" env-default:"account-outcomes" validate:"required_if=KafkaEnabled true"`
	KafkaBatchSize    int           `env:"KAFKA_BATCH_SIZE" env-default:"100" validate:"gt=0"`
	KafkaBatchTimeout time.Duration `env:"KAFKA_BATCH_TIMEOUT" env-default:"100ms"`
	KafkaRequiredAcks int           `env:"KAFKA_REQUIRED_ACKS" env-default:"1" validate:"oneof=-1 0 1"`
	KafkaCompression  string        `env:"KAFKA_COMPRESSION" env-default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`

	// Graph Database (Memgraph)
	GraphEnabled    bool   `env:"GRAPH_ENABLED" env-default:"false"`
	GraphDBHost     string `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" env-default:""`
	GraphDBName     string `env:"GRAPH_DB_NAME" env-default:""`
	GraphNodeLabel  string `env:"GRAPH_NODE_LABEL" env-default:"Account" validate:"alphanum"`

	// Metrics
	MetricsFile string `env:"METRICS_FILE" env-default:""`

	// Tracing
	TracingEnabled  bool          `env:"TRACING_ENABLED" env-default:"false"`
	TracingEndpoint string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
	TracingProtocol string        `env:"OTEL_EXPORTER_OTLP_PROTOCOL" env-default:"grpc" validate:"oneof=grpc http"`
	TracingInsecure bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
	TracingHeaders  string        `env:"OTEL_EXPORTER_OTLP_HEADERS" env-default:""`
	TracingTimeout  time.Duration `env:"OTEL_EXPORTER_OTLP_TIMEOUT" env-default:"10s"`
}

func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Pretty: c.PrettyLogs}
}

func (c *Config) Tracing() tracing.Config {
	return tracing.Config{
		Enabled:     c.TracingEnabled,
		ServiceName: c.AppName,
		OTLP: exporters.OTLPConfig{
			Endpoint: c.TracingEndpoint,
			Protocol: c.TracingProtocol,
			Insecure: c.TracingInsecure,
			Headers:  exporters.ParseHeaders(c.TracingHeaders),
			Timeout:  c.TracingTimeout,
		},
	}
}

func (c *Config) Columns() table.Columns {
	return table.Columns{
		AccountID:           c.ColumnAccountID,
		AccountName:         c.ColumnAccountName,
		Domain:              c.ColumnDomain,
		Website:             c.ColumnWebsite,
		BillingCountry:      c.ColumnBillingCountry,
		ClosedOpportunities: c.ColumnClosedOpportunities,
		OpenOpportunities:   c.ColumnOpenOpportunities,
	}
}

func (c *Config) ParseOptions() table.ParseOptions {
	return table.ParseOptions{Columns: c.Columns(), NullTokens: c.NullTokens}
}

func (c *Config) InputCSV() table.CSVOptions {
	return table.CSVOptions{Encoding: c.InputEncoding, Comma: []rune(c.Delimiter)[0]}
}

func (c *Config) OutputCSV() table.CSVOptions {
	return table.CSVOptions{Encoding: c.OutputEncoding, Comma: []rune(c.Delimiter)[0]}
}

func (c *Config) ResolverOptions() resolver.Options {
	return resolver.Options{
		Rules: resolver.ParentRules{
			PreferredSuffix:    c.PreferredSuffix,
			PrimaryCountries:   c.PrimaryCountries,
			SecondaryCountries: c.SecondaryCountries,
		},
		TieBreak:          resolver.TieBreak(c.TieBreak),
		DomainNormalizers: c.DomainNormalizers,
		NameNormalizers:   c.NameNormalizers,
	}
}

func (c *Config) Kafka() kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:      c.KafkaBrokers,
		Topic:        c.KafkaOutputTopic,
		BatchSize:    c.KafkaBatchSize,
		BatchTimeout: c.KafkaBatchTimeout,
		RequiredAcks: c.KafkaRequiredAcks,
		Compression:  c.KafkaCompression,
	}
}

func (c *Config) Graph() graph.Config {
	return graph.Config{
		Host:     c.GraphDBHost,
		Port:     c.GraphDBPort,
		Username: c.GraphDBUser,
		Password: c.GraphDBPassword,
		Database: c.GraphDBName,
	}
}
