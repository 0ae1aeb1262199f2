package appconfig

import (
	"time"

	"tolet.dev/backend/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9010"`

	// DevOpsAddress is the listen address for metrics and pprof. Leaving this empty
	// serves /metrics on the service address instead.
	DevOpsAddress string `split_words:"true"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated application log file. Leaving this empty disables file logging.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// LogFileMaxSizeMB is the size at which the log file gets rotated.
	LogFileMaxSizeMB int `split_words:"true" default:"100"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// CORSAllowOrigins is the comma separated list of origins the web frontend is served from.
	CORSAllowOrigins string `split_words:"true" default:"http://localhost:3000"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic.
	DevMode bool `split_words:"true"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing.
	TracingEnabled bool `split_words:"true"`

	// TracingExporters to indicate which exporters to use for tracing.
	// Valid values are: otlp, jaeger, stdout (for debug).
	TracingExporters []string `split_words:"true" default:"otlp"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	TracingSampleRate float64 `split_words:"true" default:"1.0"`

	// PostgresDSN is the data source name for the PostgreSQL database. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	PostgresDSN string `required:"true" split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// InfraConnectAttempts is how many times the Postgres and Redis pings are attempted at boot.
	InfraConnectAttempts uint `split_words:"true" default:"5"`

	// NatsURL is the URL of the NATS server used to broadcast listing changes between instances.
	NatsURL string `required:"true" split_words:"true" default:"nats://127.0.0.1:4222"`

	// RedisURL is the URL of the Redis server. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL
	RedisURL string `required:"true" split_words:"true" default:"redis://127.0.0.1:6379/0"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// DatadogProfilerEnabled to indicate whether to enable Datadog profiler.
	DatadogProfilerEnabled bool `split_words:"true" default:"false"`

	// DatadogProfilerAgentAddress is the address of the Datadog profiler agent.
	DatadogProfilerAgentAddress string `split_words:"true" default:"localhost:8126"`

	// SessionSecret signs session tokens. It must be kept stable across instances.
	SessionSecret string `required:"true" split_words:"true"`

	// SessionLifetime is how long an issued session token stays valid.
	SessionLifetime time.Duration `split_words:"true" default:"168h"`

	// SessionCookieName is the cookie the session token is set on.
	SessionCookieName string `split_words:"true" default:"tolet_session"`

	// SessionCookieSecure marks the session cookie as Secure. Disable only for local http development.
	SessionCookieSecure bool `split_words:"true" default:"true"`

	// S3Bucket is the bucket property images are uploaded to. Leaving this empty disables image uploads.
	S3Bucket string `split_words:"true"`

	S3Region string `split_words:"true" default:"ap-southeast-1"`

	// S3Endpoint overrides the S3 endpoint, e.g. for MinIO or Cloudflare R2.
	S3Endpoint string `split_words:"true"`

	S3AccessKeyID     string `split_words:"true"`
	S3SecretAccessKey string `split_words:"true"`

	// S3PublicBaseURL is the public prefix uploaded objects are served from.
	S3PublicBaseURL string `split_words:"true"`

	// S3PresignTTL is how long a presigned upload URL stays valid.
	S3PresignTTL time.Duration `split_words:"true" default:"15m"`

	// ListingSnapshotTTL bounds how long the in-process property snapshot is served before reloading.
	// Writes on any instance invalidate it earlier through NATS.
	ListingSnapshotTTL time.Duration `split_words:"true" default:"1m"`

	// AuthRateLimit is the max number of login/register attempts per IP per minute.
	AuthRateLimit int `split_words:"true" default:"20"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
