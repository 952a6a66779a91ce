package config

import (
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Service    Service    `envconfig:"SERVICE"`
	Model      Model      `envconfig:"MODEL"`
	Cache      Cache      `envconfig:"CACHE"`
	APIKey     APIKey     `envconfig:"API_KEY"`
	RateLimit  RateLimit  `envconfig:"RATE_LIMIT"`
	Audit      Audit      `envconfig:"AUDIT"`
	SQS        SQS        `envconfig:"SQS"`
	Kafka      Kafka      `envconfig:"KAFKA"`
	ClickHouse ClickHouse `envconfig:"CLICKHOUSE"`
	Consumer   Consumer   `envconfig:"CONSUMER"`
}

type Service struct {
	Environment        string   `split_words:"true" required:"true"`
	APIPort            string   `split_words:"true" default:"8080"`
	Host               string   `split_words:"true" default:"localhost:8080"`
	LogLevel           string   `split_words:"true" default:"info"`
	Version            string   `split_words:"true" default:"1.0.0"`
	CORSAllowedOrigins []string `split_words:"true" default:"*"`
	TrustedProxies     []string `split_words:"true"`
}

type Model struct {
	Path              string        `split_words:"true" default:"models/churn_model.yaml"`
	MetricsPath       string        `split_words:"true" default:"models/churn_model_metrics.json"`
	DecisionThreshold float64       `split_words:"true" default:"0.0"`
	RiskMediumCutoff  float64       `split_words:"true" default:"0.30"`
	RiskHighCutoff    float64       `split_words:"true" default:"0.60"`
	PredictorWorkers  int64         `split_words:"true" default:"8"`
	PredictorTimeout  time.Duration `split_words:"true" default:"10s"`
	BatchConcurrency  int           `split_words:"true" default:"4"`
}

type Cache struct {
	Enabled    bool          `split_words:"true" default:"false"`
	Backend    string        `split_words:"true" default:"redis"`
	Host       string        `split_words:"true" default:"localhost"`
	Port       string        `split_words:"true" default:"6379"`
	DB         int           `split_words:"true" default:"0"`
	Password   string        `split_words:"true" default:""`
	TTL        time.Duration `split_words:"true" default:"1h"`
	Timeout    time.Duration `split_words:"true" default:"250ms"`
	MaxEntries int           `split_words:"true" default:"10000"`
}

// Addr returns the host:port pair of the cache backend
func (c Cache) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIKey struct {
	Enabled bool   `split_words:"true" default:"false"`
	Value   string `split_words:"true" default:""`
}

type RateLimit struct {
	Enabled           bool          `split_words:"true" default:"true"`
	RequestsPerMinute int           `split_words:"true" default:"100"`
	Burst             int           `split_words:"true" default:"20"`
	IdleTTL           time.Duration `split_words:"true" default:"10m"`
}

type Audit struct {
	LogPath   string        `split_words:"true" default:"logs/predictions.jsonl"`
	Transport string        `split_words:"true" default:"none"`
	Timeout   time.Duration `split_words:"true" default:"2s"`
}

type SQS struct {
	Endpoint string `split_words:"true"`
	QueueURL string `split_words:"true"`
	Region   string `split_words:"true" default:"eu-central-1"`
}

type Kafka struct {
	Brokers []string `split_words:"true" default:"localhost:9092"`
	Topic   string   `split_words:"true" default:"churn-predictions"`
}

type ClickHouse struct {
	Host               string `split_words:"true"`
	Port               string `split_words:"true" default:"9000"`
	Database           string `split_words:"true" default:"churn"`
	User               string `split_words:"true" default:""`
	Password           string `split_words:"true" default:""`
	UseTLS             bool   `split_words:"true" default:"false"`
	MaxOpenConns       int    `split_words:"true" default:"5"`
	MaxIdleConns       int    `split_words:"true" default:"2"`
	ConnMaxLifetimeSec int    `split_words:"true" default:"3600"`
}

// Enabled reports whether a ClickHouse warehouse is configured
func (c ClickHouse) Enabled() bool {
	return c.Host != ""
}

type Consumer struct {
	BatchSizeMin    int    `split_words:"true" default:"100"`
	BatchSizeMax    int    `split_words:"true" default:"2000"`
	BatchTimeoutSec int    `split_words:"true" default:"10"`
	HealthCheckPort string `split_words:"true" default:"8081"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Model.RiskMediumCutoff < 0 || c.Model.RiskHighCutoff > 1 || c.Model.RiskMediumCutoff >= c.Model.RiskHighCutoff {
		return fmt.Errorf("invalid risk cutoffs: medium=%v high=%v", c.Model.RiskMediumCutoff, c.Model.RiskHighCutoff)
	}
	if c.Model.PredictorWorkers < 1 {
		return fmt.Errorf("predictor workers must be positive, got %d", c.Model.PredictorWorkers)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute < 1 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("rate limit requires positive requests per minute and burst")
	}
	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported cache backend: %s (supported: redis, memory)", c.Cache.Backend)
	}
	switch c.Audit.Transport {
	case "none", "sqs", "kafka":
	default:
		return fmt.Errorf("unsupported audit transport: %s (supported: none, sqs, kafka)", c.Audit.Transport)
	}
	if c.Audit.Transport == "sqs" && c.SQS.QueueURL == "" {
		return fmt.Errorf("SQS_QUEUE_URL is required when AUDIT_TRANSPORT=sqs")
	}
	for _, proxy := range c.Service.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("invalid trusted proxy %q: must be an IP or CIDR", proxy)
		}
	}
	return nil
}
