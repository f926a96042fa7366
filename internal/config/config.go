package config

import (
	"time"

	"github.com/joeshaw/envdecode"
	errwrap "github.com/pkg/errors"
	"github.com/subosito/gotenv"
)

type Config struct {
	HTTPPort   int    `env:"HTTP_PORT,default=8080"`
	SQLitePath string `env:"SQLITE_PATH,default=ch-insight.db"`

	// SecretKey seals stored connection passwords; JWTSecret (optional)
	// enables bearer auth on the API.
	SecretKey string `env:"SECRET_KEY,required"`
	JWTSecret string `env:"JWT_SECRET"`

	AMQPUrl      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE,default=ch-insight.reports"`

	RefreshInterval    time.Duration `env:"REFRESH_INTERVAL,default=15m"`
	AnalysisWindowDays int           `env:"ANALYSIS_WINDOW_DAYS,default=7"`
	BucketWidth        time.Duration `env:"BUCKET_WIDTH,default=1m"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load reads .env when present, then decodes the environment.
func Load() (*Config, error) {
	_ = gotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, errwrap.Wrap(err, "config.Load")
	}
	return &cfg, nil
}
