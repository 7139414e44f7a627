// Package config decodes process settings from the environment.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/timeline"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Empty paths select the built-in lexicon and evaluation form.
	LexiconPath string `envconfig:"LEXICON_PATH"`
	FormPath    string `envconfig:"FORM_PATH"`

	TranscribeURL     string        `envconfig:"TRANSCRIBE_URL"`
	UseMockTranscribe bool          `envconfig:"USE_MOCK_TRANSCRIBE" default:"false"`
	TranscribeTimeout time.Duration `envconfig:"TRANSCRIBE_HTTP_TIMEOUT" default:"12s"`

	BatchWorkers   int           `envconfig:"BATCH_WORKERS" default:"4"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"40s"`
	DatasetPath    string        `envconfig:"DATASET_PATH"`

	DelayConcerningMin   float64 `envconfig:"DELAY_CONCERNING_MIN" default:"10"`
	DelayUnacceptableMin float64 `envconfig:"DELAY_UNACCEPTABLE_MIN" default:"30"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, &apperr.ConfigError{Source: "environment", Reason: "decode", Raw: err}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch {
	case c.BatchWorkers < 1:
		return apperr.Config("environment", 0, "BATCH_WORKERS", "must be at least 1")
	case c.RequestTimeout <= 0:
		return apperr.Config("environment", 0, "REQUEST_TIMEOUT", "must be positive")
	case c.TranscribeTimeout <= 0:
		return apperr.Config("environment", 0, "TRANSCRIBE_HTTP_TIMEOUT", "must be positive")
	case c.DelayConcerningMin < 0 || c.DelayConcerningMin >= c.DelayUnacceptableMin:
		return apperr.Config("environment", 0, "DELAY_CONCERNING_MIN", "must be below DELAY_UNACCEPTABLE_MIN")
	}
	return nil
}

// Timeline returns the default timeline configuration with the delay
// thresholds from the environment.
func (c *Config) Timeline() timeline.Config {
	tc := timeline.DefaultConfig()
	tc.DelayConcerning = c.DelayConcerningMin
	tc.DelayUnacceptable = c.DelayUnacceptableMin
	return tc
}

// TranscriptionEnabled reports whether recordings can be scored.
func (c *Config) TranscriptionEnabled() bool {
	return c.UseMockTranscribe || c.TranscribeURL != ""
}
