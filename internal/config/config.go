package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ClassifierKeyword = "keyword"
	ClassifierModel   = "model"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	RedditClientID     string `env:"REDDIT_CLIENT_ID,required"`
	RedditClientSecret string `env:"REDDIT_CLIENT_SECRET,required"`
	RedditUserAgent    string `env:"REDDIT_USER_AGENT" envDefault:"heard-letter-importer/1.0"`

	// Subreddit pins the run to a single source. When empty the importer
	// walks the per-category subreddit buckets instead.
	Subreddit  string `env:"SUBREDDIT"`
	FetchLimit int    `env:"FETCH_LIMIT" envDefault:"25"`
	TimeWindow string `env:"TIME_WINDOW" envDefault:"month"`

	LLMAPIKey    string        `env:"LLM_API_KEY"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	RateLimitRPS int           `env:"RATE_LIMIT_RPS" envDefault:"1"`

	ModelAssist      bool   `env:"MODEL_ASSIST" envDefault:"true"`
	Classifier       string `env:"CLASSIFIER" envDefault:"keyword"`
	TransformEnabled bool   `env:"TRANSFORM_ENABLED" envDefault:"false"`
	RewriteTitles    bool   `env:"REWRITE_TITLES" envDefault:"false"`
	ExpandThreshold  int    `env:"EXPAND_THRESHOLD_WORDS" envDefault:"100"`

	DefaultMoodTag    string   `env:"DEFAULT_MOOD_TAG" envDefault:"😌"`
	DisallowedPhrases []string `env:"DISALLOWED_PHRASES" envSeparator:","`

	SaveDelay time.Duration `env:"SAVE_DELAY" envDefault:"1s"`
	RandSeed  int64         `env:"RAND_SEED"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ModelAssistActive reports whether any model-assisted path may run. A missing
// API key disables model assistance regardless of the toggle.
func (c *Config) ModelAssistActive() bool {
	return c.ModelAssist && c.LLMAPIKey != ""
}
