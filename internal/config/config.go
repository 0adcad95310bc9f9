package config

import (
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrMissingCredential is returned by Validate when a tracker or model
// credential is absent.
var ErrMissingCredential = errors.New("config: missing credential")

// Model providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Tracker kinds.
const (
	TrackerGitHub = "github"
	TrackerNotion = "notion"
)

// Config holds the full application configuration.
type Config struct {
	Feed    FeedConfig    `yaml:"feed" mapstructure:"feed"`
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Tracker TrackerConfig `yaml:"tracker" mapstructure:"tracker"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// FeedConfig configures the literature feed.
type FeedConfig struct {
	URL          string `yaml:"url" mapstructure:"url"`
	LookbackDays int    `yaml:"lookback_days" mapstructure:"lookback_days"`
	MinBodyChars int    `yaml:"min_body_chars" mapstructure:"min_body_chars"`
	StripHTML    bool   `yaml:"strip_html" mapstructure:"strip_html"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ModelConfig configures the scoring model provider.
type ModelConfig struct {
	Provider           string  `yaml:"provider" mapstructure:"provider"`
	Key                string  `yaml:"key" mapstructure:"key"`
	BaseURL            string  `yaml:"base_url" mapstructure:"base_url"`
	PrimaryModel       string  `yaml:"primary_model" mapstructure:"primary_model"`
	SecondaryModel     string  `yaml:"secondary_model" mapstructure:"secondary_model"`
	PrimaryMaxTokens   int64   `yaml:"primary_max_tokens" mapstructure:"primary_max_tokens"`
	SecondaryMaxTokens int64   `yaml:"secondary_max_tokens" mapstructure:"secondary_max_tokens"`
	Temperature        float64 `yaml:"temperature" mapstructure:"temperature"`
	RequestsPerSecond  float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Domain             string  `yaml:"domain" mapstructure:"domain"`
}

// TrackerConfig configures where the report is published.
type TrackerConfig struct {
	Kind           string `yaml:"kind" mapstructure:"kind"`
	Token          string `yaml:"token" mapstructure:"token"`
	Repo           string `yaml:"repo" mapstructure:"repo"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	NotionDatabase string `yaml:"notion_database" mapstructure:"notion_database"`
}

// ReportConfig configures report rendering and the local backup.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	LinkBase  string `yaml:"link_base" mapstructure:"link_base"`
	Topic     string `yaml:"topic" mapstructure:"topic"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names are honored after the prefixed ones.
	if err := v.BindEnv("tracker.token", "DIGEST_TRACKER_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, eris.Wrap(err, "config: bind tracker token")
	}
	if err := v.BindEnv("model.key", "DIGEST_MODEL_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind model key")
	}

	// Defaults
	v.SetDefault("feed.url", "https://pubmed.ncbi.nlm.nih.gov/rss/search/1BsDMEWA_ZXeDiqmjuX8stoSY6U8uLseWdwk5HWoqyOvYipwoU/?limit=50&utm_campaign=pubmed-2&fc=20250312220950")
	v.SetDefault("feed.lookback_days", 7)
	v.SetDefault("feed.min_body_chars", 50)
	v.SetDefault("feed.strip_html", true)
	v.SetDefault("feed.timeout_secs", 30)
	v.SetDefault("model.provider", ProviderOpenAI)
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.primary_model", "deepseek-chat")
	v.SetDefault("model.secondary_model", "deepseek-reasoner")
	v.SetDefault("model.primary_max_tokens", 500)
	v.SetDefault("model.secondary_max_tokens", 300)
	v.SetDefault("model.temperature", 0.1)
	v.SetDefault("model.requests_per_second", 0)
	v.SetDefault("model.timeout_secs", 0)
	v.SetDefault("model.domain", "Natural Killer cell therapy")
	v.SetDefault("tracker.kind", TrackerGitHub)
	v.SetDefault("tracker.repo", "whiteSongLin/test")
	v.SetDefault("tracker.base_url", "https://api.github.com")
	v.SetDefault("tracker.timeout_secs", 30)
	v.SetDefault("tracker.notion_database", "")
	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.link_base", "https://doi.org/")
	v.SetDefault("report.topic", "NK Cell")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the credentials needed for a run are present and the
// provider and tracker kinds are known. Missing credentials wrap
// ErrMissingCredential.
func (c *Config) Validate() error {
	var missing []string

	switch c.Tracker.Kind {
	case TrackerGitHub:
		if c.Tracker.Token == "" {
			missing = append(missing, "tracker.token (GITHUB_TOKEN)")
		}
		if c.Tracker.Repo == "" {
			return eris.New("config: tracker.repo is required for the github tracker")
		}
	case TrackerNotion:
		if c.Tracker.Token == "" {
			missing = append(missing, "tracker.token")
		}
		if c.Tracker.NotionDatabase == "" {
			return eris.New("config: tracker.notion_database is required for the notion tracker")
		}
	default:
		return eris.Errorf("config: unknown tracker kind %q", c.Tracker.Kind)
	}

	if err := c.ValidateModel(); err != nil {
		if !eris.Is(err, ErrMissingCredential) {
			return err
		}
		missing = append(missing, "model.key (OPENAI_API_KEY)")
	}

	if len(missing) > 0 {
		return eris.Wrapf(ErrMissingCredential, "%s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateModel checks only the model provider settings. Commands that never
// publish use it instead of Validate.
func (c *Config) ValidateModel() error {
	switch c.Model.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return eris.Errorf("config: unknown model provider %q", c.Model.Provider)
	}
	if c.Model.Key == "" {
		return eris.Wrap(ErrMissingCredential, "model.key (OPENAI_API_KEY)")
	}
	if c.Model.PrimaryModel == "" || c.Model.SecondaryModel == "" {
		return eris.New("config: model.primary_model and model.secondary_model are required")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
