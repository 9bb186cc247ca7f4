package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"stataid/adapters/stats/engine"
	"stataid/domain/datareadiness/profiling"
	"stataid/internal/errors"
	"stataid/internal/recommender"
	"stataid/internal/resolver"
	"stataid/internal/validation"
)

// Config represents the complete application configuration.
// Values come from an optional YAML file; environment variables override them.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	Profiling   ProfilingConfig   `yaml:"profiling"`
	Validation  ValidationConfig  `yaml:"validation"`
	Recommender RecommenderConfig `yaml:"recommender"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Engine      EngineConfig      `yaml:"engine"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `yaml:"port" env:"PORT" env-default:"8080"`
	GinMode string `yaml:"gin_mode" env:"GIN_MODE" env-default:"release"`
}

// DatabaseConfig selects the analysis store. An empty URL disables persistence.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"` // postgres | sqlite
	URL    string `yaml:"-" env:"DATABASE_URL"`                          // Secret - not in YAML
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // json | console
}

// ProfilingConfig holds column profiling thresholds
type ProfilingConfig struct {
	TopCategories        int     `yaml:"top_categories" env:"PROFILE_TOP_CATEGORIES" env-default:"10"`
	MaxCategoricalLevels int     `yaml:"max_categorical_levels" env:"PROFILE_MAX_CATEGORICAL_LEVELS" env-default:"50"`
	CategoricalRatio     float64 `yaml:"categorical_ratio" env:"PROFILE_CATEGORICAL_RATIO" env-default:"0.5"`
	IDMinRows            int     `yaml:"id_min_rows" env:"PROFILE_ID_MIN_ROWS" env-default:"20"`
	IDSampleSize         int     `yaml:"id_sample_size" env:"PROFILE_ID_SAMPLE_SIZE" env-default:"20"`
	LenientNumbers       bool    `yaml:"lenient_numbers" env:"PROFILE_LENIENT_NUMBERS" env-default:"false"`
}

// ValidationConfig holds dataset limits and warning thresholds
type ValidationConfig struct {
	MaxRows               int     `yaml:"max_rows" env:"VALIDATION_MAX_ROWS" env-default:"1000000"`
	MaxColumns            int     `yaml:"max_columns" env:"VALIDATION_MAX_COLUMNS" env-default:"500"`
	LargeDatasetThreshold int     `yaml:"large_dataset_threshold" env:"VALIDATION_LARGE_DATASET_THRESHOLD" env-default:"50000"`
	MaxSampleRows         int     `yaml:"max_sample_rows" env:"VALIDATION_MAX_SAMPLE_ROWS" env-default:"10000"`
	MinRows               int     `yaml:"min_rows" env:"VALIDATION_MIN_ROWS" env-default:"4"`
	MissingRatioThreshold float64 `yaml:"missing_ratio_threshold" env:"VALIDATION_MISSING_RATIO" env-default:"0.5"`
	OutlierRatioThreshold float64 `yaml:"outlier_ratio_threshold" env:"VALIDATION_OUTLIER_RATIO" env-default:"0.05"`
	CountDuplicates       bool    `yaml:"count_duplicates" env:"VALIDATION_COUNT_DUPLICATES" env-default:"true"`
}

// RecommenderConfig holds recommendation guards and caps
type RecommenderConfig struct {
	MaxRecommendations   int `yaml:"max_recommendations" env:"RECOMMENDER_MAX" env-default:"5"`
	SmallSampleThreshold int `yaml:"small_sample_threshold" env:"RECOMMENDER_SMALL_SAMPLE" env-default:"4"`
	MaxGroupLevels       int `yaml:"max_group_levels" env:"RECOMMENDER_MAX_GROUP_LEVELS" env-default:"10"`
	MinRows              int `yaml:"min_rows" env:"RECOMMENDER_MIN_ROWS" env-default:"4"`
}

// ResolverConfig holds the assumption resolver heuristics
type ResolverConfig struct {
	CLTThreshold int `yaml:"clt_threshold" env:"RESOLVER_CLT_THRESHOLD" env-default:"30"`
}

// EngineConfig selects the assumption test engine: "local" runs tests in-process,
// "http" posts them to BaseURL, "none" disables them.
type EngineConfig struct {
	Mode            string        `yaml:"mode" env:"ENGINE_MODE" env-default:"none"`
	BaseURL         string        `yaml:"base_url" env:"ENGINE_URL" env-default:""`
	Timeout         time.Duration `yaml:"timeout" env:"ENGINE_TIMEOUT" env-default:"30s"`
	Concurrency     int           `yaml:"concurrency" env:"ENGINE_CONCURRENCY" env-default:"4"`
	MinGroupSize    int           `yaml:"min_group_size" env:"ENGINE_MIN_GROUP_SIZE" env-default:"4"`
	NormalityMethod string        `yaml:"normality_method" env:"ENGINE_NORMALITY_METHOD" env-default:"jarque_bera"`
	VarianceMethod  string        `yaml:"variance_method" env:"ENGINE_VARIANCE_METHOD" env-default:"levene"`
}

// Load reads configuration from path (when it exists) with environment variable overrides.
// An empty path or a missing file falls back to environment variables and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to read %s", path))
			}
			return cfg.checked()
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "failed to read environment"))
	}
	return cfg.checked()
}

func (c *Config) checked() (*Config, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch {
	case c.Database.Driver != "postgres" && c.Database.Driver != "sqlite":
		return errors.ConfigInvalid("database.driver must be postgres or sqlite")
	case c.Validation.MaxRows <= 0 || c.Validation.MaxColumns <= 0:
		return errors.ConfigInvalid("validation limits must be positive")
	case c.Validation.MaxSampleRows <= 0:
		return errors.ConfigInvalid("validation.max_sample_rows must be positive")
	case c.Validation.LargeDatasetThreshold < c.Validation.MaxSampleRows:
		return errors.ConfigInvalid("validation.large_dataset_threshold must be at least max_sample_rows")
	case c.Recommender.MaxRecommendations <= 0:
		return errors.ConfigInvalid("recommender.max_recommendations must be positive")
	case c.Engine.Concurrency <= 0:
		return errors.ConfigInvalid("engine.concurrency must be positive")
	case c.Engine.Mode != engine.ModeNone && c.Engine.Mode != engine.ModeLocal && c.Engine.Mode != engine.ModeHTTP:
		return errors.ConfigInvalid("engine.mode must be none, local or http")
	case c.Engine.Mode == engine.ModeHTTP && c.Engine.BaseURL == "":
		return errors.ConfigInvalid("engine.base_url is required in http mode")
	}
	return nil
}

// ProfilingSettings converts the profiling section for the profiler
func (c *Config) ProfilingSettings() profiling.ProfilingConfig {
	return profiling.ProfilingConfig{
		TopCategories:        c.Profiling.TopCategories,
		MaxCategoricalLevels: c.Profiling.MaxCategoricalLevels,
		CategoricalRatio:     c.Profiling.CategoricalRatio,
		IDMinRows:            c.Profiling.IDMinRows,
		IDSampleSize:         c.Profiling.IDSampleSize,
		LenientNumbers:       c.Profiling.LenientNumbers,
	}
}

// ValidationSettings converts the validation and engine sections for the validator
func (c *Config) ValidationSettings() validation.Config {
	return validation.Config{
		MaxRows:               c.Validation.MaxRows,
		MaxColumns:            c.Validation.MaxColumns,
		LargeDatasetThreshold: c.Validation.LargeDatasetThreshold,
		MaxSampleRows:         c.Validation.MaxSampleRows,
		MinRows:               c.Validation.MinRows,
		MissingRatioThreshold: c.Validation.MissingRatioThreshold,
		OutlierRatioThreshold: c.Validation.OutlierRatioThreshold,
		CountDuplicates:       c.Validation.CountDuplicates,
		NormalityMethod:       c.Engine.NormalityMethod,
		VarianceMethod:        c.Engine.VarianceMethod,
		EngineConcurrency:     c.Engine.Concurrency,
		MinGroupSize:          c.Engine.MinGroupSize,
	}
}

// RecommenderSettings converts the recommender section
func (c *Config) RecommenderSettings() recommender.Config {
	return recommender.Config{
		MaxRecommendations:   c.Recommender.MaxRecommendations,
		SmallSampleThreshold: c.Recommender.SmallSampleThreshold,
		MaxGroupLevels:       c.Recommender.MaxGroupLevels,
		MinRows:              c.Recommender.MinRows,
	}
}

// ResolverSettings converts the resolver section
func (c *Config) ResolverSettings() resolver.Config {
	return resolver.Config{CLTThreshold: c.Resolver.CLTThreshold}
}

// EngineSettings converts the engine section for the HTTP engine client
func (c *Config) EngineSettings() engine.Config {
	return engine.Config{Mode: c.Engine.Mode, BaseURL: c.Engine.BaseURL, Timeout: c.Engine.Timeout}
}
