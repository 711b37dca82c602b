package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".relift"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for relift settings.
const envPrefix = "RELIFT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Load loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("workers", DefaultWorkers)
	viperCfg.SetDefault("force", false)
	viperCfg.SetDefault("dry_run", false)
	viperCfg.SetDefault("skip_tests", false)
	viperCfg.SetDefault("verbose", false)

	viperCfg.SetDefault("analyzer.confidence_threshold", DefaultConfidenceThreshold)
	viperCfg.SetDefault("analyzer.review_complexity", DefaultReviewComplexity)

	viperCfg.SetDefault("scoring.error_penalty", DefaultErrorPenalty)
	viperCfg.SetDefault("scoring.warning_penalty", DefaultWarningPenalty)
	viperCfg.SetDefault("scoring.preservation_penalty", DefaultPreservationPenalty)
	viperCfg.SetDefault("scoring.review_penalty", DefaultReviewPenalty)
	viperCfg.SetDefault("scoring.drift_floor", DefaultDriftFloor)
}
