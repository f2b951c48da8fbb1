package store

import (
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	defaultPath             = "~/.cycle"
	defaultRemoteTimeout    = 10 * time.Second
	defaultPredictionMonths = 3
	defaultLogLevel         = "info"
)

// Config is where the period store lives and how to reach it.
type Config interface {
	// BasePath is the directory of the local store.
	BasePath() string
	// RemoteURL selects the HTTP store when set.
	RemoteURL() string
	RemoteAPIKey() string
	RemoteTimeout() time.Duration
	// PredictionMonths is how far ahead predictions are requested.
	PredictionMonths() int
	LogLevel() string
}

func LoadConfig() (Config, error) {
	viper.SetDefault("path", defaultPath)
	viper.SetDefault("remote.timeout", defaultRemoteTimeout)
	viper.SetDefault("predictions.months", defaultPredictionMonths)
	viper.SetDefault("log.level", defaultLogLevel)
	viper.SetConfigName(".cycle") // .yaml is implicit
	viper.SetEnvPrefix("CYCLE")
	viper.AutomaticEnv()

	if override := os.Getenv("CYCLE_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config file: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &FileConfig{
		Path:        path,
		URL:         viper.GetString("remote.url"),
		APIKey:      viper.GetString("remote.apikey"),
		Timeout:     viper.GetDuration("remote.timeout"),
		Predictions: viper.GetInt("predictions.months"),
		Level:       viper.GetString("log.level"),
	}, nil
}

// FileConfig is the Config read by LoadConfig. Zero fields fall back to the
// defaults, so it can also be built in code.
type FileConfig struct {
	Path        string        `json:"path"`
	URL         string        `json:"remoteURL,omitempty"`
	APIKey      string        `json:"-"`
	Timeout     time.Duration `json:"remoteTimeout"`
	Predictions int           `json:"predictionMonths"`
	Level       string        `json:"logLevel"`
}

func (f *FileConfig) BasePath() string {
	return f.Path
}

func (f *FileConfig) RemoteURL() string {
	return f.URL
}

func (f *FileConfig) RemoteAPIKey() string {
	return f.APIKey
}

func (f *FileConfig) RemoteTimeout() time.Duration {
	if f.Timeout <= 0 {
		return defaultRemoteTimeout
	}
	return f.Timeout
}

func (f *FileConfig) PredictionMonths() int {
	if f.Predictions <= 0 {
		return defaultPredictionMonths
	}
	return f.Predictions
}

func (f *FileConfig) LogLevel() string {
	if f.Level == "" {
		return defaultLogLevel
	}
	return f.Level
}
