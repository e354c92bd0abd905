package config

import (
	"fmt"

	"go-logo-downloader/internal/models"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// LoadConfig reads the configuration from the specified path (defaulting to
// "config.toml") and returns the populated models.Config with defaults
// applied for anything the file leaves unset.
func LoadConfig(configFilePath string) (models.Config, error) {
	if configFilePath == "" {
		configFilePath = "config.toml"
	}
	cfg := defaults()
	_, err := toml.DecodeFile(configFilePath, &cfg)
	if err != nil {
		return models.Config{}, fmt.Errorf("error loading config file %s: %w", configFilePath, err)
	}

	if cfg.OutputDir == "" {
		log.Warn("Warning: OutputDir is not set in config.toml")
	}
	if cfg.DatabasePath == "" {
		log.Warn("Warning: DatabasePath is not set in config.toml")
	}
	applyDefaults(&cfg)

	log.Infof("Configuration loaded from %s", configFilePath)
	return cfg, nil
}

// defaults returns a Config pre-populated so TOML decoding only overrides
// what the file actually sets. Boolean defaults that are true must be set
// here, since a missing key leaves the zero value untouched.
func defaults() models.Config {
	return models.Config{
		MaxResults:         10,
		SearchAllSources:   true,
		DownloadPNG:        true,
		DownloadSVG:        true,
		TimeoutSec:         15,
		ConcurrentSearches: 3,
		CacheExpiryDays:    30,
		UserAgentRotation:  true,
	}
}

func applyDefaults(cfg *models.Config) {
	if cfg.MaxResults <= 0 {
		log.Debugf("MaxResults not set or invalid, defaulting to 10")
		cfg.MaxResults = 10
	}
	if cfg.TimeoutSec <= 0 {
		log.Debugf("TimeoutSec not set or invalid, defaulting to 15s")
		cfg.TimeoutSec = 15
	}
	if cfg.ConcurrentSearches <= 0 {
		log.Debugf("ConcurrentSearches not set or invalid, defaulting to 3")
		cfg.ConcurrentSearches = 3
	}
	if cfg.CacheExpiryDays <= 0 {
		log.Debugf("CacheExpiryDays not set or invalid, defaulting to 30")
		cfg.CacheExpiryDays = 30
	}
}
