// SPDX-License-Identifier: EPL-2.0

// Package config loads the command line settings from the environment, an
// optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Worker modes.
const (
	WorkerProcess   = "process"
	WorkerInProcess = "inprocess"
)

// Config stores the application configuration.
type Config struct {
	// FFmpeg and FFprobe are binary names or paths. Empty means search PATH
	// for ffmpeg/avconv and ffprobe/avprobe.
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`

	MP3Bitrate int `yaml:"mp3_bitrate"`
	// VideoSampleRate resamples extracted video audio. Zero keeps the
	// stream's own rate.
	VideoSampleRate int `yaml:"video_sample_rate"`

	// Worker is "process" to encode in a child process or "inprocess".
	Worker string `yaml:"worker"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// FromEnv reads AUDCONV_* variables over the defaults.
func FromEnv() *Config {
	return &Config{
		FFmpeg:          getEnv("AUDCONV_FFMPEG", ""),
		FFprobe:         getEnv("AUDCONV_FFPROBE", ""),
		MP3Bitrate:      getEnvInt("AUDCONV_MP3_BITRATE", 128),
		VideoSampleRate: getEnvInt("AUDCONV_VIDEO_SAMPLE_RATE", 0),
		Worker:          getEnv("AUDCONV_WORKER", WorkerProcess),
		LogLevel:        getEnv("AUDCONV_LOG_LEVEL", "info"),
		LogFile:         getEnv("AUDCONV_LOG_FILE", ""),
	}
}

// Load reads .env from the working directory if present (it never overrides
// variables already set), builds the config from the environment and then
// applies the YAML file at path, when path is not empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %w", ErrInvalidConfig, err)
	}

	cfg := FromEnv()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.MP3Bitrate <= 0 || c.MP3Bitrate > 320 {
		return fmt.Errorf("%w: mp3 bitrate %d kbps", ErrInvalidConfig, c.MP3Bitrate)
	}

	if c.VideoSampleRate < 0 {
		return fmt.Errorf("%w: video sample rate %d", ErrInvalidConfig, c.VideoSampleRate)
	}

	c.Worker = strings.ToLower(strings.TrimSpace(c.Worker))
	if c.Worker != WorkerProcess && c.Worker != WorkerInProcess {
		return fmt.Errorf("%w: worker %q", ErrInvalidConfig, c.Worker)
	}

	return nil
}
