package stream

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the daemon configuration file.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	FrameRate float64 `yaml:"frameRate"`
	Bundle    string  `yaml:"bundle"`
	Listen    string  `yaml:"listen"`
	LogLevel  string  `yaml:"logLevel"`
}

// ReadConfig reads a YAML config file and fills in defaults.
func ReadConfig(path string) (Config, error) {
	var c Config
	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return c, err
	}
	c.setDefaults()
	return c, nil
}

func (c *Config) setDefaults() {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "motiontx"
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = "motiontx/frames"
	}
	if c.Mqtt.Topics.Control == "" {
		c.Mqtt.Topics.Control = "motiontx/control"
	}
	if c.FrameRate <= 0 {
		c.FrameRate = 30
	}
}

// FrameInterval returns the time between frames.
func (c Config) FrameInterval() time.Duration {
	rate := c.FrameRate
	if rate <= 0 {
		rate = 30
	}
	return time.Duration(float64(time.Second) / rate)
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
