// Package config loads runner settings from a YAML file and QUEUED_TASKS_* environment
// variables, and builds the logrus logger the runners write through.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Swind/go-queued-tasks/core"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultName             = "queued-task-runner"
	defaultHistoryCapacity  = 100
	defaultLogLevel         = "info"
	defaultLogFormat        = "text"
	defaultMetricsNamespace = "queued_tasks"
	defaultPollInterval     = time.Second

	envName             = "QUEUED_TASKS_NAME"
	envPriority         = "QUEUED_TASKS_PRIORITY"
	envHistoryCapacity  = "QUEUED_TASKS_HISTORY_CAPACITY"
	envLogLevel         = "QUEUED_TASKS_LOG_LEVEL"
	envLogFormat        = "QUEUED_TASKS_LOG_FORMAT"
	envMetricsNamespace = "QUEUED_TASKS_METRICS_NAMESPACE"
	envPollInterval     = "QUEUED_TASKS_POLL_INTERVAL"
	envProtected        = "QUEUED_TASKS_PROTECTED"
)

// Config holds runner configuration.
type Config struct {
	Name            string `yaml:"name"`
	Priority        int    `yaml:"priority"`
	HistoryCapacity int    `yaml:"history_capacity"`
	Protected       bool   `yaml:"protected"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Namespace    string        `yaml:"namespace"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Name:            defaultName,
		Priority:        int(core.TaskPriorityUserVisible),
		HistoryCapacity: defaultHistoryCapacity,
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Metrics: MetricsConfig{
			Namespace:    defaultMetricsNamespace,
			PollInterval: defaultPollInterval,
		},
	}
}

// Load reads path on top of Default, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadYAML decodes the YAML file at path into target.
func LoadYAML(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from QUEUED_TASKS_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envName); ok && v != "" {
		c.Name = v
	}
	if v, ok := lookup(envPriority); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPriority, err)
		}
		c.Priority = n
	}
	if v, ok := lookup(envHistoryCapacity); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envHistoryCapacity, err)
		}
		c.HistoryCapacity = n
	}
	if v, ok := lookup(envProtected); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envProtected, err)
		}
		c.Protected = b
	}
	if v, ok := lookup(envLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(envLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	if v, ok := lookup(envMetricsNamespace); ok && v != "" {
		c.Metrics.Namespace = v
	}
	if v, ok := lookup(envPollInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPollInterval, err)
		}
		c.Metrics.PollInterval = d
	}
	return nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p := core.TaskPriority(c.Priority); p != p.Clamp() {
		errs = append(errs, fmt.Errorf("priority %d out of range [%d, %d]",
			c.Priority, core.TaskPriorityBestEffort, core.TaskPriorityUserBlocking))
	}
	if c.HistoryCapacity < 0 {
		errs = append(errs, fmt.Errorf("history_capacity %d must not be negative", c.HistoryCapacity))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if c.Metrics.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("metrics.poll_interval %s must not be negative", c.Metrics.PollInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// NewLogger creates a logrus logger writing to w. Unknown levels fall back to info.
func NewLogger(w io.Writer, level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// RunnerConfig builds the core runner configuration, logging to w.
// Handlers not covered by Config keep their core defaults.
func (c Config) RunnerConfig(w io.Writer) *core.QueuedTaskRunnerConfig {
	logger := core.NewLogrusLogger(NewLogger(w, c.Log.Level, c.Log.Format).WithField("runner", c.Name))
	return &core.QueuedTaskRunnerConfig{
		Name:            c.Name,
		Priority:        core.TaskPriority(c.Priority),
		HistoryCapacity: c.HistoryCapacity,
		Logger:          logger,
	}
}
