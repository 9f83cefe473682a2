package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	minTimeout       = 100
	minJournalBuffer = 1
)

type JudgeConfig struct {
	BaseURL      string `json:"base_url"`
	JudgePath    string `json:"judge_path"`
	RegisterPath string `json:"register_path"`

	// Timeout is in milliseconds.
	Timeout int `json:"timeout"`
}

func (c *JudgeConfig) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.JudgePath, validation.Required),
		validation.Field(&c.RegisterPath, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(minTimeout)),
	)
}

type UIConfig struct {
	ReadyLabel   string `json:"ready_label"`
	BusyLabel    string `json:"busy_label"`
	PendingLabel string `json:"pending_label"`
}

func (c *UIConfig) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.ReadyLabel, validation.Required),
		validation.Field(&c.BusyLabel, validation.Required),
		validation.Field(&c.PendingLabel, validation.Required),
	)
}

const (
	DriverSQLite = "sqlite3"
	DriverOracle = "godror"
)

type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Driver  string `json:"driver"`
	DSN     string `json:"dsn"`
	Buffer  int    `json:"buffer"`
}

func (c *JournalConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(
		c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverOracle)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.Buffer, validation.Min(minJournalBuffer)),
	)
}

type NotifyConfig struct {
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	Channel       string `json:"channel"`
}

func (c *NotifyConfig) Enabled() bool {
	return c.RedisAddr != ""
}

func (c *NotifyConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	return validation.ValidateStruct(
		c,
		validation.Field(&c.RedisAddr, validation.Required, is.DialString),
		validation.Field(&c.RedisDB, validation.Min(0)),
		validation.Field(&c.Channel, validation.Required),
	)
}

type ClientConfig struct {
	LoggerConfig zap.Config `json:"logger"`

	Judge   JudgeConfig   `json:"judge"`
	UI      UIConfig      `json:"ui"`
	Journal JournalConfig `json:"journal"`
	Notify  NotifyConfig  `json:"notify"`
}

// Default returns a configuration that talks to a judging service on the
// local machine.
func Default() ClientConfig {
	return ClientConfig{
		LoggerConfig: zap.NewProductionConfig(),
		Judge: JudgeConfig{
			BaseURL:      "http://127.0.0.1:8000",
			JudgePath:    "/api/judge",
			RegisterPath: "/api/submit",
			Timeout:      30000,
		},
		UI: UIConfig{
			ReadyLabel:   "Submit code and run tests",
			BusyLabel:    "Running...",
			PendingLabel: "Judging...",
		},
		Journal: JournalConfig{
			Enabled: true,
			Driver:  DriverSQLite,
			DSN:     "judge-submit.db",
			Buffer:  16,
		},
		Notify: NotifyConfig{
			Channel: "verdicts:submissions",
		},
	}
}

func (c *ClientConfig) Validate() error {
	if err := c.Judge.Validate(); err != nil {
		return fmt.Errorf("judge: %w", err)
	}
	if err := c.UI.Validate(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if err := c.Journal.Validate(); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if err := c.Notify.Validate(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// LoadFromFile reads path over the defaults, applies the environment overlay
// and validates the result. A missing file leaves the defaults in place.
func (c *ClientConfig) LoadFromFile(path string) error {
	*c = Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return err
	default:
		switch ext := filepath.Ext(path); ext {
		case ".json":
			if err := c.loadFromJSON(data); err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
		default:
			return fmt.Errorf("unknown configuration file extension: %s", ext)
		}
	}

	c.applyEnv()
	return c.Validate()
}

func (c *ClientConfig) loadFromJSON(data []byte) error {
	return json.Unmarshal(data, c)
}

const DefaultConfigFile = "config.json"

func (c *ClientConfig) LoadDefault() error {
	return c.LoadFromFile(DefaultConfigFile)
}

func (c *ClientConfig) applyEnv() {
	_ = godotenv.Load()

	c.Judge.BaseURL = getEnv("JUDGE_BASE_URL", c.Judge.BaseURL)
	c.Judge.Timeout = getEnvAsInt("JUDGE_TIMEOUT_MS", c.Judge.Timeout)
	c.Journal.Driver = getEnv("JOURNAL_DRIVER", c.Journal.Driver)
	c.Journal.DSN = getEnv("JOURNAL_DSN", c.Journal.DSN)
	c.Notify.RedisAddr = getEnv("REDIS_ADDR", c.Notify.RedisAddr)
	c.Notify.RedisPassword = getEnv("REDIS_PASSWORD", c.Notify.RedisPassword)
	c.Notify.RedisDB = getEnvAsInt("REDIS_DB", c.Notify.RedisDB)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
