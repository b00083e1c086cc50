package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shuhratov/loyihabot/internal/ingest"
)

// Duration unmarshals YAML strings like "5m" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config defines bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Sheet     SheetConfig     `yaml:"sheet"`
	DB        DBConfig        `yaml:"db"`
	Report    ReportConfig    `yaml:"report"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Log       LogConfig       `yaml:"log"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
	// AllowedUsers gate the bot; empty means open to everyone.
	AllowedUsers []int64 `yaml:"allowed_users"`
	Admins       []int64 `yaml:"admins"`
}

type SheetConfig struct {
	CredentialsFile string        `yaml:"credentials_file"`
	SpreadsheetID   string        `yaml:"spreadsheet_id"`
	ReadRange       string        `yaml:"read_range"`
	RefreshInterval Duration      `yaml:"refresh_interval"`
	Schema          ingest.Schema `yaml:"schema"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type ReportConfig struct {
	PageSize int `yaml:"page_size"`
	MaxText  int `yaml:"max_text"`
}

type BroadcastConfig struct {
	At         string  `yaml:"at"`
	Timezone   string  `yaml:"timezone"`
	Recipients []int64 `yaml:"recipients"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Sheet: SheetConfig{
			ReadRange:       "A2:AH",
			RefreshInterval: Duration(5 * time.Minute),
			Schema:          ingest.DefaultSchema(),
		},
		DB: DBConfig{
			Path: "loyiha.db",
		},
		Report: ReportConfig{
			PageSize: 5,
			MaxText:  3800,
		},
		Broadcast: BroadcastConfig{
			At:       "17:00",
			Timezone: "Asia/Tashkent",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("LOYIHA_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if token := os.Getenv("LOYIHA_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if users := os.Getenv("LOYIHA_ALLOWED_USERS"); users != "" {
		ids, err := parseIDList(users)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOYIHA_ALLOWED_USERS: %w", err)
		}
		cfg.Telegram.AllowedUsers = ids
	}
	if admins := os.Getenv("LOYIHA_ADMINS"); admins != "" {
		ids, err := parseIDList(admins)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOYIHA_ADMINS: %w", err)
		}
		cfg.Telegram.Admins = ids
	}
	if creds := os.Getenv("LOYIHA_SHEET_CREDENTIALS"); creds != "" {
		cfg.Sheet.CredentialsFile = creds
	}
	if id := os.Getenv("LOYIHA_SPREADSHEET_ID"); id != "" {
		cfg.Sheet.SpreadsheetID = id
	}
	if rng := os.Getenv("LOYIHA_SHEET_RANGE"); rng != "" {
		cfg.Sheet.ReadRange = rng
	}
	if interval := os.Getenv("LOYIHA_REFRESH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOYIHA_REFRESH_INTERVAL: %w", err)
		}
		cfg.Sheet.RefreshInterval = Duration(d)
	}
	if dbPath := os.Getenv("LOYIHA_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if at := os.Getenv("LOYIHA_BROADCAST_AT"); at != "" {
		cfg.Broadcast.At = at
	}
	if recips := os.Getenv("LOYIHA_BROADCAST_RECIPIENTS"); recips != "" {
		ids, err := parseIDList(recips)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOYIHA_BROADCAST_RECIPIENTS: %w", err)
		}
		cfg.Broadcast.Recipients = ids
	}
	if level := os.Getenv("LOYIHA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Telegram.Token == "" {
		return Config{}, fmt.Errorf("telegram token is required (LOYIHA_BOT_TOKEN)")
	}
	if cfg.Sheet.SpreadsheetID == "" {
		return Config{}, fmt.Errorf("spreadsheet id is required (LOYIHA_SPREADSHEET_ID)")
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
