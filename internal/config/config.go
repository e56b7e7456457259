package config

import (
	"fmt"
	"strings"
	"time"

	"richman_server/internal/game"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort       string
	DatabaseURL   string // пусто -> архив и каталог игроков в памяти
	AllowedOrigin string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DirectoryTTL  time.Duration

	LogLevel string
	LogJSON  bool

	IdleTimeout     time.Duration
	CleanupInterval time.Duration
	EventBuffer     int
	InboxSize       int

	// Game defaults
	MaxPlayers    int
	StartingMoney int
	Salary        int
	JailFine      int
	TurnTimeLimit time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ALLOWED_ORIGIN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DIRECTORY_CACHE_TTL", 10*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("GAME_IDLE_TIMEOUT", time.Hour)
	v.SetDefault("GAME_CLEANUP_INTERVAL", 10*time.Minute)
	v.SetDefault("EVENT_BUFFER", 1024)
	v.SetDefault("GAME_INBOX_SIZE", 64)

	d := game.DefaultSettings()
	v.SetDefault("GAME_MAX_PLAYERS", d.MaxPlayers)
	v.SetDefault("GAME_STARTING_MONEY", d.StartingMoney)
	v.SetDefault("GAME_SALARY", d.Salary)
	v.SetDefault("GAME_JAIL_FINE", d.JailFine)
	v.SetDefault("GAME_TURN_TIME_LIMIT", d.TurnTimeLimit)
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		AllowedOrigin:   v.GetString("ALLOWED_ORIGIN"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		DirectoryTTL:    v.GetDuration("DIRECTORY_CACHE_TTL"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		LogJSON:         v.GetBool("LOG_JSON"),
		IdleTimeout:     v.GetDuration("GAME_IDLE_TIMEOUT"),
		CleanupInterval: v.GetDuration("GAME_CLEANUP_INTERVAL"),
		EventBuffer:     v.GetInt("EVENT_BUFFER"),
		InboxSize:       v.GetInt("GAME_INBOX_SIZE"),
		MaxPlayers:      v.GetInt("GAME_MAX_PLAYERS"),
		StartingMoney:   v.GetInt("GAME_STARTING_MONEY"),
		Salary:          v.GetInt("GAME_SALARY"),
		JailFine:        v.GetInt("GAME_JAIL_FINE"),
		TurnTimeLimit:   v.GetDuration("GAME_TURN_TIME_LIMIT"),
	}

	if cfg.AppPort == "" {
		return nil, fmt.Errorf("APP_PORT is empty")
	}
	if cfg.MaxPlayers < game.MinPlayers || cfg.MaxPlayers > game.MaxPlayersHard {
		return nil, fmt.Errorf("GAME_MAX_PLAYERS must be within %d..%d, got %d", game.MinPlayers, game.MaxPlayersHard, cfg.MaxPlayers)
	}
	if cfg.StartingMoney <= 0 {
		return nil, fmt.Errorf("GAME_STARTING_MONEY must be positive, got %d", cfg.StartingMoney)
	}
	if cfg.EventBuffer <= 0 || cfg.InboxSize <= 0 {
		return nil, fmt.Errorf("EVENT_BUFFER and GAME_INBOX_SIZE must be positive")
	}
	return cfg, nil
}

// GameSettings - дефолтные настройки новых партий
func (c *Config) GameSettings() game.Settings {
	s := game.DefaultSettings()
	s.MaxPlayers = c.MaxPlayers
	s.StartingMoney = c.StartingMoney
	s.Salary = c.Salary
	s.JailFine = c.JailFine
	s.TurnTimeLimit = c.TurnTimeLimit
	return s
}
