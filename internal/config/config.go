// Package config настройки сервера. Значения берутся из умолчаний, затем из
// YAML файла, затем из .env и переменных окружения KITCHEN_*.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "KITCHEN_"

var ErrInvalid = errors.New("invalid config")

type HTTP struct {
	Addr string `yaml:"addr"`
}

type GRPC struct {
	Addr string `yaml:"addr"`
}

type NATS struct {
	URL string `yaml:"url"`
}

type Game struct {
	MatchDuration  time.Duration `yaml:"match_duration"`
	TickHz         int           `yaml:"tick_hz"`
	BroadcastHz    int           `yaml:"broadcast_hz"`
	MaxPlayers     int           `yaml:"max_players"`
	ReconnectGrace time.Duration `yaml:"reconnect_grace"`
	EndGrace       time.Duration `yaml:"end_grace"`
	TimerChunk     time.Duration `yaml:"timer_chunk"`
}

type Orders struct {
	MinInterval  time.Duration `yaml:"min_interval"`
	MaxInterval  time.Duration `yaml:"max_interval"`
	MaxActive    int           `yaml:"max_active"`
	Deadline     time.Duration `yaml:"deadline"`
	DefaultScore int           `yaml:"default_score"`
}

type Stations struct {
	FlashDuration time.Duration `yaml:"flash_duration"`
}

type Layout struct {
	Path string `yaml:"path"`
}

type Log struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

// Config полная конфигурация сервера
type Config struct {
	HTTP     HTTP     `yaml:"http"`
	GRPC     GRPC     `yaml:"grpc"`
	NATS     NATS     `yaml:"nats"`
	Game     Game     `yaml:"game"`
	Orders   Orders   `yaml:"orders"`
	Stations Stations `yaml:"stations"`
	Layout   Layout   `yaml:"layout"`
	Log      Log      `yaml:"log"`
}

// Default встроенные настройки
func Default() Config {
	return Config{
		HTTP: HTTP{Addr: ":8080"},
		GRPC: GRPC{Addr: ":50051"},
		Game: Game{
			MatchDuration:  180 * time.Second,
			TickHz:         20,
			BroadcastHz:    10,
			MaxPlayers:     4,
			ReconnectGrace: 10 * time.Second,
			EndGrace:       2 * time.Second,
			TimerChunk:     time.Second,
		},
		Orders: Orders{
			MinInterval:  6 * time.Second,
			MaxInterval:  12 * time.Second,
			MaxActive:    4,
			Deadline:     60 * time.Second,
			DefaultScore: 100,
		},
		Stations: Stations{FlashDuration: 300 * time.Millisecond},
		Log:      Log{Level: "info"},
	}
}

// Load собирает конфигурацию. Пустой path пропускает YAML; отсутствующие
// env файлы игнорируются.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// godotenv не перезаписывает уже заданные переменные
		if err := godotenv.Load(f); err != nil {
			return cfg, fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}
	num := func(dst *int) func(string) error {
		return func(v string) error {
			n, err := strconv.Atoi(v)
			if err == nil {
				*dst = n
			}
			return err
		}
	}
	dur := func(dst *time.Duration) func(string) error {
		return func(v string) error {
			d, err := time.ParseDuration(v)
			if err == nil {
				*dst = d
			}
			return err
		}
	}
	boolean := func(dst *bool) func(string) error {
		return func(v string) error {
			b, err := strconv.ParseBool(v)
			if err == nil {
				*dst = b
			}
			return err
		}
	}

	overrides := []struct {
		key   string
		apply func(string) error
	}{
		{"HTTP_ADDR", str(&c.HTTP.Addr)},
		{"GRPC_ADDR", str(&c.GRPC.Addr)},
		{"NATS_URL", str(&c.NATS.URL)},
		{"MATCH_DURATION", dur(&c.Game.MatchDuration)},
		{"TICK_HZ", num(&c.Game.TickHz)},
		{"BROADCAST_HZ", num(&c.Game.BroadcastHz)},
		{"MAX_PLAYERS", num(&c.Game.MaxPlayers)},
		{"RECONNECT_GRACE", dur(&c.Game.ReconnectGrace)},
		{"END_GRACE", dur(&c.Game.EndGrace)},
		{"TIMER_CHUNK", dur(&c.Game.TimerChunk)},
		{"ORDER_MIN_INTERVAL", dur(&c.Orders.MinInterval)},
		{"ORDER_MAX_INTERVAL", dur(&c.Orders.MaxInterval)},
		{"ORDER_MAX_ACTIVE", num(&c.Orders.MaxActive)},
		{"ORDER_DEADLINE", dur(&c.Orders.Deadline)},
		{"ORDER_DEFAULT_SCORE", num(&c.Orders.DefaultScore)},
		{"FLASH_DURATION", dur(&c.Stations.FlashDuration)},
		{"LAYOUT_PATH", str(&c.Layout.Path)},
		{"LOG_LEVEL", str(&c.Log.Level)},
		{"LOG_DEV", boolean(&c.Log.Dev)},
	}
	for _, o := range overrides {
		v, ok := lookup(EnvPrefix + o.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := o.apply(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, o.key, err)
		}
	}
	return nil
}

// Validate отклоняет настройки, с которыми сервер не запустится
func (c Config) Validate() error {
	positive := map[string]time.Duration{
		"game.match_duration":     c.Game.MatchDuration,
		"game.reconnect_grace":    c.Game.ReconnectGrace,
		"game.end_grace":          c.Game.EndGrace,
		"game.timer_chunk":        c.Game.TimerChunk,
		"orders.min_interval":     c.Orders.MinInterval,
		"orders.max_interval":     c.Orders.MaxInterval,
		"orders.deadline":         c.Orders.Deadline,
		"stations.flash_duration": c.Stations.FlashDuration,
	}
	for name, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalid, name)
		}
	}
	switch {
	case c.Orders.MinInterval > c.Orders.MaxInterval:
		return fmt.Errorf("%w: orders.min_interval exceeds orders.max_interval", ErrInvalid)
	case c.Game.TickHz <= 0 || c.Game.BroadcastHz <= 0:
		return fmt.Errorf("%w: tick and broadcast rates must be positive", ErrInvalid)
	case c.Game.TickHz%c.Game.BroadcastHz != 0:
		return fmt.Errorf("%w: game.tick_hz must be a multiple of game.broadcast_hz", ErrInvalid)
	case c.Game.MaxPlayers <= 0:
		return fmt.Errorf("%w: game.max_players must be positive", ErrInvalid)
	case c.Orders.MaxActive <= 0:
		return fmt.Errorf("%w: orders.max_active must be positive", ErrInvalid)
	case c.HTTP.Addr == "":
		return fmt.Errorf("%w: http.addr is empty", ErrInvalid)
	}
	return nil
}

// TickInterval длина шага симуляции
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Game.TickHz)
}

// BroadcastEvery число тиков между снимками состояния
func (c Config) BroadcastEvery() int {
	return c.Game.TickHz / c.Game.BroadcastHz
}

// YAML выводит действующую конфигурацию
func (c Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
