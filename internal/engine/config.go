package engine

import (
	"time"

	"github.com/caarlos0/env/v11"

	"aether-server/pkg/dungeon"
)

// Config - параметры забега и сервера. Поля читаются из окружения
// поверх дефолтов; флаги командной строки накладываются последними.
type Config struct {
	// Seed - мастер-зерно забега. Все потоки случайности выводятся из
	// него форками, поэтому одного числа достаточно, чтобы воспроизвести
	// забег целиком.
	Seed int64 `env:"AETHER_SEED"`

	// Algorithm - генератор этажей: rooms или caves.
	Algorithm string `env:"AETHER_GEN" envDefault:"rooms"`

	// HeroName - имя героя в журнале.
	HeroName string `env:"AETHER_HERO" envDefault:"Герой"`

	// SavePath - файл bbolt-хранилища сохранений.
	SavePath string `env:"AETHER_SAVE" envDefault:"aether.db"`

	// RedisAddr - адрес Redis для сохранений; пустой - локальный bbolt.
	RedisAddr string `env:"AETHER_REDIS"`

	Port string `env:"AETHER_PORT" envDefault:"8080"`

	// Cheats открывает административные ручки под /debug.
	Cheats bool `env:"AETHER_CHEATS"`

	// ShardID уходит в старший байт всех EntityID этого процесса.
	ShardID uint8 `env:"AETHER_SHARD"`
}

// NewConfig возвращает конфиг по умолчанию со случайным зерном.
func NewConfig() Config {
	return Config{
		Seed:      time.Now().UnixNano(),
		Algorithm: string(dungeon.AlgorithmRooms),
		HeroName:  "Герой",
		SavePath:  "aether.db",
		Port:      "8080",
	}
}

// FromEnv накладывает переменные окружения на дефолтный конфиг.
func FromEnv() (Config, error) {
	cfg := NewConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, nil
}
