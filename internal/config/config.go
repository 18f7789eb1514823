package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const configPathEnv = "CONFIG_PATH"

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Game     Game   `yaml:"game"`
	Redis    Redis  `yaml:"redis"`
}

type Game struct {
	CountdownFrom int           `yaml:"countdown-from" env:"GAME_COUNTDOWN_FROM" env-default:"3"`
	TickInterval  time.Duration `yaml:"tick-interval" env:"GAME_TICK_INTERVAL" env-default:"1s"`
	ResetDelay    time.Duration `yaml:"reset-delay" env:"GAME_RESET_DELAY" env-default:"5s"`
	ChatPolicy    string        `yaml:"chat-policy" env:"GAME_CHAT_POLICY" env-default:"session"`
	MaxSessions   int           `yaml:"max-sessions" env:"GAME_MAX_SESSIONS" env-default:"0"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - loads the config file named by CONFIG_PATH, if any, then the environment.
func MustLoad() *Config {
	config, err := Load(os.Getenv(configPathEnv))
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

// Load reads path when it is not empty, otherwise only the environment, and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Game.ChatPolicy {
	case "session", "started":
	default:
		return fmt.Errorf("%w: unknown chat policy %q", apperror.ErrInvalidConfig, that.Game.ChatPolicy)
	}

	if that.Game.CountdownFrom <= 0 {
		return fmt.Errorf("%w: countdown-from must be positive", apperror.ErrInvalidConfig)
	}

	if that.Game.TickInterval <= 0 || that.Game.ResetDelay <= 0 {
		return fmt.Errorf("%w: tick-interval and reset-delay must be positive", apperror.ErrInvalidConfig)
	}

	if that.Game.MaxSessions < 0 {
		return fmt.Errorf("%w: max-sessions must not be negative", apperror.ErrInvalidConfig)
	}

	if that.Port == "" {
		return fmt.Errorf("%w: port is empty", apperror.ErrInvalidConfig)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
