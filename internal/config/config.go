package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env-default:"info"`
	HTTPPort   string     `yaml:"http-port" env-default:"9090"`
	SocketPort string     `yaml:"socket-port" env-default:"9091"`
	Redis      Redis      `yaml:"redis"`
	Scoring    Scoring    `yaml:"scoring"`
	Matchmaker Matchmaker `yaml:"matchmaker"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// Scoring holds the point deltas applied by the stats bridge on
// terminal game outcomes.
type Scoring struct {
	WinPoints     int    `yaml:"win-points" env-default:"15"`
	DrawPoints    int    `yaml:"draw-points" env-default:"7"`
	LeaderboardID string `yaml:"leaderboard-id" env-default:"global"`
}

type Matchmaker struct {
	// RetryInterval is how long FindOrCreate waits before its single
	// retry of the open-session search.
	RetryInterval time.Duration `yaml:"retry-interval" env-default:"150ms"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
