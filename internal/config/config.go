package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
	"github.com/spf13/pflag"
)

type Arguments struct {
	APIBaseURL  string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	StatePath   string `env:"STATE_PATH" envDefault:"cryptomine.db"`
	HTTPTimeout string `env:"HTTP_TIMEOUT" envDefault:"10s"`
}

// ClientConfig модель настроек клиента удалённого API
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AppConfig модель общих настроек приложения
type AppConfig struct {
	LogLevel  string
	StatePath string
}

// Config модель настроек сервиса
type Config struct {
	App    AppConfig
	Client ClientConfig
}

func NewConfig() Config {

	var args Arguments
	if err := env.Parse(&args); err != nil {
		panic(fmt.Sprintf("Failed to parse enviroment var: %s", err.Error()))
	}

	var (
		baseURL   = pflag.StringP("api", "a", args.APIBaseURL, "Base URL of the mining API.")
		logLevel  = pflag.StringP("log_level", "l", args.LogLevel, "Log level.")
		statePath = pflag.StringP("state", "s", args.StatePath, "Path to the local state database.")
		timeout   = pflag.StringP("timeout", "t", args.HTTPTimeout, "HTTP request timeout.")
	)
	pflag.Parse()

	httpTimeout, err := time.ParseDuration(*timeout)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse HTTP timeout: %s", err.Error()))
	}

	return Config{
		App: AppConfig{
			LogLevel:  *logLevel,
			StatePath: *statePath,
		},
		Client: ClientConfig{
			BaseURL: *baseURL,
			Timeout: httpTimeout,
		},
	}
}

func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			LogLevel:  "info",
			StatePath: "cryptomine.db",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
	}
}
