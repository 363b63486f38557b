package cmd

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration values for commands.
type Config struct {
	Port          string
	LogDir        string
	Routes        routesConfig
	ProxyProtocol bool
	CheckTimeout  time.Duration
}

type routesConfig struct {
	File          string
	RedisAddress  string
	RedisPassword string
	RedisKey      string
}

// GetConfigFromEnvironment creates Config object based on the shell environment.
func GetConfigFromEnvironment() *Config {
	return &Config{
		Port:   env("PORT", "8080"),
		LogDir: env("LOG_DIR", "logs"),
		Routes: routesConfig{
			File:          env("ROUTES_FILE", "routes.json"),
			RedisAddress:  env("ROUTES_REDIS_ADDR", ""),
			RedisPassword: env("REDIS_PASSWORD", ""),
			RedisKey:      env("ROUTES_REDIS_KEY", "waggle:routes"),
		},
		ProxyProtocol: envBool("PROXY_PROTOCOL", false),
		CheckTimeout:  envDuration("CHECK_TIMEOUT", 500*time.Millisecond),
	}
}

func env(key string, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return def
}

func envBool(key string, def bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		i, _ := strconv.ParseBool(value)
		return i
	}

	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return def
		}
		return d
	}

	return def
}
