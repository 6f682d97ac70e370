package config

import "time"

type Config interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetRedisAddr() string
	GetSessionTTL() time.Duration
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
