package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	portEnvVar      = "PORT"
	appNameVar      = "APP_NAME"
	folderEnvVar    = "DATA_FOLDER"
	redisAddrVar    = "REDIS_ADDR"
	sessionTTLVar   = "SESSION_TTL_HOURS"
	defaultTTLHours = 168 // 7 days
)

type EnvVars struct{}

var _ Config = mainConfig{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Session Core")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetRedisAddr returns the Redis address for the fallback session channel.
// Empty means no Redis; the file-backed store is used instead.
func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func (EnvVars) GetSessionTTL() time.Duration {
	hours, err := strconv.Atoi(GetEnv(sessionTTLVar, ""))
	if err != nil || hours <= 0 {
		hours = defaultTTLHours
	}
	return time.Duration(hours) * time.Hour
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
