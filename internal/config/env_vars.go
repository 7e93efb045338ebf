package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	portEnvVar     = "PORT"
	mockPortEnvVar = "MOCK_BACKEND_PORT"
	appNameVar     = "APP_NAME"
	logFileEnvVar  = "LOG_FILE"
)

// values resolves a setting from the environment first and the config file second.
type values map[string]string

func (v values) get(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	if value, ok := v[name]; ok && value != "" {
		return value
	}
	return defaultValue
}

func (v values) getInt(name string, defaultValue int) int {
	raw := v.get(name, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func (v values) getBool(name string, defaultValue bool) bool {
	raw := v.get(name, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}

type EnvVars struct {
	v values
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	return listenAddr(e.v.get(portEnvVar, "8080"))
}

func (e EnvVars) GetMockBackendPort() string {
	return listenAddr(e.v.get(mockPortEnvVar, "8081"))
}

func (e EnvVars) GetAppName() string {
	return e.v.get(appNameVar, "Product Console")
}

func (e EnvVars) GetEnv() string {
	return e.v.get("ENV", "DEV")
}

// GetLogFile returns the path logs are rotated into. Empty means stderr only.
func (e EnvVars) GetLogFile() string {
	return e.v.get(logFileEnvVar, "")
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
