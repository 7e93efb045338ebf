package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnvVar names the optional YAML file whose values sit underneath the environment.
const ConfigFileEnvVar = "CONSOLE_CONFIG"

type Config interface {
	EnvConfig
	CorsConfig
	BackendConfig
	MockBackendConfig
	SessionConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetMockBackendPort() string
	GetAppName() string
	GetEnv() string
	GetLogFile() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Backend
	Session
	Storage
}

// New returns a Config backed by the process environment only.
func New() Config {
	return newConfig(nil)
}

// Load returns a Config backed by the environment with the YAML file at path
// supplying any values the environment leaves unset. An empty path falls back
// to CONSOLE_CONFIG, and if that is unset too only the environment is used.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(ConfigFileEnvVar)
	}
	if path == "" {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load read %s: %w", path, err)
	}

	file := make(map[string]string)
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config.Load parse %s: %w", path, err)
	}
	return newConfig(file), nil
}

func newConfig(file map[string]string) Config {
	v := values(file)
	return mainConfig{
		EnvVars: EnvVars{v: v},
		Cors:    Cors{v: v},
		Backend: Backend{v: v},
		Session: Session{v: v},
		Storage: Storage{v: v},
	}
}
