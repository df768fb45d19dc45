package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/easel/errors"
)

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
)

// Load reads the easel configuration, caching it for the process.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig != nil {
		return globalConfig, nil
	}

	var config Config
	if err := initViper().Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the viper instance for advanced access.
func GetViper() *viper.Viper {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadFromFile loads configuration from one specific file, on top of the
// defaults but without the merge chain or environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling config from %s", configPath)
	}
	return &config, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix("EASEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvOverrides(v)
	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// UserConfigDir returns ~/.easel, creating it on first use.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".easel")
	os.MkdirAll(dir, DefaultDirPermissions)
	return dir
}

// findProjectConfig walks up from the working directory looking for an
// easel.toml, so invocations from a subdirectory see the project config.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, "easel.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// mergeConfigFiles merges files lowest to highest precedence:
// system < user < project. Environment variables override them all.
func mergeConfigFiles(v *viper.Viper) {
	configPaths := []string{
		"/etc/easel/config.toml",
	}
	if dir := UserConfigDir(); dir != "" {
		configPaths = append(configPaths, filepath.Join(dir, "easel.toml"))
	}
	if project := findProjectConfig(); project != "" {
		configPaths = append(configPaths, project)
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		layer := viper.New()
		layer.SetConfigFile(configPath)
		layer.SetConfigType("toml")
		if err := layer.ReadInConfig(); err != nil {
			continue
		}
		for key, value := range layer.AllSettings() {
			v.Set(key, value)
		}
	}
}
