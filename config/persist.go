package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/easel/errors"
	"github.com/teranos/easel/logger"
)

// UserConfigPath returns the writable user config file.
func UserConfigPath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "easel.toml")
}

// SetValue persists one dotted key into the user config file, creating it
// if needed. Other layers are untouched, so project and system files keep
// their precedence semantics.
func SetValue(key string, value any) error {
	configPath := UserConfigPath()
	if configPath == "" {
		return errors.New("could not determine home directory")
	}

	settings := make(map[string]any)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := toml.Unmarshal(data, &settings); err != nil {
			return errors.Wrap(err, "parsing user config")
		}
	}

	setNested(settings, key, value)
	return writeUserConfig(settings, configPath)
}

// setNested writes a dotted key into the nested settings tree.
func setNested(settings map[string]any, key string, value any) {
	node := settings
	for {
		i := indexDot(key)
		if i < 0 {
			node[key] = value
			return
		}
		head, rest := key[:i], key[i+1:]
		child, ok := node[head].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[head] = child
		}
		node, key = child, rest
	}
}

func indexDot(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

func writeUserConfig(settings map[string]any, configPath string) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "creating backup")
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.Wrap(err, "writing user config")
	}
	return nil
}

// createBackup rotates .back1/.back2/.back3 before a config write.
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("failed to delete old config backup", "path", back3, "error", err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "rotating .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "rotating .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "reading config for backup")
	}
	return os.WriteFile(back1, content, 0o644)
}
