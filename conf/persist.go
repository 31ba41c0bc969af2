package conf

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/vspace/errors"
)

// Persist writes the configuration to configPath as TOML, keeping rotating
// backups of the previous contents.
func Persist(cfg *Config, configPath string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := createBackup(configPath); err != nil {
		return err
	}

	content, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", configPath)
	}
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before
// modifying the config file.
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	// Rotate: .back3 dropped, .back2 -> .back3, .back1 -> .back2, current -> .back1
	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete oldest backup")
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
