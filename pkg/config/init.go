package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// InitConfig writes a sample configuration file at the default location,
// generating a random admin JWT secret. Fails if the file already exists
// unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration file at path, generating
// a random admin JWT secret. Fails if the file already exists unless
// force is true.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate admin secret: %w", err)
	}

	cfg := GetDefaultConfig()
	cfg.Transport.Admin.Secret = secret

	if err := SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to write sample config: %w", err)
	}

	return nil
}

// generateSecret returns a 64-character hex string (32 bytes of entropy),
// suitable for development use as the admin JWT signing key.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
