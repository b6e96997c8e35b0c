package cipherbox

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// KeySource tells where the active key came from.
type KeySource string

const (
	KeySourceConfig    KeySource = "config"
	KeySourceFile      KeySource = "file"
	KeySourceGenerated KeySource = "generated"
)

// LoadOrCreateKey resolves the key in priority order: the configured base64
// value, then the key file. If neither exists a new key is written to path
// with owner-only permissions before it is returned.
func LoadOrCreateKey(configured, path string, logger *slog.Logger) ([]byte, KeySource, error) {
	if configured != "" {
		key, err := DecodeKey(configured)
		if err != nil {
			return nil, "", fmt.Errorf("configured encryption key: %w", err)
		}
		return key, KeySourceConfig, nil
	}

	if path == "" {
		return nil, "", errors.New("no encryption key configured and no key file path set")
	}

	key, err := ReadKeyFile(path, logger)
	if err == nil {
		return key, KeySourceFile, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, "", err
	}

	key, err = GenerateKey()
	if err != nil {
		return nil, "", err
	}
	if err := WriteKeyFile(path, key); err != nil {
		return nil, "", err
	}

	logger.Warn("generated a new encryption key; data encrypted under any previous key can no longer be read",
		"path", path)
	return key, KeySourceGenerated, nil
}

func ReadKeyFile(path string, logger *slog.Logger) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Mode().Perm()&0o077 != 0 {
		logger.Warn("encryption key file is accessible by other users", "path", path, "mode", info.Mode().Perm().String())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	key, err := DecodeKey(string(raw))
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}
	return key, nil
}

// WriteKeyFile stores key as base64 text. The write goes through a temp file
// and a rename so a crash never leaves a truncated key behind.
func WriteKeyFile(path string, key []byte) error {
	if len(key) != KeySize {
		return ErrInvalidKey
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".key-*")
	if err != nil {
		return fmt.Errorf("create temp key file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp key file: %w", err)
	}
	if _, err := tmp.WriteString(EncodeKey(key) + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp key file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp key file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp key file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("install key file: %w", err)
	}
	return nil
}

func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

func DecodeKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}
