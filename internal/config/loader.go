package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
)

// configCandidates are looked up in the working directory, in order.
var configCandidates = []string{
	constants.DefaultConfigFile,
	"errboard.yml",
	".errboard.yaml",
	".errboard.yml",
}

// LoadEnvFile parses a dotenv file. An empty path yields a nil map.
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("env file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return env, nil
}

// ApplyEnvFile exports a dotenv file into the process environment without
// overriding variables that are already set.
func ApplyEnvFile(path string) error {
	env, err := LoadEnvFile(path)
	if err != nil {
		return err
	}

	for key, value := range env {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return nil
}

// resolvePath makes p relative to the config file's directory.
func resolvePath(p, configDir string) string {
	if configDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(configDir, p)
}

// FindConfigFile returns the first errboard config present in the working
// directory.
func FindConfigFile() (string, error) {
	for _, name := range configCandidates {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w (tried: %v)", domain.ErrConfigNotFound, configCandidates)
}

// CheckFilePermissions refuses world-writable config files on Unix.
func CheckFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking file permissions: %w", err)
	}
	if info.Mode().Perm()&0o002 != 0 {
		return fmt.Errorf("config file %s is world-writable; run: chmod o-w %s", path, path)
	}
	return nil
}
