package main

import (
	"os"
	"path/filepath"
)

// cacheDir returns <user-cache>/rtk, creating it if necessary.
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "rtk")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// memoryDBPath returns the path to the artifact store's SQLite file
// (spec.md §6 "Filesystem layout").
func memoryDBPath() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	memDir := filepath.Join(dir, "memory")
	if err := os.MkdirAll(memDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(memDir, "memory.db"), nil
}

// readCacheDir returns the directory backing pkg/readcache.
func readCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	readDir := filepath.Join(dir, "read")
	if err := os.MkdirAll(readDir, 0o755); err != nil {
		return "", err
	}
	return readDir, nil
}

// configPath returns <user-config>/rtk/config.toml.
func configPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "rtk", "config.toml"), nil
}

// projectRoot resolves the canonical project root: the current working
// directory unless overridden.
func projectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Abs(wd)
}
