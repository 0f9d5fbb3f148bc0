// Package where resolves the directories and files the application reads and writes.
package where

import (
	"os"
	"path/filepath"

	"github.com/etldl/etldl/constant"
	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "ETLDL_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory, honoring ETLDL_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	return ensureDir(filepath.Join(lo.Must(os.UserConfigDir()), constant.App))
}

// Cache is the per-user cache directory, falling back to ./cache.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Downloads is the root under which every course gets a directory.
// It is not created here; the download workspace does that when a run starts.
func Downloads() string {
	path := viper.GetString(key.DownloadsPath)
	if path == "" {
		path = "downloads"
	}
	return path
}

func History() string {
	return filepath.Join(Config(), "history.json")
}

// Courses is the cache file for the enrolled course list.
func Courses() string {
	return filepath.Join(Cache(), "courses.json")
}
