package config

import (
	"log"
	"os"
	"path/filepath"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCSBucket    string

	StorageBackend string // "memory" or "firestore"

	CachePath string // sqlite file for the device-local note cache
	AppsFile  string // yaml file listing linked workspace apps
	WatchApps bool   // reload AppsFile on change
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("KIGA_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("KIGA_PORT", "8080"),

		GCPProjectID: getEnv("KIGA_GCP_PROJECT", ""),
		GCSBucket:    getEnv("KIGA_GCS_BUCKET", ""),

		StorageBackend: getEnv("KIGA_STORAGE_BACKEND", "memory"),

		CachePath: getEnv("KIGA_CACHE_PATH", defaultCachePath()),
		AppsFile:  getEnv("KIGA_APPS_FILE", ""),
		WatchApps: getBoolEnv("KIGA_WATCH_APPS", false),
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP {
		if cfg.GCPProjectID == "" {
			log.Fatal("KIGA_GCP_PROJECT must be set in gcp mode")
		}
		if cfg.GCSBucket == "" {
			log.Fatal("KIGA_GCS_BUCKET must be set in gcp mode")
		}
	}

	return cfg
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "kiga-cache.db"
	}
	return filepath.Join(dir, "kiga-workspace", "cache.db")
}
