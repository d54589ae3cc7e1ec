package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB membuka koneksi database sesuai environment. Default MySQL;
// DB_DRIVER=sqlite dipakai untuk dev lokal tanpa server MySQL.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	dsn := os.Getenv("DB_DSN")

	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "waitlist.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case "", "mysql":
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				os.Getenv("DB_USER"),
				os.Getenv("DB_PASS"),
				envOr("DB_HOST", "127.0.0.1"),
				envOr("DB_PORT", "3306"),
				envOr("DB_NAME", "restaurant_waitlist"),
			)
		}
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}
}

// AutoAssignEnabled -> flag kebijakan: seat otomatis saat meja dibebaskan.
// Default mati, matching hanya advisory.
func AutoAssignEnabled() bool {
	v := os.Getenv("WAITLIST_AUTO_ASSIGN")
	return v == "1" || v == "true"
}

// MonitorInterval -> interval polling change monitor
func MonitorInterval() time.Duration {
	if ms, err := strconv.Atoi(os.Getenv("MONITOR_INTERVAL_MS")); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return 500 * time.Millisecond
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
