package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	TelegramToken string
	AdminUserIDs  []int64
	ChannelID     string // public channel announcements go to ("@handle" or numeric id)
	BoostLink     string
	DatabasePath  string
	LogLevel      string
	Locale        string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	adminIDsStr := os.Getenv("ADMIN_USER_IDS")
	if adminIDsStr == "" {
		return nil, fmt.Errorf("ADMIN_USER_IDS environment variable is required")
	}
	adminIDs, err := parseAdminIDs(adminIDsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_USER_IDS: %w", err)
	}

	channelID := os.Getenv("CHANNEL_ID")
	if channelID == "" {
		return nil, fmt.Errorf("CHANNEL_ID environment variable is required")
	}

	boostLink := os.Getenv("BOOST_LINK")
	if boostLink == "" && strings.HasPrefix(channelID, "@") {
		boostLink = "https://t.me/boost/" + strings.TrimPrefix(channelID, "@")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/bot.db" // default value
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO" // default value
	}

	loc := os.Getenv("LOCALE")
	if loc == "" {
		loc = "uz" // default value
	}

	return &Config{
		TelegramToken: token,
		AdminUserIDs:  adminIDs,
		ChannelID:     channelID,
		BoostLink:     boostLink,
		DatabasePath:  dbPath,
		LogLevel:      logLevel,
		Locale:        loc,
	}, nil
}

// parseAdminIDs parses comma-separated admin user IDs
func parseAdminIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin ID '%s': %w", part, err)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one admin ID is required")
	}

	return ids, nil
}
