package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/slightknack/aeromessage/internal/contacts"
	"github.com/slightknack/aeromessage/internal/store/chatdb"
)

type Config struct {
	AppName string
	Host    string
	Port    int

	// ChatDBPath is the Messages database; read-only except mark-as-read.
	ChatDBPath string
	// ContactSourcesDir holds the AddressBook source databases.
	ContactSourcesDir string
	// AttachmentsDir is the root all served attachment paths must resolve under.
	AttachmentsDir string
	// TranscodeCacheDir caches HEIC-to-JPEG conversions.
	TranscodeCacheDir string

	JWTSecret          string
	PasswordHash       string
	AccessTokenMinutes int

	CORSOrigins  []string
	MessageLimit int
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home directory: %w", err)
	}

	defaultChatDB, err := chatdb.DefaultPath()
	if err != nil {
		return nil, err
	}
	defaultSources, err := contacts.DefaultSourcesDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppName: getEnv("APP_NAME", "aeromessage"),
		Host:    getEnv("HTTP_HOST", "127.0.0.1"),
		Port:    getEnvAsInt("HTTP_PORT", 8787),

		ChatDBPath:        getEnv("CHAT_DB_PATH", defaultChatDB),
		ContactSourcesDir: getEnv("CONTACT_SOURCES_DIR", defaultSources),
		AttachmentsDir:    getEnv("ATTACHMENTS_DIR", filepath.Join(home, "Library", "Messages", "Attachments")),
		TranscodeCacheDir: getEnv("TRANSCODE_CACHE_DIR", filepath.Join(home, "Library", "Caches", "Aeromessage")),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		PasswordHash:       os.Getenv("API_PASSWORD_HASH"),
		AccessTokenMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24),

		MessageLimit: getEnvAsInt("MESSAGE_LIMIT", 15),
	}

	cors := getEnv("CORS_ORIGINS", "")
	if cors != "" {
		parts := strings.Split(cors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	} else {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PasswordHash == "" {
		return nil, fmt.Errorf("API_PASSWORD_HASH is required")
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
