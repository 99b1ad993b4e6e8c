package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	DBPath      string
	UploadPath  string
	AssetsPath  string
	AdminEmails []string
	LogLevel    string
	LogFile     string
}

// Load reads configuration from the environment, after loading a .env file
// when one is present next to the binary.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":5000"),
		DBPath:      getEnv("DB_PATH", "/data/oratorio.db"),
		UploadPath:  getEnv("UPLOAD_PATH", "/data/static/uploads"),
		AssetsPath:  getEnv("ASSETS_PATH", "/data/assets"),
		AdminEmails: splitList(getEnv("ADMIN_EMAILS", "yogaardian114@student.uns.ac.id")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
