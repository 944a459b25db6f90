package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// GitHub REST API
	GitHubToken  string
	GitHubAPIURL string
	// Webhook intake
	WebhookSecret string
	// Path of the per-repository settings document
	RepoConfigPath string
	// Database
	DatabaseURL string
	// Fallback persistence when no database is configured
	SummaryFile string
	// How many push summaries to keep in memory
	SummaryHistory int
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:           getEnvDefault("PORT", "8080"),
		AllowedOrigin:  getEnvDefault("ALLOWED_ORIGIN", "*"),
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL:   getEnvDefault("GITHUB_API_URL", "https://api.github.com"),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		RepoConfigPath: getEnvDefault("REPO_CONFIG_PATH", ".github/todo-tracker.yml"),
		DatabaseURL:    os.Getenv("DB_URL"),
		SummaryFile:    getEnvDefault("SUMMARY_FILE", "data/push_summaries.json"),
		SummaryHistory: getEnvIntDefault("SUMMARY_HISTORY", 100),
	}
	if cfg.GitHubToken == "" {
		log.Println("warning: GITHUB_TOKEN is not set; GitHub API calls will be unauthenticated and heavily rate limited")
	}
	if cfg.WebhookSecret == "" {
		log.Println("warning: WEBHOOK_SECRET is not set; webhook signatures will not be verified")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
