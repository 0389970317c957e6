// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values loaded from the environment.
// It is constructed once in main and passed explicitly to every collaborator;
// nothing reads the environment after startup.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Comma-separated list of origins allowed by CORS. "*" allows any.
	AllowedOrigins []string

	// AI provider settings
	AIProvider       string // "openai", "gemini"
	OpenAIKey        string
	OpenAIModel      string
	OpenAIBaseURL    string
	OpenAIImageModel string
	GeminiKey        string
	GeminiModel      string
	GeminiBaseURL    string

	// S3-compatible object storage (cloud image host)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Local filesystem areas
	UploadDir string // where /upload stores files, served at /uploads
	OutputDir string // parent of per-request site output directories

	// StrictImageCopy controls whether a missing upload source aborts
	// site packaging (true) or is skipped with a warning (false).
	StrictImageCopy bool

	// Rate limiting
	RateLimit  int           // max requests per window per client IP
	RateWindow time.Duration // sliding window duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		AllowedOrigins: splitAndTrim(envOrDefault("ALLOWED_ORIGINS", "*")),

		AIProvider:       envOrDefault("AI_PROVIDER", "openai"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		OpenAIImageModel: envOrDefault("OPENAI_IMAGE_MODEL", "dall-e-3"),
		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "eu-central-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "sitesmith-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		UploadDir: envOrDefault("UPLOAD_DIR", "uploads"),
		OutputDir: envOrDefault("OUTPUT_DIR", "generated"),

		StrictImageCopy: envBool("STRICT_IMAGE_COPY", false),

		RateLimit:  envInt("RATE_LIMIT", 60),
		RateWindow: envDuration("RATE_WINDOW", time.Minute),
	}

	if cfg.Env == "production" {
		if cfg.OpenAIKey == "" && cfg.GeminiKey == "" {
			return nil, fmt.Errorf("at least one AI provider key (OPENAI_API_KEY or GEMINI_API_KEY) must be set in production")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envBool parses a boolean environment variable ("1", "true", "yes", "on").
func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// envInt parses an integer environment variable, ignoring invalid values.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// envDuration parses a Go duration string (e.g. "30s", "1m").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// splitAndTrim splits a comma-separated list and trims whitespace around
// each element, dropping empties.
func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
