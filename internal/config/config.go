package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	StaticDir  string

	RootURL string

	CodeStyleLight string
	CodeStyleDark  string

	CacheHTML string

	APIEndpoint       string
	APIAuthToken      string
	APITimeoutSeconds int
	APILogHTTP        bool

	SessionCookie string
	SecureCookies bool

	LoginPath  string
	PostsPath  string
	DateLayout string
}

// Load reads an optional .env file before falling back to the process environment.
func Load() Config {
	_ = godotenv.Load()

	return FromEnv()
}

func FromEnv() Config {
	return Config{
		ListenAddr:        getEnv("BLOG_LISTEN_ADDR", ":8080"),
		StaticDir:         getEnv("BLOG_STATIC_DIR", "internal/web/static"),
		RootURL:           strings.TrimRight(getEnv("BLOG_ROOT_URL", ""), "/"),
		CodeStyleLight:    getEnv("BLOG_CODE_STYLE_LIGHT", "github"),
		CodeStyleDark:     getEnv("BLOG_CODE_STYLE_DARK", "github-dark"),
		CacheHTML:         getEnv("BLOG_CACHE_HTML", "private, no-store"),
		APIEndpoint:       getEnv("BLOG_API_ENDPOINT", "http://localhost:3000/api/graphql"),
		APIAuthToken:      os.Getenv("BLOG_API_AUTH_TOKEN"),
		APITimeoutSeconds: getEnvInt("BLOG_API_TIMEOUT_SECONDS", 15),
		APILogHTTP:        getEnvBool("BLOG_API_LOG_HTTP", false),
		SessionCookie:     getEnv("BLOG_SESSION_COOKIE", "token"),
		SecureCookies:     getEnvBool("BLOG_SECURE_COOKIES", false),
		LoginPath:         normalizePath(getEnv("BLOG_LOGIN_PATH", "/login")),
		PostsPath:         normalizePath(getEnv("BLOG_POSTS_PATH", "/posts")),
		DateLayout:        getEnv("BLOG_DATE_LAYOUT", "02/01/2006"),
	}
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}

	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return parsed
}

func normalizePath(value string) string {
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	if len(value) > 1 {
		value = strings.TrimRight(value, "/")
	}
	return value
}
