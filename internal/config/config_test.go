package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"BLOG_LISTEN_ADDR", "BLOG_API_ENDPOINT", "BLOG_SESSION_COOKIE",
		"BLOG_LOGIN_PATH", "BLOG_POSTS_PATH", "BLOG_DATE_LAYOUT",
		"BLOG_API_TIMEOUT_SECONDS", "BLOG_API_LOG_HTTP", "BLOG_CACHE_HTML",
		"BLOG_CODE_STYLE_LIGHT", "BLOG_CODE_STYLE_DARK",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:3000/api/graphql", cfg.APIEndpoint)
	assert.Equal(t, "token", cfg.SessionCookie)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Equal(t, "/posts", cfg.PostsPath)
	assert.Equal(t, "02/01/2006", cfg.DateLayout)
	assert.Equal(t, 15, cfg.APITimeoutSeconds)
	assert.Equal(t, "private, no-store", cfg.CacheHTML)
	assert.False(t, cfg.APILogHTTP)
	assert.Equal(t, "github", cfg.CodeStyleLight)
	assert.Equal(t, "github-dark", cfg.CodeStyleDark)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BLOG_LOGIN_PATH", "auth/login/")
	t.Setenv("BLOG_POSTS_PATH", "blog/posts/")
	t.Setenv("BLOG_API_TIMEOUT_SECONDS", "3")
	t.Setenv("BLOG_API_LOG_HTTP", "true")
	t.Setenv("BLOG_ROOT_URL", "https://example.com/")
	t.Setenv("BLOG_CODE_STYLE_DARK", "none")

	cfg := FromEnv()

	assert.Equal(t, "/auth/login", cfg.LoginPath)
	assert.Equal(t, "/blog/posts", cfg.PostsPath)
	assert.Equal(t, 3, cfg.APITimeoutSeconds)
	assert.True(t, cfg.APILogHTTP)
	assert.Equal(t, "https://example.com", cfg.RootURL)
	assert.Equal(t, "none", cfg.CodeStyleDark)
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("BLOG_API_TIMEOUT_SECONDS", "-4")
	t.Setenv("BLOG_API_LOG_HTTP", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 15, cfg.APITimeoutSeconds)
	assert.False(t, cfg.APILogHTTP)
}
