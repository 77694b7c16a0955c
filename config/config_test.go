package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	require.Equal(t, "3001", c.AppPort)
	require.Equal(t, 11, c.BcryptCost)
	require.Equal(t, 168, c.TokenTTLHours)
	require.Equal(t, "blog", c.MongoDB)
	require.Equal(t, "http://localhost:3001", c.PublicBaseURL)
	require.Equal(t, c.PublicBaseURL, c.OAuthRedirectBase)
	require.False(t, c.GoogleEnabled())
	require.False(t, c.RedisEnabled())
}

func TestApplyDefaultsDatabaseFromURL(t *testing.T) {
	c := AppConfig{MongoURL: "mongodb://user:pw@db.example.com:27017/strive?authSource=admin"}
	applyDefaults(&c)
	require.Equal(t, "strive", c.MongoDB)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MONGO_URL", "mongodb://mongo:27017/blogs")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("FE_DEV_URL", "http://localhost:3000")
	t.Setenv("FE_PROD_URL", "https://a.example.com")
	t.Setenv("BCRYPT_COST", "12")

	var c AppConfig
	applyEnvOverrides(&c)
	applyDefaults(&c)

	require.Equal(t, "4000", c.AppPort)
	require.Equal(t, "s3cret", c.JWTSecret)
	require.Equal(t, "blogs", c.MongoDB)
	require.Equal(t, 12, c.BcryptCost)
	require.Equal(t, []string{
		"https://a.example.com",
		"https://b.example.com",
		"http://localhost:3000",
	}, c.AllowedOrigins)
	require.Equal(t, "http://localhost:4000", c.PublicBaseURL)
}

func TestLoadJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"AppPort": "8081", "JWTSecret": "from-file", "AllowedOrigins": ["https://x.example.com"]},
		"database": {"MongoURL": "mongodb://localhost:27017", "MongoDB": "test"},
		"log": {"Level": "debug", "Compress": true}
	}`), 0o600))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	require.Equal(t, "8081", c.AppPort)
	require.Equal(t, "from-file", c.JWTSecret)
	require.Equal(t, []string{"https://x.example.com"}, c.AllowedOrigins)
	require.Equal(t, "test", c.MongoDB)
	require.Equal(t, "debug", c.LogLevel)
	require.True(t, c.LogCompress)
}

func TestLoadJSONConfigMissingAndInvalid(t *testing.T) {
	var c AppConfig
	require.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	require.Error(t, loadJSONConfig(path, &c))
}
