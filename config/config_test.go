package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, 72, c.SessionTTLHours)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, "askme", c.DBName)
	assert.Equal(t, 6379, c.RedisPort)
	assert.Equal(t, "uploads", c.UploadDir)
	assert.Equal(t, 200, c.AvatarSizePx)
	assert.Equal(t, 3, c.QuestionsPerPage)
	assert.Equal(t, 3, c.AnswersPerPage)
	assert.Empty(t, c.JWTSecret)

	c = AppConfig{QuestionsPerPage: 20, GinMode: "debug"}
	applyDefaults(&c)
	assert.Equal(t, 20, c.QuestionsPerPage)
	assert.Equal(t, "debug", c.GinMode)
}

func TestLoadJSONConfig(t *testing.T) {
	raw := map[string]any{
		"app": map[string]any{
			"AppPort":          "9000",
			"JWTSecret":        "from-json",
			"AllowedOrigins":   []any{"https://a.example", 3, "https://b.example"},
			"QuestionsPerPage": 10,
			"CookieSecure":     true,
		},
		"gin":      map[string]any{"Mode": "debug", "LogPath": "/tmp/gin.log"},
		"database": map[string]any{"DatabaseURI": "sqlite://askme.db"},
		"redis":    map[string]any{"RedisHost": "cache", "RedisPort": 6380},
		"log":      map[string]any{"Level": "warn", "Compress": true},
		"upload":   map[string]any{"Dir": "/srv/uploads", "AvatarSizePx": 128},
	}
	b, err := json.Marshal(raw)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "from-json", c.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, 10, c.QuestionsPerPage)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, "debug", c.GinMode)
	assert.Equal(t, "/tmp/gin.log", c.GinPath)
	assert.Equal(t, "sqlite://askme.db", c.DatabaseURI)
	assert.Equal(t, "cache", c.RedisHost)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, "warn", c.LogLevel)
	assert.True(t, c.LogCompress)
	assert.Equal(t, "/srv/uploads", c.UploadDir)
	assert.Equal(t, 128, c.AvatarSizePx)
}

func TestLoadJSONConfig_MissingAndInvalid(t *testing.T) {
	var c AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "nope.json"), &c))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.Error(t, loadJSONConfig(path, &c))
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_PORT", " 7000 ")
	t.Setenv("REDIS_PORT", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://x.example, ,https://y.example")
	t.Setenv("DATABASE_URI", "sqlite://:memory:")

	c := AppConfig{RedisPort: 6379, AppPort: "8080"}
	applyEnvOverrides(&c)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, "7000", c.AppPort)
	assert.Equal(t, 6379, c.RedisPort)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, []string{"https://x.example", "https://y.example"}, c.AllowedOrigins)
	assert.Equal(t, "sqlite://:memory:", c.DatabaseURI)
}

func TestSetAndGet(t *testing.T) {
	Set(AppConfig{JWTSecret: "s", AnswersPerPage: 7})
	got := Get()
	assert.Equal(t, "s", got.JWTSecret)
	assert.Equal(t, 7, got.AnswersPerPage)
	assert.Equal(t, 3, got.QuestionsPerPage)
}

func TestToGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, toGormLogLevel("debug"))
	assert.Equal(t, logger.Warn, toGormLogLevel(""))
	assert.Equal(t, logger.Error, toGormLogLevel("error"))
	assert.Equal(t, logger.Silent, toGormLogLevel("silent"))
	assert.Equal(t, logger.Warn, toGormLogLevel("verbose"))
}

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

type gadget struct {
	ID       uint `gorm:"primaryKey"`
	WidgetID uint
	Widget   widget `gorm:"constraint:OnDelete:CASCADE;"`
}

func TestOpenDatabase_SQLite(t *testing.T) {
	c := AppConfig{DatabaseURI: "sqlite://" + filepath.Join(t.TempDir(), "askme.db"), LogLevel: "silent"}
	db, err := OpenDatabase(c)
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &widget{}, &gadget{}))

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	// foreign keys are enforced
	assert.Error(t, db.Create(&gadget{WidgetID: 999}).Error)
	// unique violations come back translated
	assert.ErrorIs(t, db.Create(&widget{Name: "a"}).Error, gorm.ErrDuplicatedKey)
}
