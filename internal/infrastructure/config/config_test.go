package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  mode: test
database:
  driver: sqlite
  sqlite_path: ":memory:"
jwt:
  secret: unit-test-secret
  access_token_expire: 30m
cache:
  book_ttl: 1m
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, time.Minute, cfg.Cache.BookTTL)

	// 文件中没有的键使用默认值
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpire)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr())
	assert.Equal(t, 5, cfg.RateLimit.LoginBurst)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("BOOKCATALOG_JWT_SECRET", "from-env")
	t.Setenv("BOOKCATALOG_SERVER_PORT", "7070")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFile_Validation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"非法端口", "server:\n  port: 70000\n"},
		{"未知驱动", "database:\n  driver: postgres\n"},
		{"生产环境默认密钥", "server:\n  mode: release\n"},
		{"限流参数非法", "ratelimit:\n  login_burst: 0\n"},
		{"追踪缺少endpoint", "tracing:\n  enabled: true\n  endpoint: \"\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{User: "root", Password: "pwd", Host: "db", Port: 3306, DBName: "bookcatalog", Charset: "utf8mb4", ParseTime: true, Loc: "Europe/Moscow"}
	assert.Equal(t, "root:pwd@tcp(db:3306)/bookcatalog?charset=utf8mb4&parseTime=true&loc=Europe%2FMoscow", d.DSN())
}
