package chainq

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_OverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
driver: mysql
host: db.internal
port: 3307
user: app
password: secret
database: orders
max_conns: 50
connect_timeout: 5s
`))
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.Driver)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 3307, cfg.Port)
	assert.Equal(t, int32(50), cfg.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	// untouched fields keep production defaults
	assert.Equal(t, int32(5), cfg.MinConns)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnLifetime)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("driver: [broken"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dsn: postgres://localhost/app\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/app", cfg.DSN)
	assert.Equal(t, DriverPostgres, cfg.Driver)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/app")
	assert.Equal(t, "postgres://localhost/app", cfg.DSN)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}
