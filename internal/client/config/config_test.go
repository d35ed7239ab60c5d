package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tgcloud/internal/client/client"
	"github.com/dmitrijs2005/tgcloud/internal/common"
)

var configEnv = []string{
	"API_ID", "API_HASH", "SESSION_NAME",
	"TGCLOUD_BACKEND", "TGCLOUD_STORE", "TGCLOUD_PHONE", "TGCLOUD_LOG_LEVEL",
	"S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "S3_PREFIX", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
}

// isolate runs the test in an empty directory with none of our variables set.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{
		Backend:     BackendTelegram,
		SessionFile: "telegram_cloud.session",
		StorePath:   "telegram_cloud.json",
		LogLevel:    "info",
		S3:          client.S3Config{Prefix: "tgcloud"},
	}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)

	jsonPath := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"api_id": 1,
		"api_hash": "from-json",
		"store_path": "json.json",
		"log_level": "warn",
		"phone": "+1"
	}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("API_HASH=from-dotenv\nSESSION_NAME=dotenv.session\nTGCLOUD_LOG_LEVEL=error\n"), 0o600))
	t.Setenv("API_HASH", "from-process")
	t.Setenv("API_ID", "777")

	cfg, err := LoadConfig([]string{"-c", jsonPath, "-l", "debug", "-d", "flags.json"})
	require.NoError(t, err)

	want := &Config{
		Backend:     BackendTelegram,
		APIID:       777,              // env beats JSON
		APIHash:     "from-process",   // process env beats .env
		SessionFile: "dotenv.session", // .env fills the gap
		StorePath:   "flags.json",     // flags beat JSON
		Phone:       "+1",
		LogLevel:    "debug",
		S3:          client.S3Config{Prefix: "tgcloud"},
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_S3Backend(t *testing.T) {
	isolate(t)
	t.Setenv("S3_BUCKET", "uploads")
	t.Setenv("S3_ENDPOINT", "http://127.0.0.1:9000")

	cfg, err := LoadConfig([]string{"-b", "s3"})
	require.NoError(t, err)
	assert.Equal(t, BackendS3, cfg.Backend)
	assert.Equal(t, "uploads", cfg.S3.Bucket)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.S3.Endpoint)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		msg  string
	}{
		{name: "missing credentials", msg: "API_ID"},
		{name: "non-numeric API_ID", env: map[string]string{"API_ID": "abc", "API_HASH": "h"}, msg: "API_ID must be a number"},
		{name: "missing config file", args: []string{"-config", "nope.json"}, msg: "read config file"},
		{name: "bad flag value", env: map[string]string{"API_ID": "1", "API_HASH": "h"}, args: []string{"-b"}, msg: "flag needs an argument"},
		{name: "unknown backend", env: map[string]string{"TGCLOUD_BACKEND": "ftp"}, msg: `unknown backend "ftp"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(tt.args)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, common.ErrConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "telegram ok", mutate: func(c *Config) { c.APIID, c.APIHash = 1, "h" }},
		{name: "telegram no hash", mutate: func(c *Config) { c.APIID = 1 }, wantErr: "API_HASH is required"},
		{name: "s3 ok", mutate: func(c *Config) { c.Backend, c.S3.Bucket = BackendS3, "b" }},
		{name: "s3 no bucket", mutate: func(c *Config) { c.Backend = BackendS3 }, wantErr: "S3_BUCKET is required"},
		{name: "s3 slash prefix", mutate: func(c *Config) { c.Backend, c.S3.Bucket, c.S3.Prefix = BackendS3, "b", "/" }, wantErr: "S3_PREFIX"},
		{name: "no store", mutate: func(c *Config) { c.APIID, c.APIHash, c.StorePath = 1, "h", "" }, wantErr: "store path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCredentials(t *testing.T) {
	c := Config{APIID: 5, APIHash: "h", SessionFile: "s"}
	assert.Equal(t, client.Credentials{AppID: 5, AppHash: "h", SessionPath: "s"}, c.Credentials())
}
