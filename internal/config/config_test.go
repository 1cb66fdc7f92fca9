package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, DefaultDataPath, cfg.Data.Path)
				assert.Equal(t, int64(42), cfg.Model.Seed)
				assert.Equal(t, 0.2, cfg.Model.TestRatio)
				assert.Equal(t, 1, cfg.Model.Parallelism)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "yaml file overrides defaults",
			file: `
server:
  port: 9090
data:
  path: /srv/credit.xlsx
model:
  parallelism: 3
logging:
  output: BOTH
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "/srv/credit.xlsx", cfg.Data.Path)
				assert.Equal(t, 3, cfg.Model.Parallelism)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, int64(42), cfg.Model.Seed)
			},
		},
		{
			name: "environment overrides yaml file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"CREDIT_SERVER_PORT":              "7070",
				"CREDIT_MODEL_SEED":               "7",
				"CREDIT_SECURITY_ALLOWED_ORIGINS": "http://a.test,http://b.test",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, int64(7), cfg.Model.Seed)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name: "unprefixed variables are ignored",
			env: map[string]string{
				"PATH":  "/usr/bin:/bin",
				"PORT":  "1",
				"LEVEL": "debug",
				"SEED":  "9",
				"BURST": "3",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultDataPath, cfg.Data.Path)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, int64(42), cfg.Model.Seed)
				assert.NotEqual(t, "debug", cfg.Logging.Level)
				assert.NotEqual(t, 3, cfg.Security.RateLimit.Burst)
			},
		},
		{
			name: "multi-word fields use underscored names",
			env: map[string]string{
				"CREDIT_DATA_PATH":              "/data/credit.csv",
				"CREDIT_MODEL_WARM_ON_START":    "false",
				"CREDIT_SECURITY_ENABLE_CORS":   "false",
				"CREDIT_SECURITY_RATE_LIMIT_RPS": "2.5",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/credit.csv", cfg.Data.Path)
				assert.False(t, cfg.Model.WarmOnStart)
				assert.False(t, cfg.Security.EnableCORS)
				assert.Equal(t, 2.5, cfg.Security.RateLimit.RPS)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"CREDIT_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "test ratio out of range",
			file:    "model:\n  test_ratio: 1.5\n",
			wantErr: "test ratio",
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"CREDIT_TELEMETRY_TRACE_EXPORTER": "otlp"},
			wantErr: "unsupported trace exporter",
		},
		{
			name:    "unknown log output",
			env:     map[string]string{"CREDIT_LOGGING_OUTPUT": "syslog"},
			wantErr: "unsupported log output",
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"CREDIT_MODEL_PARALLELISM": "many"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadUsesConfigEnvVar(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 8181\n")
	t.Setenv("CREDIT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateFillsLogFile(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestValidateCORSWithoutOrigins(t *testing.T) {
	cfg := Default()
	cfg.Security.AllowedOrigins = nil
	assert.Error(t, cfg.Validate())

	cfg.Security.EnableCORS = false
	assert.NoError(t, cfg.Validate())
}
