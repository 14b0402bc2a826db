package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "development defaults",
			cfg:  Config{Port: "5000", SessionSecret: defaultSessionSecret, Env: "development"},
		},
		{
			name:    "missing port",
			cfg:     Config{SessionSecret: "x"},
			wantErr: "PORT is required",
		},
		{
			name:    "missing secret",
			cfg:     Config{Port: "5000"},
			wantErr: "SESSION_SECRET is required",
		},
		{
			name:    "default secret in production",
			cfg:     Config{Port: "5000", SessionSecret: defaultSessionSecret, Env: "production", DBPassword: "s3cure-and-long"},
			wantErr: "must be changed",
		},
		{
			name:    "short secret in production",
			cfg:     Config{Port: "5000", SessionSecret: "short", Env: "prod", DBPassword: "s3cure-and-long"},
			wantErr: "at least 32 characters",
		},
		{
			name:    "weak db password in production",
			cfg:     Config{Port: "5000", SessionSecret: "0123456789abcdef0123456789abcdef", Env: "production", DBPassword: "password"},
			wantErr: "DB_PASSWORD",
		},
		{
			name:    "unknown schema mode",
			cfg:     Config{Port: "5000", SessionSecret: "x", DBSchemaMode: "yolo"},
			wantErr: "DB_SCHEMA_MODE",
		},
		{
			name: "valid production",
			cfg: Config{
				Port:          "5000",
				SessionSecret: "0123456789abcdef0123456789abcdef",
				Env:           "production",
				DBPassword:    "s3cure-and-long",
				CookieSecure:  true,
				DBSSLMode:     "require",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSessionTTL(t *testing.T) {
	assert.Equal(t, 168*time.Hour, (&Config{}).SessionTTL())
	assert.Equal(t, 2*time.Hour, (&Config{SessionTTLHours: 2}).SessionTTL())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9911")
	t.Setenv("SESSION_SECRET", "env-secret-env-secret-env-secret-1")

	cfg, err := LoadConfig()
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "9911", cfg.Port)
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "env-secret-env-secret-env-secret-1", cfg.SessionSecret)
	assert.Equal(t, "hybrid", cfg.DBSchemaMode)
	assert.False(t, cfg.IsProduction())
}
