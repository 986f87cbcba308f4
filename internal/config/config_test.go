package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvDB, "")
	t.Setenv(EnvPassword, "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Empty(t, cfg.DBPath)
	assert.Empty(t, cfg.Password)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://learn.example.com/")
	t.Setenv(EnvDB, "/tmp/lp.db")
	t.Setenv(EnvPassword, "pw")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://learn.example.com", cfg.APIURL)
	assert.Equal(t, "/tmp/lp.db", cfg.DBPath)
	assert.Equal(t, "pw", cfg.Password)
}

func TestFromEnvRejectsInvalidURL(t *testing.T) {
	t.Setenv(EnvAPIURL, "localhost:5000")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestValidateAPIURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:5000", "http://localhost:5000", false},
		{"https://api.example.com/base/", "https://api.example.com/base", false},
		{"ftp://example.com", "", true},
		{"/relative/path", "", true},
		{"http://", "", true},
		{"http://example.com/?q=1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateAPIURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithAPIURL(t *testing.T) {
	cfg := Config{APIURL: DefaultAPIURL}

	same, err := cfg.WithAPIURL("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, same.APIURL)

	_, err = cfg.WithAPIURL("not a url")
	assert.Error(t, err)
}

func TestDBPathFlagOverridesEnv(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/env.db")
	t.Setenv(EnvAPIURL, "not a url")

	cfg := Load()
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "/tmp/env.db", cfg.WithDBPath("").DBPath)
	assert.Equal(t, "/tmp/flag.db", cfg.WithDBPath("/tmp/flag.db").DBPath)
}
