package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"learnly"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:3000", c.BackendURL)
	assert.Equal(t, "http://localhost:5173", c.FrontendURL)
	assert.Equal(t, "Learnly", c.AppName)
	assert.Equal(t, 3*time.Hour, c.RenewalInterval)
	assert.Equal(t, 3*time.Second, c.PostSuccessDelay)
	assert.NotEmpty(t, c.DataDir)
	require.NoError(t, c.Validate())
	assert.False(t, c.GoogleEnabled())
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"backend_url":      "https://api.example",
		"renewal_interval": "50s",
		"google_client_id": "cid",
	})

	t.Run("loads from -config", func(t *testing.T) {
		withArgs(t, "-config", path)
		c := defaults()
		parseJson(c)

		assert.Equal(t, "https://api.example", c.BackendURL)
		assert.Equal(t, 50*time.Second, c.RenewalInterval)
		assert.Equal(t, "cid", c.GoogleClientID)
		assert.Equal(t, "http://localhost:5173", c.FrontendURL, "absent keys keep their value")
	})

	t.Run("no file leaves defaults", func(t *testing.T) {
		withArgs(t)
		c := defaults()
		parseJson(c)
		assert.Empty(t, cmp.Diff(defaults(), c))
	})

	t.Run("missing file panics", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "nope.json"))
		assert.Panics(t, func() { parseJson(defaults()) })
	})

	t.Run("bad json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		withArgs(t, "-c", bad)
		assert.Panics(t, func() { parseJson(defaults()) })
	})
}

func TestParseEnv(t *testing.T) {
	env := map[string]string{
		"LEARNLY_BACKEND_URL":        "https://env.example",
		"LEARNLY_APP_NAME":           "Learnly Dev",
		"LEARNLY_POST_SUCCESS_DELAY": "1s",
	}
	c := defaults()
	parseEnv(c, func(k string) string { return env[k] })

	assert.Equal(t, "https://env.example", c.BackendURL)
	assert.Equal(t, "Learnly Dev", c.AppName)
	assert.Equal(t, time.Second, c.PostSuccessDelay)
	assert.Equal(t, 3*time.Hour, c.RenewalInterval)

	env["LEARNLY_REQUEST_TIMEOUT"] = "soon"
	assert.Panics(t, func() { parseEnv(defaults(), func(k string) string { return env[k] }) })
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectPanic bool
		check       func(t *testing.T, c *Config)
	}{
		{
			name: "all flags",
			args: []string{"-b", "https://api.example", "-f", "https://app.example", "-r", "50", "-d", "/tmp/learnly", "-l", "debug"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "https://api.example", c.BackendURL)
				assert.Equal(t, "https://app.example", c.FrontendURL)
				assert.Equal(t, 50*time.Second, c.RenewalInterval)
				assert.Equal(t, "/tmp/learnly", c.DataDir)
				assert.Equal(t, "debug", c.LogLevel)
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"-c", "cfg.json", "-x", "-b=https://api.example"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "https://api.example", c.BackendURL)
				assert.Equal(t, 3*time.Hour, c.RenewalInterval)
			},
		},
		{name: "bad renewal", args: []string{"-r", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			c := defaults()
			if tt.expectPanic {
				assert.Panics(t, func() { parseFlags(c) })
				return
			}
			require.NotPanics(t, func() { parseFlags(c) })
			tt.check(t, c)
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"backend_url": "https://json.example", "app_name": "FromJSON"})
	t.Setenv("LEARNLY_BACKEND_URL", "https://env.example")
	t.Setenv("LEARNLY_APP_NAME", "FromEnv")
	withArgs(t, "-c", path, "-b", "https://flag.example")

	c := LoadConfig()
	assert.Equal(t, "https://flag.example", c.BackendURL)
	assert.Equal(t, "FromEnv", c.AppName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"missing backend", func(c *Config) { c.BackendURL = "" }, "BackendURL"},
		{"relative backend", func(c *Config) { c.BackendURL = "localhost" }, "BackendURL"},
		{"missing frontend", func(c *Config) { c.FrontendURL = "" }, "FrontendURL"},
		{"missing app name", func(c *Config) { c.AppName = "" }, "AppName"},
		{"secret without id is fine", func(c *Config) { c.GoogleClientSecret = "s" }, ""},
		{"id without secret", func(c *Config) { c.GoogleClientID = "cid" }, "GoogleClientSecret"},
		{"zero renewal", func(c *Config) { c.RenewalInterval = 0 }, "RenewalInterval"},
		{"sub-second renewal", func(c *Config) { c.RenewalInterval = time.Millisecond }, "RenewalInterval"},
		{"negative delay", func(c *Config) { c.PostSuccessDelay = -time.Second }, "PostSuccessDelay"},
		{"zero delay is fine", func(c *Config) { c.PostSuccessDelay = 0 }, ""},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs, tt.field)
		})
	}
}
