package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadClient_Defaults(t *testing.T) {
	cfg, err := loadClient(env.Options{Environment: map[string]string{
		"MT_URL": "http://x/send",
	}})
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://x/send", cfg.MTURL)
	assert.Equal(t, time.Second, cfg.ReplyDelay)
	assert.Equal(t, 30*time.Second, cfg.MTTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.MT)
}

func TestLoadClient_File(t *testing.T) {
	path := writeFile(t, `{"mt_url":"http://x/send","mt":{"apiKey":"K","price":1.5}}`)

	cfg, err := loadClient(env.Options{Environment: map[string]string{
		"SMS_CLIENT_CONFIG": path,
	}})
	require.NoError(t, err)

	assert.Equal(t, "http://x/send", cfg.MTURL)
	assert.Equal(t, map[string]any{"apiKey": "K", "price": 1.5}, cfg.MT)
}

func TestLoadClient_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, `{"mt_url":"http://file/send","mt":{"apiKey":"K","provider":"p1"}}`)

	cfg, err := loadClient(env.Options{Environment: map[string]string{
		"SMS_CLIENT_CONFIG": path,
		"MT_URL":            "https://env/send",
		"MT_DEFAULTS":       "provider:p2,shortId:1234",
		"MT_REPLY_DELAY":    "250ms",
	}})
	require.NoError(t, err)

	assert.Equal(t, "https://env/send", cfg.MTURL)
	assert.Equal(t, 250*time.Millisecond, cfg.ReplyDelay)
	assert.Equal(t, map[string]any{
		"apiKey":   "K",
		"provider": "p2",
		"shortId":  "1234",
	}, cfg.MT)
}

func TestLoadClient_Errors(t *testing.T) {
	t.Run("missing mt_url", func(t *testing.T) {
		_, err := loadClient(env.Options{Environment: map[string]string{}})
		assert.ErrorIs(t, err, ErrMissingMTURL)
	})

	t.Run("relative mt_url", func(t *testing.T) {
		_, err := loadClient(env.Options{Environment: map[string]string{"MT_URL": "/send"}})
		assert.ErrorIs(t, err, ErrInvalidMTURL)
	})

	t.Run("bad scheme", func(t *testing.T) {
		_, err := loadClient(env.Options{Environment: map[string]string{"MT_URL": "ftp://x/send"}})
		assert.ErrorIs(t, err, ErrInvalidMTURL)
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := loadClient(env.Options{Environment: map[string]string{
			"MT_URL":    "http://x/send",
			"LOG_LEVEL": "chatty",
		}})
		assert.ErrorIs(t, err, ErrInvalidLogLevel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadClient(env.Options{Environment: map[string]string{
			"SMS_CLIENT_CONFIG": filepath.Join(t.TempDir(), "nope.json"),
		}})
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := loadClient(env.Options{Environment: map[string]string{
			"SMS_CLIENT_CONFIG": writeFile(t, `{"mt_url":`),
		}})
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := loadClient(env.Options{Environment: map[string]string{
			"MT_URL":         "http://x/send",
			"MT_REPLY_DELAY": "soon",
		}})
		assert.Error(t, err)
	})
}

func TestLoadGateway(t *testing.T) {
	cfg, err := loadGateway(env.Options{Environment: map[string]string{
		"DLR_DELAY":  "10ms",
		"LOG_FORMAT": "json",
	}})
	require.NoError(t, err)

	assert.Equal(t, "9200", cfg.Port)
	assert.Equal(t, 10*time.Millisecond, cfg.DLRDelay)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.StaticDir)

	_, err = loadGateway(env.Options{Environment: map[string]string{"LOG_LEVEL": "nope"}})
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
