package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ehco1996/myftp/internal/codec"
	"github.com/Ehco1996/myftp/internal/constant"
)

const testCfg = `{"mode":"server","address":"127.0.0.1:9000","framing":"length","web_port":9900,"rate_limit":10}`

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(testCfg), 0o644))

	cfg := NewConfig(path)
	require.NoError(t, cfg.LoadConfig())
	require.NoError(t, cfg.Adjust())
	assert.True(t, cfg.IsServer())
	assert.Equal(t, "127.0.0.1:9000", cfg.Address)
	assert.Equal(t, codec.FramingLength, cfg.GetFraming())
	assert.True(t, cfg.NeedStartWebServer())
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, constant.LogLevelInfo, cfg.LogLeveL)
	assert.Equal(t, constant.DefaultClientBind, cfg.ClientBind)
}

func TestLoadConfigFromHttp(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"mode":"client","address":"127.0.0.1:9000"}`))
	}))
	defer ts.Close()

	cfg := NewConfig(ts.URL)
	require.True(t, cfg.NeedLoadFromHttp())
	require.NoError(t, cfg.LoadConfig())
	assert.True(t, cfg.IsClient())
	assert.Equal(t, codec.FramingTrim, cfg.GetFraming())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := NewConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, cfg.LoadConfig())
}

func TestLoadConfigWithoutAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"framing":"length"}`), 0o644))

	cfg := NewConfig(path)
	require.NoError(t, cfg.LoadConfig())
	assert.Error(t, cfg.Adjust())

	cfg.Override(&Config{Mode: "client", Address: "127.0.0.1:9000"})
	require.NoError(t, cfg.Adjust())
	assert.Equal(t, codec.FramingLength, cfg.GetFraming())
}

func TestOverride(t *testing.T) {
	cfg := &Config{Mode: "server", Address: "0.0.0.0:1", WebPort: 1}
	cfg.Override(&Config{Address: "127.0.0.1:2", Framing: "length"})
	assert.Equal(t, "server", cfg.Mode)
	assert.Equal(t, "127.0.0.1:2", cfg.Address)
	assert.Equal(t, "length", cfg.Framing)
	assert.Equal(t, 1, cfg.WebPort)
}

func TestValidate(t *testing.T) {
	cases := map[string]*Config{
		"empty address": {Framing: "trim"},
		"bad framing":   {Address: "127.0.0.1:1", Framing: "prefix"},
		"bad web port":  {Address: "127.0.0.1:1", Framing: "trim", WebPort: 70000},
		"bad limit":     {Address: "127.0.0.1:1", Framing: "trim", RateLimit: -1},
	}
	for name, cfg := range cases {
		assert.Error(t, cfg.Validate(), name)
	}
	assert.NoError(t, (&Config{Address: "127.0.0.1:1"}).Adjust())
}
