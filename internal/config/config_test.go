package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the test and removes whatever the test set later.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
		k := key
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "LOGO_API_BASE_URL", "LOGO_API_TIMEOUT", "LOGO_LOG_LEVEL", "LOGO_GATEWAY_ADDR", "LOGO_MIRROR_PAGE_SIZE", "LOGO_API_STRICT_FIELDS")
	dir := t.TempDir()

	cfg, err := Load(LoadOptions{
		ConfigFile: "",
		EnvFiles:   []string{filepath.Join(dir, "missing.env")},
	})
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Gateway.Addr)
	assert.Equal(t, 100, cfg.Mirror.PageSize)
	assert.Empty(t, cfg.API.BaseURL)
	assert.False(t, cfg.API.StrictFields)
}

func TestLoad_StrictFieldsFromEnv(t *testing.T) {
	t.Setenv("LOGO_API_STRICT_FIELDS", "true")

	cfg, err := Load(LoadOptions{ConfigFile: "", EnvFiles: []string{filepath.Join(t.TempDir(), ".env")}})
	require.NoError(t, err)
	assert.True(t, cfg.API.StrictFields)
}

func TestLoad_Layers(t *testing.T) {
	unsetEnv(t,
		"LOGO_API_BASE_URL", "LOGO_API_USERNAME", "LOGO_API_FIRM_NO",
		"LOGO_API_TIMEOUT", "LOGO_LOG_LEVEL", "LOGO_GATEWAY_ADDR",
	)
	dir := t.TempDir()

	configFile := writeFile(t, dir, "logoobjects.yaml", `
api:
  base_url: http://yaml.example/api/v1
  username: yaml-user
  firm_no: "1"
  timeout: 10s
log:
  level: debug
gateway:
  addr: ":9000"
`)
	envFile := writeFile(t, dir, ".env", "LOGO_API_FIRM_NO=7\nLOGO_GATEWAY_ADDR=:9100\n")
	t.Setenv("LOGO_GATEWAY_ADDR", ":9200")

	cfg, err := Load(LoadOptions{ConfigFile: configFile, EnvFiles: []string{envFile}})
	require.NoError(t, err)

	assert.Equal(t, "http://yaml.example/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "yaml-user", cfg.API.Username)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	// .env overrides the file, process env overrides .env.
	assert.Equal(t, "7", cfg.API.FirmNo)
	assert.Equal(t, ":9200", cfg.Gateway.Addr)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	configFile := writeFile(t, dir, "logoobjects.yaml", "api: [unclosed\n")

	_, err := Load(LoadOptions{ConfigFile: configFile, EnvFiles: []string{filepath.Join(dir, "none.env")}})
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "anonymous", cfg: Config{API: APIConfig{BaseURL: "http://x"}}},
		{name: "with credentials", cfg: Config{API: APIConfig{BaseURL: "http://x", Username: "u", FirmNo: "1"}}},
		{name: "missing base url", cfg: Config{}, wantErr: "LOGO_API_BASE_URL"},
		{name: "missing firm", cfg: Config{API: APIConfig{BaseURL: "http://x", Username: "u"}}, wantErr: "LOGO_API_FIRM_NO"},
		{
			name:    "negative page size",
			cfg:     Config{API: APIConfig{BaseURL: "http://x"}, Mirror: MirrorConfig{PageSize: -1}},
			wantErr: "page size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_LogoAPI(t *testing.T) {
	cfg := Config{API: APIConfig{
		BaseURL:      "http://logo/api/v1",
		Username:     "LOGO",
		Password:     "secret",
		FirmNo:       "1",
		ClientID:     "id",
		ClientSecret: "cs",
	}}

	api := cfg.LogoAPI()
	assert.Equal(t, "http://logo/api/v1", api.BaseURL)
	assert.Equal(t, "LOGO", api.Username)
	assert.Equal(t, "1", api.FirmNo)
	assert.Equal(t, "cs", api.ClientSecret)
	assert.Equal(t, 30*time.Second, api.Timeout, "zero timeout keeps the transport default")
	require.NoError(t, api.Validate())

	cfg.API.Timeout = 5 * time.Second
	assert.Equal(t, 5*time.Second, cfg.LogoAPI().Timeout)
}
