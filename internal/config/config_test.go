package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "API_KEY", "FASTAPI_KEY", "BOT_TOKEN", "LLM_PROVIDER", "LLM_ENDPOINT",
	"LLM_TIMEOUT", "YA_API_KEY", "YA_FOLDER_ID", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"OPENAI_MODEL", "FAQ_SOURCE", "DATABASE_URL", "S3_ENDPOINT", "S3_ACCESS_KEY",
	"S3_SECRET_KEY", "S3_BUCKET", "S3_REGION", "ADMIN_CHAT_IDS", "LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeProject(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.json"), []byte(body), 0o600))
	return dir
}

type fakeSecrets map[string]string

func (f fakeSecrets) Secret(_ context.Context, path, key string) (string, error) {
	v, ok := f[path+"/"+key]
	if !ok {
		return "", errors.New("no such secret")
	}
	return v, nil
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(context.Background(), Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, ProviderYandex, cfg.LLMProvider)
	assert.Equal(t, "embedded", cfg.FAQSource)
	assert.Zero(t, cfg.LLMTimeout)
	assert.Empty(t, cfg.AdminChatIDs)
}

func TestLoad_ProjectFileWithSecrets(t *testing.T) {
	clearEnv(t)
	dir := writeProject(t, `{
		"fastapi_key": "VAULT:kpd/api:key",
		"ya_folder_id": "b1g-folder",
		"ya_api_key": "VAULT:kpd/yandex:api_key",
		"bot_token": "plain-token",
		"admin_chat_ids": [1139929360, 42],
		"s3": {"bucket": "faq", "secret_key": "VAULT:kpd/s3:secret"}
	}`)

	cfg, err := Load(context.Background(), Options{
		ConfigDir: dir,
		EnvFile:   filepath.Join(dir, ".env"),
		Secrets: fakeSecrets{
			"kpd/api/key":        "api-secret",
			"kpd/yandex/api_key": "ya-secret",
			"kpd/s3/secret":      "s3-secret",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "api-secret", cfg.APIKey)
	assert.Equal(t, "ya-secret", cfg.YaAPIKey)
	assert.Equal(t, "b1g-folder", cfg.YaFolderID)
	assert.Equal(t, "plain-token", cfg.BotToken)
	assert.Equal(t, "faq", cfg.S3.Bucket)
	assert.Equal(t, "s3-secret", cfg.S3.SecretKey)
	assert.Equal(t, []int64{1139929360, 42}, cfg.AdminChatIDs)
	assert.NoError(t, cfg.RequireAPI())
	assert.NoError(t, cfg.RequireBot())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := writeProject(t, `{"port": "9000", "llm_provider": "yandex", "llm_timeout": "5s", "log_file": "/var/log/kpd.log"}`)

	t.Setenv("PORT", "9100")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("ADMIN_CHAT_IDS", "1, 2")

	cfg, err := Load(context.Background(), Options{ConfigDir: dir, EnvFile: filepath.Join(dir, ".env")})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []int64{1, 2}, cfg.AdminChatIDs)
	assert.Equal(t, "/var/log/kpd.log", cfg.LogFile)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("YA_FOLDER_ID=from-dotenv\n"), 0o600))
	// godotenv не перезаписывает уже заданные переменные, даже пустые
	require.NoError(t, os.Unsetenv("YA_FOLDER_ID"))

	cfg, err := Load(context.Background(), Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.YaFolderID)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)

	t.Setenv("ADMIN_CHAT_IDS", "1,abc")
	_, err := Load(context.Background(), Options{EnvFile: filepath.Join(t.TempDir(), "x.env")})
	assert.Error(t, err)

	t.Setenv("ADMIN_CHAT_IDS", "")
	t.Setenv("LLM_TIMEOUT", "soon")
	_, err = Load(context.Background(), Options{EnvFile: filepath.Join(t.TempDir(), "x.env")})
	assert.Error(t, err)

	t.Setenv("LLM_TIMEOUT", "-1m")
	_, err = Load(context.Background(), Options{EnvFile: filepath.Join(t.TempDir(), "x.env")})
	assert.Error(t, err)
}

func TestLoad_IncompleteVaultBlockSkipsSubstitution(t *testing.T) {
	clearEnv(t)
	dir := writeProject(t, `{
		"vault": {"connect_string": "http://127.0.0.1:1", "mount_point": "kv"},
		"bot_token": "VAULT:kpd:token"
	}`)

	cfg, err := Load(context.Background(), Options{ConfigDir: dir, EnvFile: filepath.Join(dir, ".env")})
	require.NoError(t, err)
	assert.Equal(t, "VAULT:kpd:token", cfg.BotToken)
}

func TestFromTree_NumericChatIDs(t *testing.T) {
	clearEnv(t)

	cfg, err := fromTree(map[string]any{
		"admin_chat_ids": []any{1139929360.0, -1001234567890.0, "42"},
		"port":           8002.0,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1139929360, -1001234567890, 42}, cfg.AdminChatIDs)
	assert.Equal(t, "8002", cfg.Port)
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		api     bool
		wantErr bool
	}{
		{"api without key", Config{LLMProvider: ProviderYandex, YaAPIKey: "k", YaFolderID: "f"}, true, true},
		{"api ok", Config{APIKey: "a", LLMProvider: ProviderYandex, YaAPIKey: "k", YaFolderID: "f"}, true, false},
		{"bot without token", Config{LLMProvider: ProviderYandex, YaAPIKey: "k", YaFolderID: "f"}, false, true},
		{"yandex without folder", Config{BotToken: "t", LLMProvider: ProviderYandex, YaAPIKey: "k"}, false, true},
		{"openai ok", Config{BotToken: "t", LLMProvider: ProviderOpenAI, OpenAIAPIKey: "o"}, false, false},
		{"openai without key", Config{APIKey: "a", LLMProvider: ProviderOpenAI}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.api {
				err = tt.cfg.RequireAPI()
			} else {
				err = tt.cfg.RequireBot()
			}
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissing)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	err := (&Config{APIKey: "a", LLMProvider: "gigachat"}).RequireAPI()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissing)
}
