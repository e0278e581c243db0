package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissing = errors.New("config value is missing")

const (
	ProviderYandex = "yandex"
	ProviderOpenAI = "openai"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// Config собирается один раз при старте и передаётся во все компоненты.
type Config struct {
	Port   string
	APIKey string

	BotToken     string
	AdminChatIDs []int64

	LLMProvider string
	LLMEndpoint string
	LLMTimeout  time.Duration
	YaAPIKey    string
	YaFolderID  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	FAQSource   string
	DatabaseURL string
	S3          S3Config

	// LogFile — путь для ротируемого лога; пусто — только stderr.
	LogFile string
}

type Options struct {
	// ConfigDir — каталог с project.json; файл не обязателен.
	ConfigDir string
	EnvFile   string

	// Secrets подменяет Vault (используется в тестах).
	Secrets SecretSource
}

func Load(ctx context.Context, opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	tree, err := readProjectFile(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	src := opts.Secrets
	if src == nil {
		if vs, ok := vaultSettingsFrom(tree); ok {
			src, err = NewVaultSource(ctx, vs)
			if err != nil {
				return nil, fmt.Errorf("vault: %w", err)
			}
		}
	}
	if src != nil {
		if err := Resolve(ctx, tree, src); err != nil {
			return nil, err
		}
	}

	return fromTree(tree)
}

func readProjectFile(dir string) (map[string]any, error) {
	tree := map[string]any{}
	if dir == "" {
		return tree, nil
	}

	path := filepath.Join(dir, "project.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return tree, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tree, nil
}

func fromTree(tree map[string]any) (*Config, error) {
	cfg := &Config{
		Port:   value(tree, "PORT", "port"),
		APIKey: firstNonEmpty(value(tree, "API_KEY", "api_key"), value(tree, "FASTAPI_KEY", "fastapi_key")),

		BotToken: value(tree, "BOT_TOKEN", "bot_token"),

		LLMProvider: strings.ToLower(value(tree, "LLM_PROVIDER", "llm_provider")),
		LLMEndpoint: value(tree, "LLM_ENDPOINT", "llm_endpoint"),
		YaAPIKey:    value(tree, "YA_API_KEY", "ya_api_key"),
		YaFolderID:  value(tree, "YA_FOLDER_ID", "ya_folder_id"),

		OpenAIAPIKey:  value(tree, "OPENAI_API_KEY", "openai_api_key"),
		OpenAIBaseURL: value(tree, "OPENAI_BASE_URL", "openai_base_url"),
		OpenAIModel:   value(tree, "OPENAI_MODEL", "openai_model"),

		FAQSource:   value(tree, "FAQ_SOURCE", "faq_source"),
		DatabaseURL: value(tree, "DATABASE_URL", "database_url"),
		LogFile:     value(tree, "LOG_FILE", "log_file"),
		S3: S3Config{
			Endpoint:  value(tree, "S3_ENDPOINT", "s3", "endpoint"),
			AccessKey: value(tree, "S3_ACCESS_KEY", "s3", "access_key"),
			SecretKey: value(tree, "S3_SECRET_KEY", "s3", "secret_key"),
			Bucket:    value(tree, "S3_BUCKET", "s3", "bucket"),
			Region:    value(tree, "S3_REGION", "s3", "region"),
		},
	}

	if cfg.Port == "" {
		cfg.Port = "8001"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderYandex
	}
	if cfg.FAQSource == "" {
		cfg.FAQSource = "embedded"
	}

	var err error
	if cfg.LLMTimeout, err = duration(tree, "LLM_TIMEOUT", "llm_timeout"); err != nil {
		return nil, err
	}

	ids, err := parseChatIDs(value(tree, "ADMIN_CHAT_IDS", "admin_chat_ids"))
	if err != nil {
		return nil, err
	}
	cfg.AdminChatIDs = ids

	return cfg, nil
}

// RequireAPI проверяет ключи, без которых HTTP API не стартует.
func (c *Config) RequireAPI() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key: %w", ErrMissing)
	}
	return c.requireLLM()
}

func (c *Config) RequireBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("bot_token: %w", ErrMissing)
	}
	return c.requireLLM()
}

func (c *Config) requireLLM() error {
	switch c.LLMProvider {
	case ProviderYandex:
		if c.YaAPIKey == "" {
			return fmt.Errorf("ya_api_key: %w", ErrMissing)
		}
		if c.YaFolderID == "" {
			return fmt.Errorf("ya_folder_id: %w", ErrMissing)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("openai_api_key: %w", ErrMissing)
		}
	default:
		return fmt.Errorf("unknown llm_provider %q", c.LLMProvider)
	}
	return nil
}

// value: переменная окружения важнее project.json.
func value(tree map[string]any, env string, path ...string) string {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}

	var node any = tree
	for _, key := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return ""
		}
		node = m[key]
	}

	if items, ok := node.([]any); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, scalar(item))
		}
		return strings.Join(parts, ",")
	}
	return scalar(node)
}

// scalar: числа из JSON приходят как float64, chat id не должен уйти в экспоненту.
func scalar(node any) string {
	switch v := node.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func duration(tree map[string]any, env, key string) (time.Duration, error) {
	raw := value(tree, env, key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s %q: negative duration", key, raw)
	}
	return d, nil
}

func parseChatIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	var out []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("admin_chat_ids: invalid id %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
