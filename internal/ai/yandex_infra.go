package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/config"
)

const DefaultYandexEndpoint = "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"

const maxTokens = 1000

type YandexClient struct {
	apiKey   string
	modelURI string
	endpoint string
	client   *http.Client
	log      *logger.ZapLogger
}

func NewYandexClient(cfg *config.Config, log *logger.ZapLogger) *YandexClient {
	endpoint := cfg.LLMEndpoint
	if endpoint == "" {
		endpoint = DefaultYandexEndpoint
	}

	return &YandexClient{
		apiKey:   cfg.YaAPIKey,
		modelURI: fmt.Sprintf("gpt://%s/yandexgpt", cfg.YaFolderID),
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.LLMTimeout},
		log:      log,
	}
}

type yandexRequest struct {
	ModelURI          string          `json:"modelUri"`
	CompletionOptions yandexOptions   `json:"completionOptions"`
	Messages          []yandexMessage `json:"messages"`
}

type yandexOptions struct {
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

type yandexMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type yandexResponse struct {
	Result *struct {
		Alternatives []struct {
			Message *struct {
				Text *string `json:"text"`
			} `json:"message"`
		} `json:"alternatives"`
	} `json:"result"`
}

func (c *YandexClient) Match(ctx context.Context, prompt string) Match {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "[yandexgpt] completion failed, answering as no match",
			Service: "ai",
			Error:   err,
		})
		return NoMatch()
	}
	return parseReply(text)
}

func (c *YandexClient) complete(ctx context.Context, prompt string) (string, error) {
	b, err := json.Marshal(yandexRequest{
		ModelURI: c.modelURI,
		CompletionOptions: yandexOptions{
			Stream:      false,
			Temperature: 0,
			MaxTokens:   maxTokens,
		},
		Messages: []yandexMessage{{Role: "user", Text: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("yandexgpt request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("yandexgpt status: %s", resp.Status)
	}

	var out yandexResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode yandexgpt: %w", err)
	}

	if out.Result == nil ||
		len(out.Result.Alternatives) == 0 ||
		out.Result.Alternatives[0].Message == nil ||
		out.Result.Alternatives[0].Message.Text == nil {
		return "", errors.New("yandexgpt: no alternatives in response")
	}

	return *out.Result.Alternatives[0].Message.Text, nil
}
