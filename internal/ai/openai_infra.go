package ai

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
	log    *logger.ZapLogger
}

func NewOpenAIClient(cfg *config.Config, log *logger.ZapLogger) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		oc.BaseURL = cfg.OpenAIBaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.LLMTimeout}

	model := cfg.OpenAIModel
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		log:    log,
	}
}

func (c *OpenAIClient) Match(ctx context.Context, prompt string) Match {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "[openai] completion failed, answering as no match",
			Service: "ai",
			Error:   err,
		})
		return NoMatch()
	}
	return parseReply(text)
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		// ноль вырезается omitempty, поэтому минимальное ненулевое значение
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
