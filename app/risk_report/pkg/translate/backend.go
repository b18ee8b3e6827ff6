package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/text/language/display"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/config"
)

const (
	temperature = 0.1
	maxTokens   = 500
)

// ErrEmptyResponse 模型返回了空译文
var ErrEmptyResponse = errors.New("empty translation response")

// ChatBackend 基于 eino ChatModel 的翻译后端
type ChatBackend struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
}

// NewChatBackend 使用已有的 ChatModel 创建后端，limiter 为 nil 时不限速
func NewChatBackend(cm model.BaseChatModel, limiter *rate.Limiter) *ChatBackend {
	return &ChatBackend{chatModel: cm, limiter: limiter}
}

// NewOpenAIBackend 按配置创建 OpenAI 兼容的翻译后端。
// 未配置 API Key 时返回 (nil, nil)，Cache 会把 nil 后端视为不翻译。
func NewOpenAIBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	if !cfg.LLM.Enabled() {
		return nil, nil
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.RequestTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return NewChatBackend(chatModel, NewLimiter(cfg.Concurrency)), nil
}

// NewLimiter 根据并发配置创建限流器。RPM 优先，未配置时按 QPS 限速。
func NewLimiter(c config.ConcurrencyConfig) *rate.Limiter {
	burst := c.QPS
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(c.QPS)
	if c.RPM > 0 {
		limit = rate.Limit(float64(c.RPM) / 60.0)
	}
	if limit <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(limit, burst)
}

// Translate 实现 Backend
func (b *ChatBackend) Translate(ctx context.Context, text string, target assessment.Language) (string, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt(target)),
		schema.UserMessage(text),
	}
	resp, err := b.chatModel.Generate(ctx, messages,
		model.WithTemperature(temperature),
		model.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("LLM 调用失败: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}
	out := strings.TrimSpace(resp.Content)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func systemPrompt(target assessment.Language) string {
	return fmt.Sprintf("You are a professional translator. Translate the following text to %s. "+
		"Only return the translation, no explanations. Preserve any numbers, dates, and special formatting.",
		languageName(target))
}

// languageName 目标语言的英文名称，例如 "Simplified Chinese"
func languageName(l assessment.Language) string {
	if name := display.English.Languages().Name(l.Tag()); name != "" {
		return name
	}
	return string(l)
}
