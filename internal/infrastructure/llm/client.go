package llm

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/config"
	"github.com/landuse-microservice/internal/domain/repository"
)

const systemPrompt = "You are a land-use analyst. Extract the general zoning " +
	"rules from the following municipal planning document excerpt. Summarize " +
	"permitted uses, density limits and building restrictions per zone class. " +
	"Answer in plain text, one rule per line."

type client struct {
	client    sdk.Client
	model     string
	maxTokens int64
	logger    *zap.Logger
}

// NewExtractor creates the LLM collaborator that derives general zoning
// rules from municipal planning documents.
func NewExtractor(cfg *config.LLMConfig, logger *zap.Logger) repository.RulesExtractor {
	return &client{
		client:    sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		logger:    logger,
	}
}

// ExtractRules runs one extraction over the document text. The result is
// deterministic enough for last-write-wins caching: temperature is 0.
func (c *client) ExtractRules(ctx context.Context, documentText string) (string, error) {
	if strings.TrimSpace(documentText) == "" {
		return "", fmt.Errorf("empty planning document")
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: sdk.Float(0),
		System:      []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(documentText)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm extraction failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	rules := strings.TrimSpace(sb.String())
	if rules == "" {
		return "", fmt.Errorf("llm returned no text content")
	}

	c.logger.Debug("Zoning rules extracted",
		zap.Int("document_chars", len(documentText)),
		zap.Int("rules_chars", len(rules)))
	return rules, nil
}
