package main

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

const summarySystemPrompt = "You are an assistant for an engineering manager. " +
	"You receive a project completion report that matches Jira tickets against " +
	"git commit activity. Write a short narrative summary for a status channel: " +
	"overall progress, who is on track, who looks blocked, and anything surprising. " +
	"At most five sentences. Plain text, no markdown headers."

type LLMUsage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u LLMUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

// SummarizeReport asks Claude for a narrative summary of a rendered
// completion report. Callers should fall back to posting the plain
// report when this fails.
func SummarizeReport(cfg Config, reportText string) (string, LLMUsage, error) {
	model := cfg.LLMModel
	if model == "" {
		model = defaultAnthropicModel
	}
	prompt := buildSummaryPrompt(reportText)
	log.Printf("llm summarize model=%s report_chars=%d", model, len(reportText))
	return callAnthropic(cfg.AnthropicAPIKey, model, summarySystemPrompt, prompt)
}

func buildSummaryPrompt(reportText string) string {
	return "Summarize this report:\n\n" + reportText
}

func callAnthropic(apiKey, model, systemPrompt, userPrompt string) (string, LLMUsage, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", LLMUsage{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := LLMUsage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm anthropic response size=%d tokens_in=%d tokens_out=%d", len(block.Text), usage.InputTokens, usage.OutputTokens)
			return block.Text, usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}
