package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"notesai/notesai/config"
	"notesai/notesai/utils/notecontent"
)

const (
	summarySystemPrompt = "You are an AI assistant that summarizes text. Provide a concise summary in 2-3 sentences."
	summaryUserPrompt   = "Summarize the following text:\n\n"

	summaryTemperature = 0.5
	summaryMaxTokens   = 200

	// EmptyCompletionSummary is returned when the model answers with no text.
	EmptyCompletionSummary = "Failed to generate summary"
)

var (
	// Whitespace as understood by JavaScript's \s, which the stored word
	// counts were produced with.
	wordSeparator     = regexp.MustCompile(`[\s\v\x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+`)
	sentenceSeparator = regexp.MustCompile(`[.!?]`)
)

// Summarizer produces a short summary of a note text. It never fails; a
// degraded summary is returned instead.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

type SummaryServiceInterface interface {
	Summarizer
	Generate(ctx context.Context, text string) (string, error)
	Enabled() bool
}

type SummaryService struct {
	client *openai.Client
	model  string
}

// NewSummaryService builds the summarizer. Without an API key every call
// uses the local fallback.
func NewSummaryService(cfg config.Config) *SummaryService {
	s := &SummaryService{model: cfg.LLMModel}
	if cfg.LLMAPIKey == "" {
		log.Println("No LLM API key configured, summaries use the local fallback")
		return s
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.LLMAPIKey),
		option.WithBaseURL(cfg.LLMBaseURL),
		option.WithMaxRetries(0),
	)
	s.client = &client
	return s
}

func (s *SummaryService) Enabled() bool {
	return s.client != nil
}

// Generate asks the model for a summary of text.
func (s *SummaryService) Generate(ctx context.Context, text string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("summarization client is not configured")
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(summaryUserPrompt + notecontent.PlainText(text)),
		},
		Model:       openai.ChatModel(s.model),
		Temperature: openai.Float(summaryTemperature),
		MaxTokens:   openai.Int(summaryMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return EmptyCompletionSummary, nil
	}
	return completion.Choices[0].Message.Content, nil
}

func (s *SummaryService) Summarize(ctx context.Context, text string) string {
	if s.client == nil {
		return MockSummarize(text)
	}

	summary, err := s.Generate(ctx, text)
	if err != nil {
		log.Printf("Summarization failed, using fallback summary: %v", err)
		return MockSummarize(text)
	}
	return summary
}

// MockSummarize builds the deterministic fallback summary: the word count,
// the first sentence and a fixed closing line.
func MockSummarize(text string) string {
	wordCount := len(wordSeparator.Split(text, -1))

	firstSentence := ""
	for _, part := range sentenceSeparator.Split(text, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			firstSentence = trimmed
			break
		}
	}

	return fmt.Sprintf("This note contains %d words. %s. The note covers key information that has been condensed in this summary.",
		wordCount, firstSentence)
}

var SummaryServiceInstance SummaryServiceInterface
