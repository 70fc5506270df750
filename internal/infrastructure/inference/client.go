// Package inference wraps langchaingo's OpenAI-compatible chat client for
// conversational replies and periodic lead signal inference.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

var (
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("missing inference API key")

	// ErrNoCompletion indicates the model returned no usable choices.
	ErrNoCompletion = errors.New("model returned no completion")
)

// Signals is the structured outcome of one inference pass over a
// conversation transcript. All fields are optional; absent fields
// leave the stored lead untouched.
type Signals struct {
	ImpliedInterests  []string `json:"implied_interests"`
	PainPoints        []string `json:"pain_points"`
	Industry          string   `json:"industry"`
	CompanySize       string   `json:"company_size"`
	BuyingSignals     []string `json:"buying_signals"`
	LeadQualification string   `json:"lead_qualification"`
}

// Config holds the connection settings for the chat model.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// ConfigFromEnv builds a Config from the application configuration.
func ConfigFromEnv(apiKey string) Config {
	return Config{
		BaseURL: config.InferenceBaseURL,
		Model:   config.InferenceModel,
		APIKey:  apiKey,
		Timeout: config.InferenceTimeout,
	}
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	llm    llms.Model
	config Config
	logger *logging.ChanneledLogger
}

// NewClient creates a chat client against the configured endpoint.
func NewClient(cfg Config, logger *logging.ChanneledLogger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []openai.Option{
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating chat client: %w", err)
	}

	return &Client{
		llm:    llm,
		config: cfg,
		logger: logger,
	}, nil
}

const assistantPersona = `You are Lia, a friendly and professional sales assistant.
Your goals during the conversation:
1. Answer the visitor's questions about products and services helpfully.
2. Naturally learn who they are: name, email, phone, company, what they
   are interested in, and their budget. Never interrogate; ask at most
   one qualifying question per reply.
3. Mirror the visitor's language (English, Spanish, or Chinese).
Keep replies short, warm, and concrete.`

// Fallback replies when the model is unreachable, keyed by locale.
var fallbackReplies = map[domain.Locale]string{
	domain.LocaleEnglish: "Thanks for your message! One of our team members will get back to you shortly. Could you share your email so we can follow up?",
	domain.LocaleSpanish: "¡Gracias por tu mensaje! Un miembro de nuestro equipo te responderá en breve. ¿Podrías compartir tu correo para darte seguimiento?",
	domain.LocaleChinese: "感谢您的留言！我们的团队会尽快回复您。方便留下您的邮箱以便跟进吗？",
}

// FallbackReply returns the canned reply for a locale.
func FallbackReply(locale domain.Locale) string {
	if reply, ok := fallbackReplies[locale]; ok {
		return reply
	}
	return fallbackReplies[domain.LocaleEnglish]
}

// Converse generates the assistant's next reply given the conversation so
// far. history must be ordered oldest first and already include the
// latest user message.
func (c *Client) Converse(ctx context.Context, history []domain.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	content := make([]llms.MessageContent, 0, len(history)+1)
	content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, assistantPersona))
	for _, msg := range history {
		role := schema.ChatMessageTypeHuman
		if msg.Role == domain.RoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(config.ChatMaxTokens),
		llms.WithTemperature(config.ChatTemperature),
	)
	if err != nil {
		c.logger.Inference().Warn("Chat completion failed",
			"error", err.Error(),
			"duration", time.Since(start))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrNoCompletion
	}

	c.logger.Inference().Debug("Chat completion ok",
		"turns", len(history),
		"duration", time.Since(start))
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

const signalInstructions = `Analyze the sales conversation transcript below and extract
qualification signals about the visitor. Respond with ONLY a JSON object
using exactly these keys (use empty strings or empty arrays when unknown):
{
  "implied_interests": [],
  "pain_points": [],
  "industry": "",
  "company_size": "",
  "buying_signals": [],
  "lead_qualification": ""
}
lead_qualification must be one of "hot", "warm", or "cold".`

// InferSignals runs one analysis pass over the transcript and returns the
// parsed signals. The caller decides whether and how to merge them.
func (c *Client) InferSignals(ctx context.Context, history []domain.Message) (*Signals, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var transcript strings.Builder
	for _, msg := range history {
		transcript.WriteString(string(msg.Role))
		transcript.WriteString(": ")
		transcript.WriteString(msg.Content)
		transcript.WriteString("\n")
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, signalInstructions),
		llms.TextParts(schema.ChatMessageTypeHuman, transcript.String()),
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, content,
		llms.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("signal inference: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoCompletion
	}

	signals, err := ParseSignals(resp.Choices[0].Content)
	if err != nil {
		return nil, err
	}

	c.logger.Inference().Info("Signal inference ok",
		"turns", len(history),
		"duration", time.Since(start))
	return signals, nil
}

// ParseSignals extracts the signals JSON object from a model reply. Models
// sometimes wrap JSON in prose or markdown fences, so the parse is
// tolerant: it locates the outermost braces before unmarshaling.
func ParseSignals(raw string) (*Signals, error) {
	open := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if open < 0 || end <= open {
		return nil, fmt.Errorf("no JSON object in model reply")
	}

	var signals Signals
	if err := json.Unmarshal([]byte(raw[open:end+1]), &signals); err != nil {
		return nil, fmt.Errorf("parsing signals: %w", err)
	}
	return &signals, nil
}
