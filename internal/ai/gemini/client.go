package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/utils"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultRetries    = 3
	defaultRetryDelay = 2 * time.Second
	// Quota errors asking to wait longer than this are not retried.
	maxQuotaDelay = 30 * time.Second
)

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// errEmptyResponse marks an answer that carried no text, e.g. a safety block.
var errEmptyResponse = errors.New("gemini api returned empty response")

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator wraps the Google GenAI client to provide system+message prompt interactions with retries.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries <= 0 {
		maxRetries = defaultRetries
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:      genaiChats{chats: client.Chats},
		model:      model,
		maxRetries: maxRetries,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}, nil
}

// GenerateContent sends message under the given system instruction and returns the textual response.
// Transport failures, rejected credentials and exhausted 429/5xx retries are wrapped with
// ai.ErrUnavailable. Empty answers and other 4xx errors come back unwrapped.
func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", fmt.Errorf("%w: gemini generator is not initialized", ai.ErrUnavailable)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	attempts := max(g.maxRetries, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		output, err := g.send(ctx, config, message)
		if err == nil {
			return output, nil
		}
		lastErr = err

		// A caller deadline is a slow answer, not an unreachable backend.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("generate content: %w", ctxErr)
		}

		delay, retryable := g.retryDelayFor(err, attempt)
		if !retryable || attempt == attempts {
			break
		}

		g.logger.Debug("retrying gemini request",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := utils.WaitFor(ctx, delay); err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
	}

	if unavailable(lastErr) {
		return "", fmt.Errorf("%w: generate content: %w", ai.ErrUnavailable, lastErr)
	}
	return "", fmt.Errorf("generate content: %w", lastErr)
}

// unavailable reports whether err means the backend could not serve us at all,
// as opposed to a reachable backend rejecting or blanking one request.
func unavailable(err error) bool {
	if errors.Is(err, errEmptyResponse) {
		return false
	}
	apiErr, ok := asAPIError(err)
	if !ok {
		return true
	}
	switch {
	case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
		return true
	case apiErr.Code == http.StatusTooManyRequests:
		return true
	case apiErr.Code >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, message string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, config, nil)
	if err != nil {
		return "", err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", err
	}

	return responseText(resp)
}

// retryDelayFor decides whether err is worth another attempt and how long to wait.
func (g *Generator) retryDelayFor(err error, attempt int) (time.Duration, bool) {
	apiErr, ok := asAPIError(err)
	if !ok {
		return 0, false
	}

	backoff := g.retryDelay * time.Duration(attempt)

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if delay, ok := parseRetryAfter(apiErr.Message); ok {
			if delay > maxQuotaDelay {
				g.logger.Warn("gemini quota delay is too long, giving up",
					zap.Duration("retry_after", delay),
				)
				return 0, false
			}
			return delay, true
		}
		return backoff, true
	case apiErr.Code >= http.StatusInternalServerError:
		return backoff, true
	default:
		return 0, false
	}
}

func parseRetryAfter(message string) (time.Duration, bool) {
	match := retryAfterPattern.FindStringSubmatch(message)
	if len(match) != 2 {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(seconds * float64(time.Second)), true
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", errEmptyResponse)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errEmptyResponse
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
