package agent

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultClaudeModel = "claude-sonnet-4-20250514"
	defaultMaxTokens   = 1024
	apiVersionHeader   = "2023-06-01"

	retryMaxAttempts = 3
	retryBaseDelay   = 500 * time.Millisecond
)

type ClaudeProvider struct {
	apiKey     string
	authToken  string
	baseURL    string
	model      string
	maxTokens  int64
	retryBase  time.Duration
	httpClient *http.Client
}

func NewClaudeProvider(apiKey string, baseURL string, model string) *ClaudeProvider {
	m := strings.TrimSpace(model)
	if m == "" {
		m = defaultClaudeModel
	}
	return &ClaudeProvider{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimSpace(baseURL),
		model:      m,
		maxTokens:  defaultMaxTokens,
		retryBase:  retryBaseDelay,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *ClaudeProvider) Name() string {
	return "claude"
}

func (p *ClaudeProvider) Complete(ctx context.Context, req *Request) (string, error) {
	if p == nil {
		return "", errors.New("agent: claude: nil provider")
	}
	if ctx == nil {
		return "", errors.New("agent: claude: nil context")
	}
	if req == nil {
		return "", errors.New("agent: claude: nil request")
	}
	if err := p.ensureAuth(); err != nil {
		return "", err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []anthropic.TextBlockParam{{
			Text: system,
			Type: "text",
		}}
	}

	sdk := p.newSDKClient()
	for attempt := 0; ; attempt++ {
		msg, err := sdk.Messages.New(ctx, params)
		if err != nil {
			if !shouldRetry(err) || attempt >= retryMaxAttempts {
				return "", err
			}
			if err := sleepWithContext(ctx, retryBackoff(p.retryBase, attempt)); err != nil {
				return "", err
			}
			continue
		}
		return messageText(msg), nil
	}
}

func (p *ClaudeProvider) ensureAuth() error {
	if p.apiKey != "" || p.authToken != "" {
		return nil
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p.apiKey = v
		return nil
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p.authToken = v
		return nil
	}
	return errors.New("agent: claude: missing api key")
}

func (p *ClaudeProvider) newSDKClient() *anthropic.Client {
	opts := make([]option.RequestOption, 0, 5)
	if base := p.baseURL; base != "" {
		opts = append(opts, option.WithBaseURL(sdkBaseURL(base)))
	}
	if p.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(p.httpClient))
	}
	if p.apiKey != "" {
		opts = append(opts, option.WithAPIKey(p.apiKey))
	} else if p.authToken != "" {
		opts = append(opts, option.WithAuthToken(p.authToken))
	}
	opts = append(opts, option.WithMaxRetries(0))
	opts = append(opts, option.WithHeader("anthropic-version", apiVersionHeader))

	client := anthropic.NewClient(opts...)
	return &client
}

// The SDK appends /v1 itself.
func sdkBaseURL(base string) string {
	base = strings.TrimSpace(strings.TrimRight(base, "/"))
	return strings.TrimSuffix(base, "/v1")
}

func messageText(msg *anthropic.Message) string {
	if msg == nil {
		return ""
	}
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String()
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var sdkErr *anthropic.Error
	if errors.As(err, &sdkErr) {
		return sdkErr.StatusCode >= 500 && sdkErr.StatusCode <= 599
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func retryBackoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 0 {
		return 0
	}
	return base * time.Duration(1<<attempt)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
