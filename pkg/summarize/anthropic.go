package summarize

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// The messages API rejects requests without max_tokens.
const defaultAnthropicMaxTokens = 1024

// AnthropicProvider talks to the Anthropic messages API.
type AnthropicProvider struct {
	HTTPClient *http.Client
}

func (p *AnthropicProvider) Summarize(ctx context.Context, req Request) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(req.APIKey),
		option.WithMaxRetries(0),
	}
	if req.APIBase != "" {
		opts = append(opts, option.WithBaseURL(req.APIBase))
	}
	if p.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(p.HTTPClient))
	}
	client := anthropic.NewClient(opts...)

	maxTokens := int64(req.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt + "\n\n" + req.Text)),
		},
	})
	if err != nil {
		perr := &ProviderError{Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			perr.StatusCode = apiErr.StatusCode
		}
		return "", perr
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &ProviderError{Err: errNoCandidates}
}
