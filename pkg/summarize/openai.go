package summarize

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const defaultOpenAIBase = "https://api.openai.com/v1"

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	HTTPClient *http.Client
}

func (p *OpenAIProvider) Summarize(ctx context.Context, req Request) (string, error) {
	base := req.APIBase
	if base == "" {
		base = defaultOpenAIBase
	}

	opts := []option.RequestOption{
		option.WithAPIKey(req.APIKey),
		option.WithBaseURL(base),
		option.WithMaxRetries(0),
	}
	if req.Organization != "" {
		opts = append(opts, option.WithOrganization(req.Organization))
	}
	if p.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(p.HTTPClient))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(Prompt),
			openai.UserMessage(req.Text),
		},
	}
	if req.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxOutputTokens))
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		perr := &ProviderError{Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			perr.StatusCode = apiErr.StatusCode
		}
		return "", perr
	}

	if len(completion.Choices) == 0 {
		return "", &ProviderError{Err: errNoCandidates}
	}
	return completion.Choices[0].Message.Content, nil
}
