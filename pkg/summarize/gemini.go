package summarize

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

// GeminiProvider talks to the Gemini API.
type GeminiProvider struct {
	HTTPClient *http.Client
}

func (p *GeminiProvider) Summarize(ctx context.Context, req Request) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:     req.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.HTTPClient,
	}
	if req.APIBase != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: req.APIBase}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	var contentCfg *genai.GenerateContentConfig
	if req.MaxOutputTokens > 0 {
		contentCfg = &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxOutputTokens)}
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(Prompt+"\n\n"+req.Text), contentCfg)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &ProviderError{Err: errNoCandidates}
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			return part.Text, nil
		}
	}
	return "", &ProviderError{Err: errNoCandidates}
}
