// Package summarize sends combined text to an external LLM provider and returns its summary.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Prompt is the instruction sent ahead of the text.
const Prompt = "Summarize the following text:"

// Request is a validated summarization call handed to a Provider.
type Request struct {
	Text            string
	Model           string
	APIKey          string
	APIBase         string
	Organization    string
	MaxOutputTokens int // 0 leaves the limit to the provider.
}

// Provider performs one summarization request against an external API.
type Provider interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// Dispatcher validates settings and routes text to the handler for the provider's kind.
type Dispatcher struct {
	registry   *Registry
	providers  map[Kind]Provider
	counter    TokenCounter
	httpClient *http.Client
	lookupEnv  func(string) (string, bool)
	logger     *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTokenCounter replaces the word counter used for the input limit.
func WithTokenCounter(counter TokenCounter) Option {
	return func(d *Dispatcher) { d.counter = counter }
}

// WithProvider installs the handler for a kind, replacing the built-in one.
func WithProvider(kind Kind, p Provider) Option {
	return func(d *Dispatcher) { d.providers[kind] = p }
}

// WithHTTPClient sets the HTTP client used by the built-in handlers.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) { d.httpClient = client }
}

// WithEnvLookup lets credentials fall back to the environment variable named by the
// registry entry, e.g. os.LookupEnv.
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(d *Dispatcher) { d.lookupEnv = lookup }
}

// NewDispatcher builds a dispatcher over registry.
func NewDispatcher(registry *Registry, logger *zap.Logger, opts ...Option) *Dispatcher {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		registry:  registry,
		providers: make(map[Kind]Provider),
		counter:   WordCounter{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}

	builtin := map[Kind]Provider{
		KindOpenAI:    &OpenAIProvider{HTTPClient: d.httpClient},
		KindAnthropic: &AnthropicProvider{HTTPClient: d.httpClient},
		KindGemini:    &GeminiProvider{HTTPClient: d.httpClient},
		KindLocal:     LocalProvider{},
	}
	for kind, p := range builtin {
		if _, ok := d.providers[kind]; !ok {
			d.providers[kind] = p
		}
	}
	return d
}

// Registry returns the registry the dispatcher resolves names against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Summarize validates settings for providerName and asks the provider for a summary of text.
// Validation failures return before any network activity.
func (d *Dispatcher) Summarize(ctx context.Context, text, providerName string, settings Settings) (string, error) {
	entry, ok := d.registry.Lookup(providerName)
	if !ok {
		d.logger.Error("Unsupported AI provider", zap.String("provider", providerName))
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, providerName)
	}
	provider, ok := d.providers[entry.Kind]
	if !ok {
		d.logger.Error("No handler for provider kind",
			zap.String("provider", providerName),
			zap.String("kind", string(entry.Kind)))
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, providerName)
	}

	settings = settings.WithEnvCredential(entry, d.lookupEnv)
	req, err := d.buildRequest(text, providerName, entry, settings)
	if err != nil {
		d.logger.Error("Summarization rejected", zap.String("provider", providerName), zap.Error(err))
		return "", err
	}

	d.logger.Info("Summarizing text",
		zap.String("provider", providerName),
		zap.String("model", req.Model),
		zap.Int("maxOutputTokens", req.MaxOutputTokens))

	summary, err := provider.Summarize(ctx, req)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) && perr.Provider == "" {
			perr.Provider = providerName
		}
		d.logger.Error("Error during summarization", zap.String("provider", providerName), zap.Error(err))
		return "", err
	}
	return summary, nil
}

func (d *Dispatcher) buildRequest(text, providerName string, entry RegistryEntry, settings Settings) (Request, error) {
	apiKey := settings.String(KeyAPIKey)
	if apiKey == "" && !entry.APIKeyOptional {
		return Request{}, fmt.Errorf("%w for the selected AI provider: %s", ErrMissingCredential, providerName)
	}

	if settings.Bool(KeyInputTokenLimitEnabled) {
		limit, ok, err := settings.Int(KeyInputTokenLimit)
		if err != nil {
			return Request{}, err
		}
		if ok {
			if n := d.counter.Count(text); n > limit {
				return Request{}, fmt.Errorf("%w of %d (got %d)", ErrInputTooLarge, limit, n)
			}
		}
	}

	maxOutput, err := outputLimit(entry, settings)
	if err != nil {
		return Request{}, err
	}

	model := settings.String(KeyModel)
	if model == "" {
		model = entry.DefaultModel()
		if model == "" {
			return Request{}, fmt.Errorf("%w for the selected AI provider: %s", ErrNoModelConfigured, providerName)
		}
		d.logger.Warn("No model selected, using default model",
			zap.String("provider", providerName),
			zap.String("model", model))
	}

	apiBase := settings.String(KeyAPIBase)
	if apiBase == "" {
		apiBase = entry.DefaultAPIBase
	}

	return Request{
		Text:            text,
		Model:           model,
		APIKey:          apiKey,
		APIBase:         apiBase,
		Organization:    settings.String(KeyOrganizationID),
		MaxOutputTokens: maxOutput,
	}, nil
}

// outputLimit resolves the output token limit. A provider-specific max tokens setting takes
// precedence over the generic output limit. Non-positive values leave the limit unset.
func outputLimit(entry RegistryEntry, settings Settings) (int, error) {
	var overrides []string
	if entry.MaxTokensField {
		overrides = append(overrides, KeyMaxTokens)
	}
	if entry.Kind == KindAnthropic {
		overrides = append(overrides, KeyAnthropicMaxTokens)
	}
	for _, key := range overrides {
		n, ok, err := settings.Int(key)
		if err != nil {
			return 0, err
		}
		if ok && n > 0 {
			return n, nil
		}
	}

	if !settings.Bool(KeyOutputTokenLimitEnabled) {
		return 0, nil
	}
	n, ok, err := settings.Int(KeyOutputTokenLimit)
	if err != nil {
		return 0, err
	}
	if !ok || n <= 0 {
		return 0, nil
	}
	return n, nil
}

// SummarizeWithPreferences summarizes text with the current provider and its stored settings.
func SummarizeWithPreferences(ctx context.Context, d *Dispatcher, text string, prefs *Preferences) (string, error) {
	name := prefs.CurrentProvider()
	return d.Summarize(ctx, text, name, prefs.Settings(name))
}
