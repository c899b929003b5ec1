package summarize

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Token counting strategies accepted by NewTokenCounter.
const (
	CounterWords    = "words"
	CounterTiktoken = "tiktoken"
)

// TokenCounter measures text against the input token limit.
type TokenCounter interface {
	Count(text string) int
}

// WordCounter counts whitespace-separated words.
type WordCounter struct{}

// Count returns the number of whitespace-delimited words in text.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// TiktokenCounter counts BPE tokens with a tiktoken encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding, e.g. "cl100k_base".
func NewTiktokenCounter(encodingName string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count returns the number of tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	if c.encoding == nil {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// NewTokenCounter returns the counter for a strategy name. An empty name selects words.
func NewTokenCounter(strategy string) (TokenCounter, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", CounterWords:
		return WordCounter{}, nil
	case CounterTiktoken:
		return NewTiktokenCounter("cl100k_base")
	default:
		return nil, fmt.Errorf("%w: unknown token counter %q", ErrInvalidSetting, strategy)
	}
}
