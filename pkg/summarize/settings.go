package summarize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Setting keys understood by the dispatcher. Providers may carry other keys.
const (
	KeyAPIKey                  = "api_key"
	KeyModel                   = "model"
	KeyAPIBase                 = "api_base"
	KeyOrganizationID          = "organization_id"
	KeyMaxTokens               = "max_tokens"
	KeyAnthropicMaxTokens      = "anthropic_max_tokens"
	KeyInputTokenLimitEnabled  = "input_token_limit_enabled"
	KeyInputTokenLimit         = "input_token_limit"
	KeyOutputTokenLimitEnabled = "output_token_limit_enabled"
	KeyOutputTokenLimit        = "output_token_limit"
)

// Settings is one provider's configuration as stored in the preferences file.
// Values are strings, booleans or JSON numbers.
type Settings map[string]any

// String returns the trimmed string form of key, or "" when unset.
func (s Settings) String(key string) string {
	switch v := s[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Bool interprets key as a flag. Unset or unparsable values are false.
func (s Settings) Bool(key string) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// Int interprets key as an integer. ok is false when the key is unset or blank.
func (s Settings) Int(key string) (n int, ok bool, err error) {
	switch v := s[key].(type) {
	case nil:
		return 0, false, nil
	case int:
		return v, true, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, true, fmt.Errorf("%w: %s=%v is not an integer", ErrInvalidSetting, key, v)
		}
		return int(v), true, nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, true, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidSetting, key, v)
		}
		return n, true, nil
	}
	return 0, true, fmt.Errorf("%w: %s has type %T", ErrInvalidSetting, key, s[key])
}

// Clone returns a shallow copy that is never nil.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// WithEnvCredential returns a copy of s whose api_key is filled from the environment
// variable named by the registry entry when the settings have none.
func (s Settings) WithEnvCredential(entry RegistryEntry, lookup func(string) (string, bool)) Settings {
	out := s.Clone()
	if out.String(KeyAPIKey) != "" || entry.APIKeyEnv == "" || lookup == nil {
		return out
	}
	if key, ok := lookup(entry.APIKeyEnv); ok && strings.TrimSpace(key) != "" {
		out[KeyAPIKey] = strings.TrimSpace(key)
	}
	return out
}

// maskSecret keeps the last four characters of a credential.
func maskSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

// Redacted returns a copy of s with the API key masked, for display.
func (s Settings) Redacted() Settings {
	out := s.Clone()
	if key := out.String(KeyAPIKey); key != "" {
		out[KeyAPIKey] = maskSecret(key)
	}
	return out
}
