// Package translator implements the Translator Adapter: it calls an
// external translation service over HTTPS and falls back to a
// deterministic phrase table when explicitly configured offline or when
// degraded mode is requested after the provider exhausts its retries.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// Mode selects the adapter's operating posture.
type Mode int

const (
	// ModeOnline calls the external provider and surfaces
	// TranslationFailed on exhaustion (default).
	ModeOnline Mode = iota
	// ModeOffline never calls the provider; it always uses the phrase
	// table (or the tagged-original fallback).
	ModeOffline
)

// Config configures HTTP target, retry policy, and fallback behavior.
type Config struct {
	Mode Mode

	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	BaseBackoff time.Duration

	// AllowDegraded permits falling back to the phrase table after the
	// provider exhausts retries, instead of surfacing TranslationFailed.
	AllowDegraded bool
}

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxRetries  = 3
	defaultBaseBackoff = 1 * time.Second
)

// Adapter is the Translator Adapter.
type Adapter struct {
	cfg    Config
	http   *http.Client
	logger *zap.SugaredLogger
}

// New constructs an Adapter. logger may be nil in tests.
func New(cfg Config, logger *zap.SugaredLogger) *Adapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	return &Adapter{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type providerRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type providerResponse struct {
	TranslatedText string `json:"translated_text"`
}

// Translate implements the adapter's single operation. If sourceLang
// equals targetLang, or text is whitespace-only, the input is returned
// verbatim with no external call.
func (a *Adapter) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == targetLang || strings.TrimSpace(text) == "" {
		return text, nil
	}

	if a.cfg.Mode == ModeOffline {
		return a.phraseTableOrTagged(text, targetLang), nil
	}

	translated, err := a.callProviderWithRetry(ctx, text, sourceLang, targetLang)
	if err == nil {
		return translated, nil
	}

	if a.cfg.AllowDegraded {
		if a.logger != nil {
			a.logger.Warnw("provider exhausted, falling back to phrase table", "target", targetLang, "error", err)
		}
		return a.phraseTableOrTagged(text, targetLang), nil
	}

	return "", domain.NewTranslationFailed(targetLang, err)
}

func (a *Adapter) callProviderWithRetry(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if a.cfg.Endpoint == "" {
		return "", fmt.Errorf("translator: no endpoint configured")
	}

	var result string
	operation := func() error {
		out, err := a.callProviderOnce(ctx, text, sourceLang, targetLang)
		if err != nil {
			return err
		}
		result = out
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.cfg.BaseBackoff
	b.Multiplier = 2
	bounded := backoff.WithMaxRetries(b, uint64(a.cfg.MaxRetries-1))

	if err := backoff.Retry(operation, backoff.WithContext(bounded, ctx)); err != nil {
		return "", err
	}
	return result, nil
}

func (a *Adapter) callProviderOnce(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	payload, err := json.Marshal(providerRequest{Text: text, SourceLang: sourceLang, TargetLang: targetLang})
	if err != nil {
		return "", fmt.Errorf("translator: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("translator: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translator: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("translator: read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("translator: provider returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return "", backoff.Permanent(fmt.Errorf("translator: provider returned %d: %s", resp.StatusCode, string(body)))
	}

	var parsed providerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("translator: decode response: %w", err))
	}
	return parsed.TranslatedText, nil
}

// phraseTable is a deterministic lookup of common short phrases across
// supported languages, used only in offline/degraded mode.
var phraseTable = map[string]map[string]string{
	"hello": {"es": "hola", "fr": "bonjour", "de": "hallo", "it": "ciao", "pt": "olá", "hi": "namaste", "ru": "привет"},
	"thank you": {"es": "gracias", "fr": "merci", "de": "danke", "it": "grazie", "pt": "obrigado", "hi": "dhanyavaad", "ru": "спасибо"},
	"yes": {"es": "sí", "fr": "oui", "de": "ja", "it": "sì", "pt": "sim", "hi": "haan", "ru": "да"},
	"no": {"es": "no", "fr": "non", "de": "nein", "it": "no", "pt": "não", "hi": "nahi", "ru": "нет"},
	"good morning": {"es": "buenos días", "fr": "bonjour", "de": "guten morgen", "it": "buongiorno", "pt": "bom dia", "hi": "suprabhat", "ru": "доброе утро"},
	"goodbye": {"es": "adiós", "fr": "au revoir", "de": "auf wiedersehen", "it": "arrivederci", "pt": "adeus", "hi": "alvida", "ru": "до свидания"},
}

// phraseTableOrTagged looks up text in the phrase table; if it does not
// match, returns the original text prefixed with the target-language tag,
// which callers are free to treat as a failed translation.
func (a *Adapter) phraseTableOrTagged(text, targetLang string) string {
	key := strings.ToLower(strings.TrimSpace(text))
	if byLang, ok := phraseTable[key]; ok {
		if out, ok := byLang[targetLang]; ok {
			return out
		}
	}
	return fmt.Sprintf("[%s] %s", targetLang, text)
}
