// internal/translate/translator.go
package translate

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/logger"
)

const (
	// MaxInputRunes is the longest text accepted; longer input is truncated.
	MaxInputRunes = 8000
	// ChunkRunes is the largest piece sent upstream in one request.
	ChunkRunes = 4500

	DefaultSourceLang = "en"
	DefaultTargetLang = "ru"
)

var (
	ErrEmptyTranslation = errors.New("empty translation result")
	errUpstream         = errors.New("upstream translation failed")
	customLog           = logger.NewLogger()
)

// Translator calls an external machine-translation endpoint with a bounded
// timeout and falls back to the built-in word table when that fails.
type Translator struct {
	endpoint string
	client   *http.Client
	cache    Cache
	cacheTTL time.Duration
}

// New creates a Translator. cache may be nil.
func New(endpoint string, timeout time.Duration, cache Cache, cacheTTL time.Duration) *Translator {
	if endpoint == "" {
		endpoint = config.DefaultTranslateEndpoint
	}
	return &Translator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// NewFromConfig creates a Translator from the application config.
func NewFromConfig(cfg *config.Config, cache Cache) *Translator {
	return New(cfg.TranslateEndpoint, cfg.TranslateTimeout, cache, cfg.TranslateCacheTTL)
}

// Translate returns the translation of text from sourceLang to targetLang.
// Upstream failures are not reported; the fallback result is returned
// instead. ErrEmptyTranslation is returned when nothing could be produced.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == "" {
		sourceLang = DefaultSourceLang
	}
	if targetLang == "" {
		targetLang = DefaultTargetLang
	}
	if runes := []rune(text); len(runes) > MaxInputRunes {
		customLog.Warnf("Translate: Text too long (%d chars), truncating to %d", len(runes), MaxInputRunes)
		text = string(runes[:MaxInputRunes])
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyTranslation
	}

	key := cacheKey(sourceLang, targetLang, text)
	if t.cache != nil {
		if cached, ok, err := t.cache.Get(ctx, key); err != nil {
			customLog.Warnf("Translate: Cache lookup failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	translated, err := t.translateUpstream(ctx, text, sourceLang, targetLang)
	if err != nil {
		customLog.Warnf("Translate: %v; using fallback table", err)
		translated = Fallback(text)
		if translated == "" {
			return "", ErrEmptyTranslation
		}
		return translated, nil
	}

	if t.cache != nil {
		if err := t.cache.Set(ctx, key, translated, t.cacheTTL); err != nil {
			customLog.Warnf("Translate: Cache store failed: %v", err)
		}
	}
	return translated, nil
}

func (t *Translator) translateUpstream(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	chunks := splitRunes(text, ChunkRunes)
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := t.requestChunk(ctx, chunk, sourceLang, targetLang)
		if err != nil {
			return "", err
		}
		parts = append(parts, translated)
	}

	result := strings.Join(parts, " ")
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("%w: empty response", errUpstream)
	}
	return result, nil
}

func (t *Translator) requestChunk(ctx context.Context, chunk, sourceLang, targetLang string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", sourceLang)
	q.Set("tl", targetLang)
	q.Set("dt", "t")
	q.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUpstream, err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", errUpstream, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUpstream, err)
	}
	return parseResponse(body)
}

// parseResponse extracts the translated segments from a translate_a/single
// reply: [[["translated","original",...],...],...].
func parseResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return "", fmt.Errorf("%w: unexpected response format", errUpstream)
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("%w: unexpected segment format", errUpstream)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(seg[0], &s); err != nil {
			continue
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// splitRunes cuts s into pieces of at most n runes.
func splitRunes(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}
	chunks := make([]string, 0, len(runes)/n+1)
	for i := 0; i < len(runes); i += n {
		end := min(i+n, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

func cacheKey(sourceLang, targetLang, text string) string {
	sum := sha1.Sum([]byte(sourceLang + "\x00" + targetLang + "\x00" + text))
	return "translate:" + hex.EncodeToString(sum[:])
}
