// Package mobile exposes the core through gomobile-friendly signatures:
// strings, bytes, bools and errors only. Results are JSON strings and error
// messages are already localized for display.
package mobile

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"frxai/pkg/frxai"
)

const (
	requestTimeout           = 3 * time.Minute
	defaultRequestsPerMinute = 30
)

// Core wraps the FrxAI core for gomobile bindings.
type Core struct {
	core *frxai.Core
}

// Open initializes the core with a database path. An empty apiKey opens
// settings storage only; analysis and news then fail as unavailable.
func Open(dbPath, provider, apiKey, model string) (*Core, error) {
	var gen frxai.Generator
	if strings.TrimSpace(apiKey) != "" {
		var err error
		gen, err = frxai.NewGenerator(context.Background(), frxai.GeneratorConfig{
			Provider:          frxai.Provider(provider),
			APIKey:            apiKey,
			Model:             model,
			RequestsPerMinute: defaultRequestsPerMinute,
		})
		if err != nil {
			return nil, err
		}
	}
	return openWithGenerator(dbPath, gen)
}

func openWithGenerator(dbPath string, gen frxai.Generator) (*Core, error) {
	core, err := frxai.OpenWithOptions(frxai.Options{DBPath: dbPath, Generator: gen})
	if err != nil {
		return nil, err
	}
	return &Core{core: core}, nil
}

// Close releases resources.
func (c *Core) Close() error {
	if c == nil || c.core == nil {
		return nil
	}
	return c.core.Close()
}

// AnalyzeChartJSON analyzes a base64 image. A data URL is accepted too.
func (c *Core) AnalyzeChartJSON(imageBase64, mimeType, lang string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	language := c.language(ctx, lang)

	encoded, dataURLMIME := splitDataURL(imageBase64)
	if mimeType == "" {
		mimeType = dataURLMIME
	}
	// Decoding stops one byte past the limit, so oversized input is never
	// held in full.
	image, err := frxai.ReadImage(base64.NewDecoder(base64.StdEncoding, strings.NewReader(encoded)), mimeType, language)
	if err != nil {
		return "", c.displayError(err, language)
	}
	return c.analyzeImage(ctx, image, language)
}

// AnalyzeChartBytes analyzes raw image bytes.
func (c *Core) AnalyzeChartBytes(image []byte, mimeType, lang string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return c.analyze(ctx, image, mimeType, c.language(ctx, lang))
}

func (c *Core) analyze(ctx context.Context, data []byte, mimeType string, lang frxai.Language) (string, error) {
	image, err := frxai.NewImagePart(data, mimeType, lang)
	if err != nil {
		return "", c.displayError(err, lang)
	}
	return c.analyzeImage(ctx, image, lang)
}

func (c *Core) analyzeImage(ctx context.Context, image frxai.ImagePart, lang frxai.Language) (string, error) {
	result, err := c.core.AnalyzeChart(ctx, image, lang)
	if err != nil {
		return "", c.displayError(err, lang)
	}
	return marshalJSON(result)
}

// FetchNewsJSON returns the news feed for asset (EUR/USD when empty).
func (c *Core) FetchNewsJSON(asset, lang string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	language := c.language(ctx, lang)
	feed, err := c.core.FetchNews(ctx, asset, language)
	if err != nil {
		return "", c.displayError(err, language)
	}
	return marshalJSON(feed)
}

// SettingsJSON returns the stored settings, defaulting the language from
// the platform locale.
func (c *Core) SettingsJSON(locale string) (string, error) {
	return marshalJSON(c.core.LoadSettings(context.Background(), locale))
}

// UpdateSettingsJSON applies {"theme": ..., "language": ...}; absent fields
// are left unchanged.
func (c *Core) UpdateSettingsJSON(payload string) (string, error) {
	ctx := context.Background()
	var update frxai.SettingsUpdate
	if err := json.Unmarshal([]byte(payload), &update); err != nil {
		lang := c.language(ctx, "")
		return "", c.displayError(frxai.WrapError(frxai.ErrCodeInvalidInput, frxai.Translate(lang, "error_invalid_request"), err), lang)
	}
	settings, err := c.core.UpdateSettings(ctx, update)
	if err != nil {
		return "", c.displayError(err, c.language(ctx, ""))
	}
	return marshalJSON(settings)
}

// HasOnboarded reports whether onboarding was completed.
func (c *Core) HasOnboarded() bool {
	return c.core.HasOnboarded(context.Background())
}

// CompleteOnboarding persists the onboarding flag.
func (c *Core) CompleteOnboarding() error {
	ctx := context.Background()
	if err := c.core.CompleteOnboarding(ctx); err != nil {
		return c.displayError(err, c.language(ctx, ""))
	}
	return nil
}

// TranslationsJSON returns the UI dictionary for lang.
func (c *Core) TranslationsJSON(lang string) (string, error) {
	language, ok := frxai.ParseLanguage(lang)
	if !ok {
		return "", fmt.Errorf("unknown language %q", lang)
	}
	return marshalJSON(frxai.Dictionary(language))
}

// language parses lang, falling back to the stored setting.
func (c *Core) language(ctx context.Context, lang string) frxai.Language {
	if parsed, ok := frxai.ParseLanguage(lang); ok {
		return parsed
	}
	return c.core.LoadSettings(ctx, "").Language
}

// displayError logs err and returns only its localized message, which is
// what crosses the binding.
func (c *Core) displayError(err error, lang frxai.Language) error {
	c.core.Logger().Debug("mobile call failed", "err", err)
	return errors.New(frxai.UserMessage(err, lang))
}

// splitDataURL strips a "data:<mime>;base64," prefix.
func splitDataURL(value string) (string, string) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "data:") {
		return value, ""
	}
	header, encoded, ok := strings.Cut(value, ",")
	if !ok {
		return value, ""
	}
	mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	return encoded, mimeType
}

func marshalJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
