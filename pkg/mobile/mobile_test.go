package mobile

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"frxai/pkg/frxai"
)

const analysisText = `{"market_asset":"XAU/USD","trend":"Downtrend","volatility":"High","volume":"N/A",` +
	`"sentiment":"Bearish","confidenceScore":64,"gamePlan":"Sell rallies.","fundamentalAnalysis":"Strong dollar."}`

func setupMobileCore(t *testing.T, gen frxai.Generator) (*Core, func()) {
	t.Helper()
	tmp := t.TempDir()
	core, err := openWithGenerator(filepath.Join(tmp, "test.db"), gen)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	cleanup := func() {
		_ = core.Close()
		_ = os.RemoveAll(tmp)
	}
	return core, cleanup
}

func staticGenerator(text string) frxai.Generator {
	return frxai.GeneratorFunc(func(context.Context, frxai.GenerateRequest) (frxai.GenerateResponse, error) {
		return frxai.GenerateResponse{Text: text}, nil
	})
}

func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, "\x89PNG\r\n\x1a\n")
	return data
}

func TestOpenWithoutKeyIsSettingsOnly(t *testing.T) {
	core, err := Open(filepath.Join(t.TempDir(), "test.db"), "", "", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer core.Close()

	_, err = core.FetchNewsJSON("", "en")
	if err == nil || err.Error() != frxai.Translate(frxai.LanguageEnglish, "error_ai_unavailable") {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestOpenRejectsUnknownProvider(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "test.db"), "mystery", "key", ""); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestAnalyzeChartJSON(t *testing.T) {
	core, cleanup := setupMobileCore(t, staticGenerator(analysisText))
	defer cleanup()

	encoded := base64.StdEncoding.EncodeToString(pngBytes(32))
	for _, input := range []string{encoded, "data:image/png;base64," + encoded} {
		out, err := core.AnalyzeChartJSON(input, "", "en")
		if err != nil {
			t.Fatalf("AnalyzeChartJSON: %v", err)
		}
		var result frxai.AnalysisResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if result.MarketAsset != "XAU/USD" || result.Sentiment != "Bearish" {
			t.Fatalf("unexpected result: %+v", result)
		}
	}

	out, err := core.AnalyzeChartBytes(pngBytes(32), "image/png", "id")
	if err != nil || !strings.Contains(out, `"confidenceScore":64`) {
		t.Fatalf("AnalyzeChartBytes: %q, %v", out, err)
	}
}

func TestAnalyzeChartJSONErrorsAreLocalized(t *testing.T) {
	core, cleanup := setupMobileCore(t, staticGenerator(analysisText))
	defer cleanup()

	_, err := core.AnalyzeChartJSON("%%%not-base64", "image/png", "id")
	if err == nil || err.Error() != frxai.Translate(frxai.LanguageIndonesian, "upload_error_file_type") {
		t.Fatalf("expected localized file type error, got %v", err)
	}

	huge := strings.Repeat("A", base64.StdEncoding.EncodedLen(frxai.MaxImageBytes+3))
	_, err = core.AnalyzeChartJSON(huge, "image/png", "en")
	if err == nil || err.Error() != frxai.Translate(frxai.LanguageEnglish, "upload_error_file_size") {
		t.Fatalf("expected file size error, got %v", err)
	}
}

func TestAnalyzeChartJSONSizeBoundary(t *testing.T) {
	core, cleanup := setupMobileCore(t, staticGenerator(analysisText))
	defer cleanup()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "at limit", size: frxai.MaxImageBytes},
		{name: "one byte over", size: frxai.MaxImageBytes + 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := base64.StdEncoding.EncodeToString(pngBytes(tt.size))
			_, err := core.AnalyzeChartJSON(encoded, "", "en")
			if tt.wantErr {
				if err == nil || err.Error() != frxai.Translate(frxai.LanguageEnglish, "upload_error_file_size") {
					t.Fatalf("expected file size error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AnalyzeChartJSON at %d bytes: %v", tt.size, err)
			}
		})
	}
}

func TestFetchNewsJSON(t *testing.T) {
	news := `[{"title":"Gold slips","snippet":"s","content":"c","source":"Bloomberg","sentiment":"Bearish","published_at":"2025-05-02T08:00:00Z"}]`
	core, cleanup := setupMobileCore(t, staticGenerator(news))
	defer cleanup()

	out, err := core.FetchNewsJSON("xau/usd", "en")
	if err != nil {
		t.Fatalf("FetchNewsJSON: %v", err)
	}
	var feed frxai.NewsFeed
	if err := json.Unmarshal([]byte(out), &feed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if feed.Asset != "XAU/USD" || len(feed.Articles) != 1 || feed.Dropped != 0 {
		t.Fatalf("unexpected feed: %+v", feed)
	}
}

func TestSettingsAndOnboardingFlows(t *testing.T) {
	core, cleanup := setupMobileCore(t, nil)
	defer cleanup()

	out, err := core.SettingsJSON("id-ID")
	if err != nil {
		t.Fatalf("SettingsJSON: %v", err)
	}
	if out != `{"theme":"system","language":"id"}` {
		t.Fatalf("unexpected default settings %s", out)
	}

	out, err = core.UpdateSettingsJSON(`{"theme":"light"}`)
	if err != nil {
		t.Fatalf("UpdateSettingsJSON: %v", err)
	}
	if !strings.Contains(out, `"theme":"light"`) {
		t.Fatalf("unexpected update result %s", out)
	}

	if _, err := core.UpdateSettingsJSON(`{"language":"de"}`); err == nil || err.Error() != frxai.Translate(frxai.LanguageEnglish, "settings_error_language") {
		t.Fatalf("expected language validation error, got %v", err)
	}
	if _, err := core.UpdateSettingsJSON(`not json`); err == nil {
		t.Fatalf("expected error for invalid payload")
	}

	if core.HasOnboarded() {
		t.Fatalf("expected onboarding incomplete")
	}
	if err := core.CompleteOnboarding(); err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if !core.HasOnboarded() {
		t.Fatalf("expected onboarding complete")
	}
}

func TestTranslationsJSON(t *testing.T) {
	core, cleanup := setupMobileCore(t, nil)
	defer cleanup()

	out, err := core.TranslationsJSON("id")
	if err != nil {
		t.Fatalf("TranslationsJSON: %v", err)
	}
	var dict map[string]string
	if err := json.Unmarshal([]byte(out), &dict); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if dict["settings_title"] == "" {
		t.Fatalf("expected settings_title in dictionary")
	}
	if _, err := core.TranslationsJSON("fr"); err == nil {
		t.Fatalf("expected error for unknown language")
	}
}

func TestCloseNil(t *testing.T) {
	var core *Core
	if err := core.Close(); err != nil {
		t.Fatalf("expected nil close on nil core, got %v", err)
	}
}
