package frxai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func newOpenAITestServer(t *testing.T, gotBody *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		*gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-search-preview-2025",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": "[]",
					"annotations": []any{map[string]any{
						"type": "url_citation",
						"url_citation": map[string]any{
							"url": "https://news.example/c", "title": "C", "start_index": 0, "end_index": 1,
						},
					}},
				},
			}},
		})
	}))
}

func TestOpenAIGeneratorGenerate(t *testing.T) {
	t.Parallel()

	var gotBody string
	server := newOpenAITestServer(t, &gotBody)
	defer server.Close()

	gen, err := NewOpenAIGenerator(GeneratorConfig{APIKey: "k", BaseURL: server.URL + "/v1/", Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator: %v", err)
	}
	resp, err := gen.Generate(context.Background(), GenerateRequest{
		Prompt:      "news",
		Image:       &ImagePart{Data: []byte("abc"), MIMEType: "image/jpeg"},
		Temperature: 0.1,
		WebSearch:   true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, fragment := range []string{"web_search_options", "data:image/jpeg;base64,YWJj", defaultOpenAIModel} {
		if !strings.Contains(gotBody, fragment) {
			t.Fatalf("request body missing %q: %s", fragment, gotBody)
		}
	}
	if strings.Contains(gotBody, "temperature") {
		t.Fatalf("search models must not receive temperature: %s", gotBody)
	}
	if resp.Text != "[]" || resp.Model != "gpt-4o-search-preview-2025" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if want := []Source{{URI: "https://news.example/c", Title: "C"}}; !reflect.DeepEqual(resp.Citations, want) {
		t.Fatalf("citations = %+v, want %+v", resp.Citations, want)
	}
}

func TestOpenAIGeneratorPlainModelUsesTemperature(t *testing.T) {
	t.Parallel()

	var gotBody string
	server := newOpenAITestServer(t, &gotBody)
	defer server.Close()

	gen, err := NewOpenAIGenerator(GeneratorConfig{APIKey: "k", BaseURL: server.URL + "/v1", Model: "gpt-4o", Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator: %v", err)
	}
	if _, err := gen.Generate(context.Background(), GenerateRequest{Prompt: "p", Temperature: 0.1, WebSearch: true}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(gotBody, "temperature") || strings.Contains(gotBody, "web_search_options") {
		t.Fatalf("unexpected request body: %s", gotBody)
	}
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewOpenAIGenerator(GeneratorConfig{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
