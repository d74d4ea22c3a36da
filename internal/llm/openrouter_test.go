package llm

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OpenRouterConfig
		wantID  string
		wantErr bool
	}{
		{"default model slug", OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.0-flash-exp"}, "google/gemini-2.0-flash-exp", false},
		{"slug passes through", OpenRouterConfig{APIKey: "sk-or-test", Model: "gpt-4o-mini"}, "gpt-4o-mini", false},
		{"custom base URL", OpenRouterConfig{APIKey: "sk-or-test", Model: "meta-llama/llama-3.3-70b-instruct", BaseURL: "https://or.example/v1"}, "meta-llama/llama-3.3-70b-instruct", false},
		{"missing key", OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.ModelID() != tt.wantID {
				t.Errorf("model = %q, want %q", p.ModelID(), tt.wantID)
			}
		})
	}
}

func TestAttributionTransport(t *testing.T) {
	var referer, title string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
	}))
	defer srv.Close()

	client := &http.Client{Transport: attributionTransport{
		base:    http.DefaultTransport,
		referer: openRouterReferer,
		title:   openRouterTitle,
	}}
	req, _ := http.NewRequest(http.MethodPost, srv.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if referer != openRouterReferer || title != openRouterTitle {
		t.Errorf("headers = %q / %q", referer, title)
	}
	if req.Header.Get("X-Title") != "" {
		t.Error("the caller's request must not be mutated")
	}
}
