package tavily

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func startProviderServer(t *testing.T, result *Output, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode search request: %v", err)
		}
		if req.APIKey == "" {
			t.Error("search request missing api key")
		}
		json.NewEncoder(w).Encode(result)
	}))
}

func TestSearchMissingCredential(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	hits := 0
	srv := startProviderServer(t, &Output{}, &hits)
	defer srv.Close()
	tool := New(WithBaseURL(srv.URL))
	output := new(Output)
	err := tool.Run(context.Background(), NewInput("test query", 3), output)
	var confErr *ConfigError
	if !errors.As(err, &confErr) {
		t.Fatalf("Expect ConfigError, but got %v", err)
	}
	if hits != 0 {
		t.Errorf("Expect no network call without credential, but got %d", hits)
	}
}

func TestSearchSuccess(t *testing.T) {
	mockResult := Output{
		Answer: "mock answer",
		Results: []SearchResultItem{
			{Title: "Mock Title", URL: "https://example.com/mock", Content: "mock content", Score: 0.9},
		},
	}
	hits := 0
	srv := startProviderServer(t, &mockResult, &hits)
	defer srv.Close()
	tool := New(WithBaseURL(srv.URL), WithAPIKey("test-key"))
	output := new(Output)
	if err := tool.Run(context.Background(), NewInput("mock query", 3), output); err != nil {
		t.Fatalf("Error running search: %v", err)
	}
	if output.Answer != mockResult.Answer {
		t.Errorf("Expect answer %s, but got %s", mockResult.Answer, output.Answer)
	}
	if len(output.Results) != 1 {
		t.Fatalf("Expect 1 result, but got %d", len(output.Results))
	}
	if got := output.Results[0].Title; got != "Mock Title" {
		t.Errorf("Expect title Mock Title, but got %s", got)
	}
	if output.Query != "mock query" {
		t.Errorf("Expect query echoed, but got %s", output.Query)
	}
	if hits != 1 {
		t.Errorf("Expect 1 provider call, but got %d", hits)
	}
}

func TestSearchProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	tool := New(WithBaseURL(srv.URL), WithAPIKey("test-key"))
	output := new(Output)
	err := tool.Run(context.Background(), NewInput("mock query", 1), output)
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expect ProviderError, but got %v", err)
	}
}

func TestSearchNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	tool := New(WithBaseURL(srv.URL), WithAPIKey("test-key"))
	output := new(Output)
	err := tool.Run(context.Background(), NewInput("mock query", 1), output)
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expect ProviderError, but got %v", err)
	}
	if provErr.Unwrap() == nil {
		t.Error("Expect wrapped cause in ProviderError")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	tool := New(WithAPIKey("test-key"))
	output := new(Output)
	if err := tool.Run(context.Background(), NewInput("", 3), output); err == nil {
		t.Fatal("Expect error for empty query")
	}
}
