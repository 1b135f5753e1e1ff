package webscraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const mockPage = `<html>
<head><title>Mock Page</title></head>
<body>
<nav>ignore this navigation</nav>
<article><h1>Heading</h1><p>Body paragraph with facts.</p></article>
<footer>ignore this footer</footer>
</body>
</html>`

func TestScraperRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, mockPage)
	}))
	defer srv.Close()
	tool := New()
	output := new(Output)
	if err := tool.Run(context.Background(), NewInput(srv.URL), output); err != nil {
		t.Fatalf("Error running scraper: %v", err)
	}
	if output.Title != "Mock Page" {
		t.Errorf("Expect title Mock Page, but got %s", output.Title)
	}
	if !strings.Contains(output.Content, "Body paragraph with facts.") {
		t.Errorf("Expect article content, but got %q", output.Content)
	}
	if strings.Contains(output.Content, "navigation") || strings.Contains(output.Content, "footer") {
		t.Errorf("Expect boilerplate stripped, but got %q", output.Content)
	}
}

func TestScraperNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	tool := New()
	output := new(Output)
	if err := tool.Run(context.Background(), NewInput(srv.URL), output); err == nil {
		t.Fatal("Expect error for non-200 response")
	}
}

func TestScraperInvalidURL(t *testing.T) {
	tool := New()
	output := new(Output)
	if err := tool.Run(context.Background(), NewInput("not-a-url"), output); err == nil {
		t.Fatal("Expect error for invalid URL")
	}
}
