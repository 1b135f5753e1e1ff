package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/bububa/deep-research/schema"
	"github.com/bububa/deep-research/tools"
)

// SearchDepth controls how aggressively the provider crawls for a query
type SearchDepth = string

const (
	BasicSearchDepth    SearchDepth = "basic"
	AdvancedSearchDepth SearchDepth = "advanced"
)

const (
	// EnvAPIKey is the environment variable holding the search credential.
	// It is read at call time, not cached at startup.
	EnvAPIKey = "TAVILY_API_KEY"
	// DefaultBaseURL is the Tavily API endpoint
	DefaultBaseURL = "https://api.tavily.com"
)

// Input schema for a web search request
type Input struct {
	schema.Base
	// Query is the search query string.
	Query string `json:"query" jsonschema:"title=query,description=The search query string." validate:"required"`
	// MaxResults is the maximum number of search results to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"title=max_results,description=Maximum number of search results to return." validate:"omitempty,min=1"`
	// IncludeAnswer requests an AI generated answer from the provider.
	IncludeAnswer bool `json:"include_answer,omitempty" jsonschema:"title=include_answer,description=Whether to include an AI generated answer."`
	// IncludeRawContent requests raw page content for each result.
	IncludeRawContent bool `json:"include_raw_content,omitempty" jsonschema:"title=include_raw_content,description=Whether to include raw page content."`
	// SearchDepth is either basic or advanced.
	SearchDepth SearchDepth `json:"search_depth,omitempty" jsonschema:"title=search_depth,enum=basic,enum=advanced,default=basic,description=The search depth."`
}

// NewInput returns a basic depth search Input without answer or raw content
func NewInput(query string, maxResults int) *Input {
	return &Input{
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: BasicSearchDepth,
	}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// SearchResultItem represents a single search result item
type SearchResultItem struct {
	// Title the title of the search result
	Title string `json:"title,omitempty"`
	// URL the URL of the search result
	URL string `json:"url,omitempty"`
	// Content the content snippet of the search result
	Content string `json:"content,omitempty"`
	// RawContent the raw page content, present only when requested
	RawContent string `json:"raw_content,omitempty"`
	// Score the provider relevance score
	Score float64 `json:"score,omitempty"`
}

// Output represents the raw structured response of one search call
type Output struct {
	schema.Base
	// Query echoes the query that produced the results
	Query string `json:"query,omitempty"`
	// Answer is the provider AI generated summary, present only when requested
	Answer string `json:"answer,omitempty"`
	// Results list of search result items
	Results []SearchResultItem `json:"results,omitempty"`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

type Config struct {
	tools.Config
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Search is a web search tool backed by the Tavily API
type Search struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Search)(nil)

func New(opts ...Option) *Search {
	ret := new(Search)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("TavilySearchTool")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

type searchRequest struct {
	APIKey            string      `json:"api_key"`
	Query             string      `json:"query"`
	MaxResults        int         `json:"max_results,omitempty"`
	IncludeAnswer     bool        `json:"include_answer"`
	IncludeRawContent bool        `json:"include_raw_content"`
	SearchDepth       SearchDepth `json:"search_depth,omitempty"`
}

// Run performs a single search call.
// The credential is resolved before any network I/O; a missing credential
// returns *ConfigError, any remote failure returns *ProviderError.
func (t *Search) Run(ctx context.Context, input *Input, output *Output) error {
	if input.Query == "" {
		return errors.New("empty search query")
	}
	apiKey := t.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return &ConfigError{Reason: fmt.Sprintf("%s environment variable not set, get your API key from https://app.tavily.com/home", EnvAPIKey)}
	}
	maxResults := input.MaxResults
	if maxResults < 1 {
		maxResults = 1
	}
	reqBody := searchRequest{
		APIKey:            apiKey,
		Query:             input.Query,
		MaxResults:        maxResults,
		IncludeAnswer:     input.IncludeAnswer,
		IncludeRawContent: input.IncludeRawContent,
		SearchDepth:       input.SearchDepth,
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&reqBody); err != nil {
		return &ProviderError{Cause: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/search", t.baseURL), buf)
	if err != nil {
		return &ProviderError{Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return &ProviderError{Cause: err}
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return &ProviderError{Cause: fmt.Errorf("non-200 response from search provider: %d", httpResp.StatusCode)}
	}
	if err := json.NewDecoder(httpResp.Body).Decode(output); err != nil {
		return &ProviderError{Cause: err}
	}
	if output.Query == "" {
		output.Query = input.Query
	}
	return nil
}
