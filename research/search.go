package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/bububa/deep-research/tools/tavily"
	"github.com/bububa/deep-research/tools/webscraper"
)

const (
	// DefaultSearchResults is the number of results a worker search returns by default
	DefaultSearchResults = 3
	// searchErrorPrefix opens every degraded search reply so the model can
	// reason about the failure instead of the invocation aborting
	searchErrorPrefix = "Error performing web search: "
	// blockSeparator joins formatted result blocks inside one search reply
	blockSeparator = "\n\n---\n\n"
)

// SearchCapability is the web search capability a worker agent is bound to.
// Implementations never fail: degraded capability is reported as text.
type SearchCapability interface {
	Search(ctx context.Context, query string, maxResults int) string
}

// PageReadCapability reads a single webpage into prompt-ready markdown.
// Same contract as SearchCapability: failures come back as text.
type PageReadCapability interface {
	ReadPage(ctx context.Context, link string) string
}

// WebSearch composes the provider adapter and the result formatter into the
// single callable exposed to worker agents.
type WebSearch struct {
	tool *tavily.Search
}

var _ SearchCapability = (*WebSearch)(nil)

// NewWebSearch returns a search capability backed by the given provider tool
func NewWebSearch(tool *tavily.Search) *WebSearch {
	return &WebSearch{
		tool: tool,
	}
}

// Search runs one basic-depth query and returns a single formatted blob,
// prefixed by a header line echoing the query.
func (s *WebSearch) Search(ctx context.Context, query string, maxResults int) string {
	if maxResults < 1 {
		maxResults = DefaultSearchResults
	}
	input := tavily.NewInput(query, maxResults)
	output := new(tavily.Output)
	if err := s.tool.Run(ctx, input, output); err != nil {
		return searchErrorPrefix + err.Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Web Search Query: %s\n\n", query)
	sb.WriteString(strings.Join(FormatSearchResults(output), blockSeparator))
	return sb.String()
}

// PageReader exposes the webpage scraper as a worker capability.
type PageReader struct {
	tool *webscraper.Scraper
}

var _ PageReadCapability = (*PageReader)(nil)

// NewPageReader returns a page reading capability backed by the scraper tool
func NewPageReader(tool *webscraper.Scraper) *PageReader {
	return &PageReader{
		tool: tool,
	}
}

// ReadPage fetches one page and returns its markdown content with a source header.
func (r *PageReader) ReadPage(ctx context.Context, link string) string {
	input := webscraper.NewInput(link)
	output := new(webscraper.Output)
	if err := r.tool.Run(ctx, input, output); err != nil {
		return fmt.Sprintf("Error reading webpage %s: %s", link, err.Error())
	}
	title := output.Title
	if title == "" {
		title = UnknownTitle
	}
	return fmt.Sprintf("Source: %s (%s)\nContent: %s", title, link, output.Content)
}
