package research

import (
	"fmt"

	"github.com/bububa/deep-research/tools/tavily"
)

// Placeholders for absent result fields
const (
	UnknownTitle = "Unknown Title"
	UnknownURL   = "Unknown URL"
)

// FormatSearchResults converts raw search results into an ordered list of
// text blocks ready for inclusion in a model prompt.
// Pure function: the AI summary block comes first when present, each result
// with content becomes a source block, entries without content are skipped
// and missing title/url degrade to placeholders.
func FormatSearchResults(result *tavily.Output) []string {
	var blocks []string
	if result.Answer != "" {
		blocks = append(blocks, fmt.Sprintf("AI Summary: %s", result.Answer))
	}
	for _, item := range result.Results {
		if item.Content == "" {
			continue
		}
		title := item.Title
		if title == "" {
			title = UnknownTitle
		}
		link := item.URL
		if link == "" {
			link = UnknownURL
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s (%s)\nContent: %s", title, link, item.Content))
	}
	return blocks
}
