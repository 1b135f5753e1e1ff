package webscraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/bububa/deep-research/schema"
	"github.com/bububa/deep-research/tools"
)

// Input schema for the webpage reader tool.
type Input struct {
	schema.Base
	// URL of the webpage to read.
	URL string `json:"url" jsonschema:"title=url,description=URL of the webpage to read." validate:"required,url"`
}

// NewInput returns a new Input for the given link
func NewInput(link string) *Input {
	return &Input{
		URL: link,
	}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output schema of the webpage reader tool.
type Output struct {
	schema.Base
	// Title is the title of the webpage.
	Title string `json:"title,omitempty" jsonschema:"title=title,description=The title of the webpage."`
	// Content is the page content converted to markdown.
	Content string `json:"content,omitempty" jsonschema:"title=content,description=The page content in markdown format."`
	// Domain is the domain name of the website.
	Domain string `json:"domain,omitempty" jsonschema:"title=domain,description=The domain name of the website."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

type Config struct {
	tools.Config
	// userAgent user agent string to use for requests.
	userAgent string
	// timeout timeout in seconds for HTTP requests
	timeout int
	// maxContentLength maximum content length in bytes to process.
	maxContentLength int64
	httpClient       *http.Client
}

// Scraper fetches a webpage and converts its main content to markdown
// so a language model can consume it as grounding context.
type Scraper struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Scraper)(nil)

func New(opts ...Option) *Scraper {
	ret := new(Scraper)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("WebpageReaderTool")
	}
	if ret.userAgent == "" {
		ret.userAgent = DefaultUserAgent
	}
	if ret.timeout == 0 {
		ret.timeout = 30
	}
	if ret.maxContentLength == 0 {
		ret.maxContentLength = 1_000_000
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{
			Timeout: time.Second * time.Duration(ret.timeout),
		}
	}
	return ret
}

// Run fetches the page and fills output with its markdown content.
func (t *Scraper) Run(ctx context.Context, input *Input, output *Output) error {
	parsedURL, err := url.ParseRequestURI(input.URL)
	if err != nil {
		return err
	}
	doc, err := t.fetch(ctx, input.URL)
	if err != nil {
		return err
	}
	markdown, err := htmltomarkdown.ConvertString(
		t.extractMainContent(doc),
		converter.WithDomain(fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)),
	)
	if err != nil {
		return err
	}
	output.Title = strings.TrimSpace(doc.Find("head title").Text())
	output.Content = cleanMarkdown(markdown)
	output.Domain = parsedURL.Host
	return nil
}

func (t *Scraper) fetch(ctx context.Context, link string) (*goquery.Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("Accept", DefaultAccept)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from webpage: %d", httpResp.StatusCode)
	}
	return goquery.NewDocumentFromReader(io.LimitReader(httpResp.Body, t.maxContentLength))
}

// extractMainContent strips boilerplate and returns the most content-rich node
func (t *Scraper) extractMainContent(doc *goquery.Document) string {
	for _, tag := range []string{"script", "style", "nav", "header", "footer", "aside"} {
		doc.Find(tag).Remove()
	}
	for _, selector := range []string{"main", "article", "#content", ".content", "body"} {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		if txt, err := sel.Html(); err == nil && strings.TrimSpace(txt) != "" {
			return txt
		}
	}
	return ""
}

var blankLines = regexp.MustCompile(`\n{3,}`)

func cleanMarkdown(content string) string {
	return strings.TrimSpace(blankLines.ReplaceAllString(content, "\n\n"))
}
