package research

import (
	"context"
	"encoding/json"

	"github.com/bububa/deep-research/agents"
	"github.com/bububa/deep-research/components"
	"github.com/bububa/deep-research/components/systemprompt/cot"
	"github.com/bububa/deep-research/schema"
)

// DefaultPageReads caps how many planned page reads one worker invocation performs
const DefaultPageReads = 3

// Worker researches a single subtask and returns a free text finding.
type Worker interface {
	Research(ctx context.Context, task Subtask) (string, error)
}

// SearchPlan is the worker's own decision about which lookups to make.
// The orchestrator does not control query count or content.
type SearchPlan struct {
	schema.Base
	// Queries list of web search queries to run. May be empty for trivial tasks.
	Queries []string `json:"queries,omitempty" jsonschema:"title=queries,description=List of web search queries to run. Leave empty when no web search is needed."`
	// ReadURLs webpage URLs to read in full when the task points at specific pages.
	ReadURLs []string `json:"read_urls,omitempty" jsonschema:"title=read_urls,description=Webpage URLs to read in full when the task points at specific pages."`
}

func (s SearchPlan) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Finding is the worker's synthesized answer to one subtask.
type Finding struct {
	schema.Base
	// Answer the synthesized answer grounded in the gathered context.
	Answer string `json:"answer" jsonschema:"title=answer,description=The synthesized answer grounded in the gathered context." validate:"required"`
}

func (s Finding) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// model invocation stages, satisfied by *agents.Agent values
type searchPlanner interface {
	Run(context.Context, *schema.Input, *SearchPlan, *components.ApiResponse) error
	ResetMemory()
}

type findingComposer interface {
	Run(context.Context, *schema.Input, *Finding, *components.ApiResponse) error
	NewMessage(components.MessageRole, schema.Schema) *components.Message
	ResetMemory()
}

// WorkerAgent answers one focused research task grounded in web searches.
// Each invocation is independent: no conversational state survives between
// Research calls. Search queries are planned by the model itself, executed
// through the bound capability, and fed back as context for the final answer.
type WorkerAgent struct {
	planner          searchPlanner
	composer         findingComposer
	search           SearchCapability
	reader           PageReadCapability
	usage            *UsageTally
	maxSearchResults int
	maxPageReads     int
}

var _ Worker = (*WorkerAgent)(nil)

// NewWorkerAgent returns a worker bound exclusively to the given search
// capability. The agent options (client, model, temperature...) apply to both
// internal model stages.
func NewWorkerAgent(search SearchCapability, options ...agents.Option) *WorkerAgent {
	plannerOpts := make([]agents.Option, 0, len(options)+2)
	plannerOpts = append(plannerOpts, options...)
	plannerOpts = append(plannerOpts,
		agents.WithName("research-worker-planner"),
		agents.WithSystemPromptGenerator(plannerPromptGenerator()))
	composerOpts := make([]agents.Option, 0, len(options)+2)
	composerOpts = append(composerOpts, options...)
	composerOpts = append(composerOpts,
		agents.WithName("research-worker-composer"),
		agents.WithSystemPromptGenerator(composerPromptGenerator()))
	return &WorkerAgent{
		planner:          agents.NewAgent[schema.Input, SearchPlan](plannerOpts...),
		composer:         agents.NewAgent[schema.Input, Finding](composerOpts...),
		search:           search,
		maxSearchResults: DefaultSearchResults,
		maxPageReads:     DefaultPageReads,
	}
}

// SetPageReader binds an optional page reading capability
func (w *WorkerAgent) SetPageReader(reader PageReadCapability) *WorkerAgent {
	w.reader = reader
	return w
}

// SetUsageTally binds a token usage accumulator
func (w *WorkerAgent) SetUsageTally(tally *UsageTally) *WorkerAgent {
	w.usage = tally
	return w
}

// SetMaxSearchResults overrides the per-query result count
func (w *WorkerAgent) SetMaxSearchResults(n int) *WorkerAgent {
	if n > 0 {
		w.maxSearchResults = n
	}
	return w
}

// Research processes one task description plus focus area and returns a
// natural language finding. A model backend failure propagates to the caller;
// a degraded search does not, it reaches the model as an error text instead.
func (w *WorkerAgent) Research(ctx context.Context, task Subtask) (string, error) {
	w.planner.ResetMemory()
	w.composer.ResetMemory()
	input := schema.NewInput(task.Prompt())
	plan := new(SearchPlan)
	apiResp := new(components.ApiResponse)
	if err := w.planner.Run(ctx, input, plan, apiResp); err != nil {
		return "", err
	}
	w.usage.Collect(apiResp)
	for _, query := range plan.Queries {
		blob := w.search.Search(ctx, query, w.maxSearchResults)
		w.composer.NewMessage(components.SystemRole, schema.String(blob))
	}
	if w.reader != nil {
		for idx, link := range plan.ReadURLs {
			if idx >= w.maxPageReads {
				break
			}
			w.composer.NewMessage(components.SystemRole, schema.String(w.reader.ReadPage(ctx, link)))
		}
	}
	finding := new(Finding)
	apiResp = new(components.ApiResponse)
	if err := w.composer.Run(ctx, input, finding, apiResp); err != nil {
		return "", err
	}
	w.usage.Collect(apiResp)
	return finding.Answer, nil
}

func plannerPromptGenerator() *cot.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are a research assistant that plans web lookups for a given research task.",
			"- You have access to the internet through a web search capability and a webpage reader.",
		}),
		cot.WithSteps([]string{
			"- Read the research task and its focus area.",
			"- Decide which web search queries would ground an accurate answer.",
			"- List webpage URLs to read in full only when the task points at specific pages.",
			"- For simple greetings or trivial questions, plan no lookups at all.",
		}),
		cot.WithOutputInstructs([]string{
			"- Keep queries short, specific and non-overlapping.",
			"- Plan at most a handful of queries per task.",
		}),
	)
}

func composerPromptGenerator() *cot.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are a helpful assistant that returns real time information about a given subject or query.",
			"- Web search results gathered for the task are provided as extra context.",
		}),
		cot.WithSteps([]string{
			"- Answer the research task using the provided search results.",
			"- Make sure to ground your answer with results from the internet.",
			"- For simple greetings, you can answer freely without the web context.",
		}),
		cot.WithOutputInstructs([]string{
			"- Be comprehensive yet concise.",
			"- Report when the available context was insufficient instead of guessing.",
		}),
	)
}
