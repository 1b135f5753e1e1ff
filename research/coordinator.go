package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bububa/deep-research/components"
	"github.com/bububa/deep-research/schema"
)

// DefaultFollowUpRounds is the fixed cap on follow-up dispatch rounds after
// the initial one, guaranteeing termination at three rounds total.
const DefaultFollowUpRounds = 2

// Evaluation is the lead's critique of the findings collected so far.
type Evaluation struct {
	schema.Base
	// Sufficient true when the findings cover the research query comprehensively.
	Sufficient bool `json:"sufficient" jsonschema:"title=sufficient,description=True when the findings cover the research query comprehensively."`
	// Gaps knowledge gaps, contradictions or unexplored angles found in the findings.
	Gaps []string `json:"gaps,omitempty" jsonschema:"title=gaps,description=Knowledge gaps or unexplored angles found in the findings."`
	// FollowUps follow-up research tasks targeting the identified gaps.
	FollowUps []Subtask `json:"follow_ups,omitempty" jsonschema:"title=follow_ups,description=Follow-up research tasks targeting the identified gaps." validate:"omitempty,dive"`
}

func (s Evaluation) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// lead model stages, satisfied by the agents from lead.go
type planner interface {
	Run(context.Context, *schema.Input, *SubtaskBatch, *components.ApiResponse) error
}

type evaluator interface {
	Run(context.Context, *schema.Input, *Evaluation, *components.ApiResponse) error
}

type synthesizer interface {
	Run(context.Context, *schema.Input, *Report, *components.ApiResponse) error
}

// Coordinator is the orchestration state machine:
// Planning -> Dispatch Round -> Evaluate -> {Dispatch Round | Finalize}.
// Rounds run strictly sequentially; a new round is never issued before the
// previous one fully resolves.
type Coordinator struct {
	planner      planner
	evaluator    evaluator
	synthesizer  synthesizer
	dispatcher   *Dispatcher
	usage        *UsageTally
	logger       *slog.Logger
	maxFollowUps int
}

// NewCoordinator wires the lead stages to the dispatch capability.
func NewCoordinator(p planner, e evaluator, s synthesizer, d *Dispatcher, opts ...CoordinatorOption) *Coordinator {
	ret := &Coordinator{
		planner:      p,
		evaluator:    e,
		synthesizer:  s,
		dispatcher:   d,
		usage:        NewUsageTally(),
		maxFollowUps: DefaultFollowUpRounds,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}

type CoordinatorOption func(*Coordinator)

// WithFollowUpRounds overrides the follow-up round cap
func WithFollowUpRounds(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n >= 0 {
			c.maxFollowUps = n
		}
	}
}

// WithCoordinatorLogger sets the coordinator logger
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithUsageTally binds a shared token usage accumulator
func WithUsageTally(tally *UsageTally) CoordinatorOption {
	return func(c *Coordinator) {
		c.usage = tally
	}
}

// Usage returns the token usage accumulated by the lead stages so far
func (c *Coordinator) Usage() components.ApiUsage {
	return c.usage.Usage()
}

type roundNote struct {
	task    Subtask
	finding string
}

// Research runs the full orchestration for one query and returns the final
// markdown report. Model backend failures abort the run; degraded searches
// inside workers do not.
func (c *Coordinator) Research(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	logger := c.logger.With("run_id", uuid.NewString())
	logger.Info("planning research", "query", query)
	batch := new(SubtaskBatch)
	apiResp := new(components.ApiResponse)
	if err := c.planner.Run(ctx, schema.NewInput(planInstruction(query)), batch, apiResp); err != nil {
		return "", err
	}
	c.usage.Collect(apiResp)
	// structured output crosses a trust boundary here: reject malformed
	// plans before dispatch instead of coercing them
	if err := batch.Validate(); err != nil {
		return "", fmt.Errorf("invalid research plan: %w", err)
	}
	var notes []roundNote
	maxRounds := c.maxFollowUps + 1
	for round := 1; ; round++ {
		logger.Info("dispatch round", "round", round, "tasks", len(batch.Tasks))
		findings, err := c.dispatcher.Run(ctx, batch)
		if err != nil {
			return "", err
		}
		for idx, finding := range findings {
			notes = append(notes, roundNote{task: batch.Tasks[idx], finding: finding})
		}
		if round >= maxRounds {
			logger.Info("follow-up cap reached", "rounds", round)
			break
		}
		eval := new(Evaluation)
		apiResp = new(components.ApiResponse)
		if err := c.evaluator.Run(ctx, schema.NewInput(evalInstruction(query, notes)), eval, apiResp); err != nil {
			return "", err
		}
		c.usage.Collect(apiResp)
		if eval.Sufficient || len(eval.FollowUps) == 0 {
			logger.Info("coverage sufficient", "rounds", round)
			break
		}
		next := NewSubtaskBatch(eval.FollowUps...)
		if err := next.Validate(); err != nil {
			return "", fmt.Errorf("invalid follow-up plan: %w", err)
		}
		batch = next
	}
	logger.Info("synthesizing report", "findings", len(notes))
	report := new(Report)
	apiResp = new(components.ApiResponse)
	if err := c.synthesizer.Run(ctx, schema.NewInput(synthesisInstruction(query, notes)), report, apiResp); err != nil {
		return "", err
	}
	c.usage.Collect(apiResp)
	if strings.TrimSpace(report.Markdown) == "" {
		return "", ErrEmptyReport
	}
	return report.Markdown, nil
}

func planInstruction(query string) string {
	return fmt.Sprintf("Research Query: %s\n\nBreak this query down into 2-4 focused research subtasks, each targeting a distinct facet of the query.", query)
}

func evalInstruction(query string, notes []roundNote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Research Query: %s\n\n", query)
	writeFindings(&sb, notes)
	sb.WriteString("Assess whether these findings answer the research query, list the gaps, and create follow-up tasks for them.")
	return sb.String()
}

func synthesisInstruction(query string, notes []roundNote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Research Query: %s\n\n", query)
	writeFindings(&sb, notes)
	sb.WriteString("Synthesize all findings into the final research report.")
	return sb.String()
}

func writeFindings(sb *strings.Builder, notes []roundNote) {
	sb.WriteString("Collected Findings:\n\n")
	for _, note := range notes {
		fmt.Fprintf(sb, "### %s (Focus: %s)\n%s\n\n", note.task.Description, note.task.FocusArea, note.finding)
	}
}
