package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bububa/deep-research/components"
	"github.com/bububa/deep-research/schema"
)

type stubLeadPlanner struct {
	batch SubtaskBatch
	err   error
}

func (s stubLeadPlanner) Run(ctx context.Context, in *schema.Input, out *SubtaskBatch, resp *components.ApiResponse) error {
	if s.err != nil {
		return s.err
	}
	*out = s.batch
	return nil
}

type stubEvaluator struct {
	calls *int
	eval  Evaluation
}

func (s stubEvaluator) Run(ctx context.Context, in *schema.Input, out *Evaluation, resp *components.ApiResponse) error {
	if s.calls != nil {
		*s.calls++
	}
	*out = s.eval
	return nil
}

type stubSynthesizer struct {
	markdown string
	prompt   *string
}

func (s stubSynthesizer) Run(ctx context.Context, in *schema.Input, out *Report, resp *components.ApiResponse) error {
	if s.prompt != nil {
		*s.prompt = in.ChatMessage
	}
	out.Markdown = s.markdown
	return nil
}

func countingDispatcher(invocations *int) *Dispatcher {
	return NewDispatcher(func() Worker {
		return stubWorker{fn: func(ctx context.Context, task Subtask) (string, error) {
			*invocations++
			return fmt.Sprintf("finding about %s", task.FocusArea), nil
		}}
	})
}

func TestCoordinatorFollowUpCap(t *testing.T) {
	var (
		workerCalls    int
		evaluatorCalls int
	)
	followUps := []Subtask{
		{Description: "dig deeper", FocusArea: "gap"},
		{Description: "check the other side", FocusArea: "contrast"},
	}
	c := NewCoordinator(
		stubLeadPlanner{batch: *testBatch(2)},
		// always finds gaps: the cap alone must terminate the run
		stubEvaluator{calls: &evaluatorCalls, eval: Evaluation{FollowUps: followUps}},
		stubSynthesizer{markdown: "# Report"},
		countingDispatcher(&workerCalls),
	)
	report, err := c.Research(context.Background(), "capped query")
	if err != nil {
		t.Fatalf("Error running research: %v", err)
	}
	if report != "# Report" {
		t.Errorf("Expect synthesized report, but got %q", report)
	}
	// 3 rounds of 2 tasks: 1 initial + 2 follow-up rounds
	if workerCalls != 6 {
		t.Errorf("Expect 6 worker invocations, but got %d", workerCalls)
	}
	if evaluatorCalls != 2 {
		t.Errorf("Expect 2 evaluations, but got %d", evaluatorCalls)
	}
}

func TestCoordinatorStopsWhenSufficient(t *testing.T) {
	var workerCalls int
	c := NewCoordinator(
		stubLeadPlanner{batch: *testBatch(3)},
		stubEvaluator{eval: Evaluation{Sufficient: true}},
		stubSynthesizer{markdown: "# Done"},
		countingDispatcher(&workerCalls),
	)
	if _, err := c.Research(context.Background(), "easy query"); err != nil {
		t.Fatalf("Error running research: %v", err)
	}
	if workerCalls != 3 {
		t.Errorf("Expect a single dispatch round, but got %d worker invocations", workerCalls)
	}
}

func TestCoordinatorSynthesisSeesAllFindings(t *testing.T) {
	var (
		workerCalls int
		prompt      string
	)
	c := NewCoordinator(
		stubLeadPlanner{batch: *NewSubtaskBatch(Subtask{Description: "initial", FocusArea: "alpha"})},
		stubEvaluator{eval: Evaluation{FollowUps: []Subtask{{Description: "follow up", FocusArea: "beta"}}}},
		stubSynthesizer{markdown: "# Report", prompt: &prompt},
		countingDispatcher(&workerCalls),
		WithFollowUpRounds(1),
	)
	if _, err := c.Research(context.Background(), "layered query"); err != nil {
		t.Fatalf("Error running research: %v", err)
	}
	for _, want := range []string{"finding about alpha", "finding about beta", "layered query"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expect synthesis prompt to contain %q, but got %q", want, prompt)
		}
	}
}

func TestCoordinatorRejectsInvalidPlan(t *testing.T) {
	var workerCalls int
	c := NewCoordinator(
		stubLeadPlanner{batch: SubtaskBatch{}},
		stubEvaluator{eval: Evaluation{Sufficient: true}},
		stubSynthesizer{markdown: "# Report"},
		countingDispatcher(&workerCalls),
	)
	if _, err := c.Research(context.Background(), "query"); err == nil {
		t.Fatal("Expect error for empty plan")
	}
	if workerCalls != 0 {
		t.Errorf("Expect no dispatch for invalid plan, but got %d", workerCalls)
	}
}

func TestCoordinatorEmptyQuery(t *testing.T) {
	c := NewCoordinator(
		stubLeadPlanner{},
		stubEvaluator{},
		stubSynthesizer{markdown: "# Report"},
		countingDispatcher(new(int)),
	)
	if _, err := c.Research(context.Background(), "  "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Expect ErrEmptyQuery, but got %v", err)
	}
}

func TestCoordinatorEmptyReport(t *testing.T) {
	c := NewCoordinator(
		stubLeadPlanner{batch: *testBatch(1)},
		stubEvaluator{eval: Evaluation{Sufficient: true}},
		stubSynthesizer{markdown: "   "},
		countingDispatcher(new(int)),
	)
	if _, err := c.Research(context.Background(), "query"); !errors.Is(err, ErrEmptyReport) {
		t.Errorf("Expect ErrEmptyReport, but got %v", err)
	}
}

func TestCoordinatorPropagatesWorkerFailure(t *testing.T) {
	wantErr := errors.New("agent invocation failed")
	d := NewDispatcher(func() Worker {
		return stubWorker{fn: func(ctx context.Context, task Subtask) (string, error) {
			return "", wantErr
		}}
	})
	c := NewCoordinator(
		stubLeadPlanner{batch: *testBatch(2)},
		stubEvaluator{eval: Evaluation{Sufficient: true}},
		stubSynthesizer{markdown: "# Report"},
		d,
	)
	if _, err := c.Research(context.Background(), "query"); !errors.Is(err, wantErr) {
		t.Errorf("Expect worker failure to abort the run, but got %v", err)
	}
}
