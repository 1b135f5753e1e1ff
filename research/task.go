package research

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bububa/deep-research/schema"
)

var validate = validator.New()

// Subtask is a focused research task assigned to a single worker agent.
// Immutable once created, consumed exactly once by one worker invocation.
type Subtask struct {
	// Description what the worker should research.
	Description string `json:"description" jsonschema:"title=description,description=What the worker should research." validate:"required"`
	// FocusArea the specific angle the worker should concentrate on.
	FocusArea string `json:"focus_area" jsonschema:"title=focus_area,description=The specific angle the worker should concentrate on." validate:"required"`
}

// Prompt renders the composite prompt a worker agent receives for this task
func (t Subtask) Prompt() string {
	return fmt.Sprintf("Research Task: %s\nFocus Area: %s", t.Description, t.FocusArea)
}

// SubtaskBatch is an ordered batch of subtasks for one dispatch round.
// Order is significant: findings are returned positionally aligned to it.
type SubtaskBatch struct {
	schema.Base
	// Tasks list of research tasks to run worker agents for.
	Tasks []Subtask `json:"tasks" jsonschema:"title=tasks,description=List of research tasks to run worker agents for." validate:"required,min=1,dive"`
}

// NewSubtaskBatch returns a batch for the given tasks
func NewSubtaskBatch(tasks ...Subtask) *SubtaskBatch {
	return &SubtaskBatch{
		Tasks: tasks,
	}
}

func (b SubtaskBatch) String() string {
	bs, _ := json.Marshal(b)
	return string(bs)
}

// Validate checks batch shape at the structured output trust boundary.
// A batch that fails here is rejected before dispatch, never coerced.
func (b *SubtaskBatch) Validate() error {
	return validate.Struct(b)
}
