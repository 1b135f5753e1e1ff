package research

import "testing"

func TestSubtaskPrompt(t *testing.T) {
	task := Subtask{Description: "find the founding year", FocusArea: "history"}
	want := "Research Task: find the founding year\nFocus Area: history"
	if got := task.Prompt(); got != want {
		t.Errorf("Expect %q, but got %q", want, got)
	}
}

func TestSubtaskBatchValidate(t *testing.T) {
	batch := NewSubtaskBatch(
		Subtask{Description: "d1", FocusArea: "f1"},
		Subtask{Description: "d2", FocusArea: "f2"},
	)
	if err := batch.Validate(); err != nil {
		t.Errorf("Expect valid batch, but got %v", err)
	}
}

func TestSubtaskBatchValidateEmpty(t *testing.T) {
	batch := NewSubtaskBatch()
	if err := batch.Validate(); err == nil {
		t.Error("Expect error for empty batch")
	}
}

func TestSubtaskBatchValidateMissingFields(t *testing.T) {
	tests := []Subtask{
		{FocusArea: "focus only"},
		{Description: "description only"},
	}
	for _, task := range tests {
		batch := NewSubtaskBatch(task)
		if err := batch.Validate(); err == nil {
			t.Errorf("Expect error for incomplete subtask %+v", task)
		}
	}
}
