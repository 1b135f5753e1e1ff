package research

import "errors"

var (
	// ErrEmptyBatch is returned when a dispatch round receives no subtasks
	ErrEmptyBatch = errors.New("empty subtask batch")
	// ErrEmptyQuery is returned when a research run starts without a query
	ErrEmptyQuery = errors.New("empty research query")
	// ErrEmptyReport is returned when synthesis produced no markdown output
	ErrEmptyReport = errors.New("synthesis produced an empty report")
)
