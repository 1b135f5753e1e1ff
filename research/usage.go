package research

import (
	"go.uber.org/atomic"

	"github.com/bububa/deep-research/components"
)

// UsageTally accumulates token usage across concurrent agent invocations.
type UsageTally struct {
	inputTokens  atomic.Int64
	outputTokens atomic.Int64
}

// NewUsageTally returns an empty tally
func NewUsageTally() *UsageTally {
	return new(UsageTally)
}

// Collect merges the usage of one api response into the tally
func (t *UsageTally) Collect(resp *components.ApiResponse) {
	if t == nil || resp == nil || resp.Usage == nil {
		return
	}
	t.inputTokens.Add(int64(resp.Usage.InputTokens))
	t.outputTokens.Add(int64(resp.Usage.OutputTokens))
}

// Usage returns the accumulated token usage
func (t *UsageTally) Usage() components.ApiUsage {
	return components.ApiUsage{
		InputTokens:  int(t.inputTokens.Load()),
		OutputTokens: int(t.outputTokens.Load()),
	}
}
