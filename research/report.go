package research

import (
	"encoding/json"

	"github.com/bububa/deep-research/schema"
)

// Report is the terminal artifact of a research run: a single markdown
// document with a fixed section structure and no citation list.
type Report struct {
	schema.Base
	// Markdown the full report in markdown format.
	Markdown string `json:"markdown" jsonschema:"title=markdown,description=The full research report in markdown format." validate:"required"`
}

func (s Report) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}
