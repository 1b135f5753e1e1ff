package schema

import "encoding/json"

// Input is a generic chat input schema carrying a single user message
type Input struct {
	Base
	// ChatMessage The input message to the agent.
	ChatMessage string `json:"chat_message" jsonschema:"title=chat_message,description=The input message to the agent." validate:"required"`
}

// NewInput returns a new Input schema
func NewInput(msg string) *Input {
	return &Input{
		ChatMessage: msg,
	}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}
