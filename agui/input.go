package agui

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/scout"
)

// RunAgentInput is the body of an invocation request. It follows the AG-UI
// RunAgentInput shape and also accepts a bare prompt for simple clients.
type RunAgentInput struct {
	ThreadID string           `json:"thread_id"`
	RunID    string           `json:"run_id"`
	Messages []events.Message `json:"messages,omitempty"`
	Prompt   string           `json:"prompt,omitempty"`
	State    any              `json:"state,omitempty"`
}

// PreparedInput is a validated invocation ready for an agent run.
type PreparedInput struct {
	ThreadID string
	RunID    string
	// Prompt is the user message to run.
	Prompt string
	// History holds the messages sent before the prompt. It is empty when
	// the client relies on the server-side conversation.
	History []scout.Message
	State   any
}

// ErrNoPrompt is returned when the input carries no user message to run.
var ErrNoPrompt = errors.New("agui: no prompt provided")

// Prepare validates the input. The prompt is Prompt when set, otherwise the
// content of the last user message, which is removed from History.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	p := &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		State:    r.State,
	}

	history := ToMessages(r.Messages)
	prompt := strings.TrimSpace(r.Prompt)
	if prompt == "" {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].Role == scout.RoleUser && strings.TrimSpace(history[i].Content) != "" {
				prompt = history[i].Content
				history = append(history[:i:i], history[i+1:]...)
				break
			}
		}
	}
	if prompt == "" {
		return nil, ErrNoPrompt
	}

	p.Prompt = prompt
	p.History = history
	return p, nil
}

// DecodeState decodes the raw state into a typed struct.
// Returns the zero value of T if State is nil.
func DecodeState[T any](input *PreparedInput) (T, error) {
	var result T
	if input.State == nil {
		return result, nil
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}
	return result, nil
}
