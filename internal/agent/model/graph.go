package model

// ToolParameters maps a parameter name to its inferred value. Absent keys
// (or nil values) mean the value could not be determined.
type ToolParameters map[string]any

// ExtractedParameters maps a tool name to its extracted parameters.
type ExtractedParameters map[string]ToolParameters

// ValidationResult partitions ExtractedParameters. A tool appears in exactly
// one of the two maps.
type ValidationResult struct {
	CompleteTools   map[string]ToolParameters
	IncompleteTools map[string][]string
}

// Outcome names the terminal branch taken by a turn.
type Outcome string

const (
	OutcomeTools   Outcome = "tools"
	OutcomeClarify Outcome = "clarify"
	OutcomeNoMatch Outcome = "no_match"
)

// TurnInput is the graph input for a single turn.
type TurnInput struct {
	SessionID string
	UserInput string
	// History holds the messages that precede UserInput.
	History  []ChatMessage
	UserInfo UserInfo
}

// PipelineState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - Registered as Graph Local State via compose.WithGenLocalState, one per Invoke.
//   - Reads/writes happen only inside state handlers or compose.ProcessState,
//     which Eino serializes, so no mutex is required.
type PipelineState struct {
	SessionID             string
	UserInput             string
	History               []ChatMessage
	UserInfo              UserInfo
	ClassifiedTools       []string
	ExtractedParameters   ExtractedParameters
	CompleteTools         map[string]ToolParameters
	IncompleteTools       map[string][]string
	ClarificationQuestion string
}

// TurnResult is the terminal output of the pipeline.
type TurnResult struct {
	Outcome               Outcome             `json:"outcome"`
	ClassifiedTools       []string            `json:"classifiedTools,omitempty"`
	ExtractedParameters   ExtractedParameters `json:"extractedParameters,omitempty"`
	ClarificationQuestion string              `json:"clarification_question,omitempty"`
	// AssistantMessage is the text appended to the chat history for this turn.
	AssistantMessage string `json:"-"`
}
