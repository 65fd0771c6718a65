// Package oracle is the single entry point for inference calls. Every call
// names a task, carries a system instruction and a prompt, and declares the
// JSON shape its answer must have.
package oracle

import (
	"context"

	"github.com/invopop/jsonschema"
)

type Task string

const (
	TaskClassifyTools     Task = "classify_tools"
	TaskExtractParameters Task = "extract_parameters"
	TaskClarify           Task = "clarify"
	TaskClassifyState     Task = "classify_state"
)

func Tasks() []Task {
	return []Task{TaskClassifyTools, TaskExtractParameters, TaskClarify, TaskClassifyState}
}

// Request is one inference call. A nil Schema asks for free text.
type Request struct {
	Task   Task
	System string
	Prompt string
	Schema *jsonschema.Schema
}

// Oracle completes a request and decodes the answer into out. With a nil
// Schema out must be a *string.
//
// Failures are reported as errx.ErrOracleUnavailable when the call itself
// fails and errx.ErrOracleMalformed when the answer does not fit its shape.
type Oracle interface {
	Complete(ctx context.Context, req Request, out any) error
}
