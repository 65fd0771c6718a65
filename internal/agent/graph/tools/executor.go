package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/go-playground/validator/v10"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
	"github.com/tutor-orchestrator/server/internal/metrics"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolResponse is the JSON envelope every tool returns.
type ToolResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Tool    string `json:"tool"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// FieldViolation describes one rejected input field.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func success(tool string, result any) *ToolResponse {
	return &ToolResponse{Status: StatusSuccess, Code: http.StatusOK, Tool: tool, Result: result}
}

func rejection(tool string, code int, msg string, details any) *ToolResponse {
	return &ToolResponse{Status: StatusError, Code: code, Tool: tool, Error: msg, Details: details}
}

// Executor runs the mocked tool back ends behind Eino invokable tools.
type Executor struct {
	registry *Registry
	validate *validator.Validate
	tools    map[string]tool.InvokableTool
	handler  einocb.Handler
}

// NewExecutor binds one invokable tool per registry entry. handler may be nil.
func NewExecutor(registry *Registry, handler einocb.Handler) (*Executor, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	e := &Executor{
		registry: registry,
		validate: v,
		tools:    map[string]tool.InvokableTool{},
		handler:  handler,
	}

	for _, s := range registry.Schemas() {
		var t tool.InvokableTool
		switch s.Name {
		case ToolNoteMaker:
			t = utils.NewTool(s.ToolInfo(), e.makeNotes)
		case ToolFlashcardGenerator:
			t = utils.NewTool(s.ToolInfo(), e.generateFlashcards)
		case ToolConceptExplainer:
			t = utils.NewTool(s.ToolInfo(), e.explainConcept)
		case ToolQuizGenerator:
			t = utils.NewTool(s.ToolInfo(), e.generateQuiz)
		default:
			return nil, fmt.Errorf("no executor for tool %q", s.Name)
		}
		e.tools[s.Name] = t
	}
	return e, nil
}

// Descriptors describes the tools this executor can run.
func (e *Executor) Descriptors() []Descriptor {
	return e.registry.Descriptors()
}

// Execute runs a tool with a JSON argument body. Every outcome, including
// unknown tools and rejected input, is reported in the returned envelope.
func (e *Executor) Execute(ctx context.Context, name, argumentsInJSON string) *ToolResponse {
	resp := e.execute(ctx, name, argumentsInJSON)
	metrics.RecordToolInvocation(name, strconv.Itoa(resp.Code))
	return resp
}

func (e *Executor) execute(ctx context.Context, name, argumentsInJSON string) *ToolResponse {
	t, ok := e.tools[name]
	if !ok {
		err := errx.UnknownTool(name)
		logx.Warn().Err(err).Str("tool_name", name).Msg("Unknown tool requested")
		return rejection(name, errx.StatusOf(err), errx.UnknownToolMessage, err.Error())
	}

	if e.handler != nil {
		ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{Name: name, Type: "TutorTool", Component: components.ComponentOfTool}, e.handler)
		ctx = einocb.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: argumentsInJSON})
	}

	out, err := t.InvokableRun(ctx, argumentsInJSON)
	if err != nil {
		if e.handler != nil {
			einocb.OnError(ctx, err)
		}
		logx.Warn().Err(err).Str("tool_name", name).Msg("Tool arguments could not be decoded")
		return rejection(name, http.StatusBadRequest, "invalid arguments", err.Error())
	}
	if e.handler != nil {
		einocb.OnEnd(ctx, &tool.CallbackOutput{Response: out})
	}

	var resp ToolResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		logx.Error().Err(err).Str("tool_name", name).Msg("Tool produced an unreadable response")
		return rejection(name, http.StatusInternalServerError, errx.SystemErrorMessage, nil)
	}
	return &resp
}

// check runs struct validation and turns violations into a 400 envelope.
func (e *Executor) check(name string, in any) *ToolResponse {
	err := e.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return rejection(name, http.StatusBadRequest, "invalid input", err.Error())
	}
	details := make([]FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldViolation{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	logx.Debug().Str("tool_name", name).Int("violations", len(details)).Msg("Tool input rejected by validation")
	return rejection(name, http.StatusBadRequest, "invalid input", details)
}

// adaptation summarises how the mocked output was adapted to the learner.
func adaptation(kind string, u model.UserInfo) string {
	emotion := strings.ToLower(string(u.EmotionalState))
	if emotion == "" {
		emotion = strings.ToLower(string(model.EmotionFocused))
	}
	band := u.MasteryLevel.Band()
	if band == "" {
		band = model.MasteryDeveloping.Band()
	}
	return fmt.Sprintf("%s adapted for a %s student at mastery level %s.", kind, emotion, band)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
