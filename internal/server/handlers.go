package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

// TutorService is the application surface the HTTP layer depends on.
type TutorService interface {
	Turn(ctx context.Context, sessionID, message string) (*model.TurnResult, error)
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	UserInfo(ctx context.Context, sessionID string) model.UserInfo
	ClearSession(ctx context.Context, sessionID string) error
	CallTool(ctx context.Context, sessionID, name string, args map[string]any) (*tools.ToolResponse, error)
	Tools() []tools.Descriptor
}

type Handler struct {
	svc TutorService
}

func NewHandler(svc TutorService) *Handler {
	return &Handler{svc: svc}
}

// chatRequest accepts either a form post with userInput or a JSON body with message.
type chatRequest struct {
	Message string `json:"message" form:"userInput"`
}

type historyResponse struct {
	SessionID string              `json:"session_id"`
	Messages  []model.ChatMessage `json:"messages"`
	UserInfo  model.UserInfo      `json:"user_info"`
}

// Chat runs one orchestration turn.
// POST /chat
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, errx.InvalidInput("request body must carry a message"))
		return
	}

	res, err := h.svc.Turn(c.Request.Context(), sessionID(c), req.Message)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, res)
}

// GET /history
func (h *Handler) History(c *gin.Context) {
	sid := sessionID(c)
	msgs, err := h.svc.History(c.Request.Context(), sid)
	if err != nil {
		RespondError(c, err)
		return
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	RespondOK(c, historyResponse{
		SessionID: sid,
		Messages:  msgs,
		UserInfo:  h.svc.UserInfo(c.Request.Context(), sid),
	})
}

// POST /clear-chat
func (h *Handler) ClearChat(c *gin.Context) {
	if err := h.svc.ClearSession(c.Request.Context(), sessionID(c)); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "cleared"})
}

// CallTool runs one tool directly and mirrors the tool's own status code.
// POST /call-tool/:tool
func (h *Handler) CallTool(c *gin.Context) {
	var args map[string]any
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, errx.InvalidInput("tool arguments must be a JSON object"))
		return
	}

	resp, err := h.svc.CallTool(c.Request.Context(), sessionID(c), c.Param("tool"), args)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(resp.Code, resp)
}

// GET /tools
func (h *Handler) Tools(c *gin.Context) {
	RespondOK(c, gin.H{"tools": h.svc.Tools()})
}

// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
