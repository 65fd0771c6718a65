package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Handler *Handler
	// CORSOrigins enables CORS for the listed origins; empty disables it.
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}
	r.Use(Metrics(), RequestLogger())

	r.GET("/health", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Handler == nil {
		return r
	}

	sessions := r.Group("/", Session())
	{
		sessions.POST("/chat", cfg.Handler.Chat)
		sessions.GET("/history", cfg.Handler.History)
		sessions.POST("/clear-chat", cfg.Handler.ClearChat)
		sessions.POST("/call-tool/:tool", cfg.Handler.CallTool)
		sessions.GET("/tools", cfg.Handler.Tools)
	}
	return r
}
