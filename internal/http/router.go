package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/summerstudio/meetscribe-backend/internal/http/handlers"
	httpMW "github.com/summerstudio/meetscribe-backend/internal/http/middleware"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	MeetingHandler *httpH.MeetingHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.MeetingHandler != nil {
			api.POST("/meetings/analyze", cfg.MeetingHandler.Analyze)
			api.GET("/meetings", cfg.MeetingHandler.List)
			api.GET("/meetings/:id", cfg.MeetingHandler.Get)
			api.GET("/meetings/:id/mindmap", cfg.MeetingHandler.GetMindmap)
		}
	}

	return r
}
