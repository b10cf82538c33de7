package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/events/:id/contributions", h.EventContributions)

	v1 := r.Group("/v1")
	v1.POST("/authenticate", h.Authenticate)
	v1.GET("/politicians", h.ListPoliticians)
	v1.POST("/politicians", h.CreatePolitician)
	v1.POST("/events", h.CreateEvent)

	authed := v1.Group("", Auth(h.Redis))
	authed.POST("/get-user-data", h.GetUserData)
	authed.POST("/update-profile", h.UpdateProfile)
	authed.POST("/set-card", h.SetCard)
	authed.POST("/create-contribution", h.CreateContribution)

	return r
}
