package server

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Tharoon321/events-api/config"
	"github.com/Tharoon321/events-api/controllers"
	"github.com/Tharoon321/events-api/middleware"
)

// Deps are the handlers the router exposes.
type Deps struct {
	Events *controllers.EventController
	Teams  *controllers.TeamController
	Pinger controllers.Pinger
}

// NewRouter builds the gin engine.
//
//	GET  /health, /ready
//	POST /api/add, /api/events   (bearer token with the writer role when JWT_SECRET is set)
//	GET  /api/events, /api/events/:id, /api/teams/:id
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", controllers.Health)
	if d.Pinger != nil {
		r.GET("/ready", controllers.Ready(d.Pinger))
	}

	var guard []gin.HandlerFunc
	if cfg.AuthEnabled() {
		guard = []gin.HandlerFunc{middleware.Auth(cfg.JWTSecret), middleware.RequireRole(cfg.WriterRole)}
	}
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clone(guard), h)
	}

	api := r.Group("/api")
	{
		api.POST("/add", write(d.Events.AddEvent)...)

		events := api.Group("/events")
		{
			events.GET("", d.Events.ListEvents)
			events.GET("/:id", d.Events.GetEvent)
			events.POST("", write(d.Events.AddEvent)...)
		}

		if d.Teams != nil {
			api.GET("/teams/:id", d.Teams.GetTeam)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cc := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	cc.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cc.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	cc.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cc
}
