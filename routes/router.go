package routes

import (
	"github.com/gin-gonic/gin"

	"notesai/notesai/database"
	"notesai/notesai/middleware"
	"notesai/notesai/services"
)

// Services groups what the HTTP layer needs.
type Services struct {
	Auth       services.AuthServiceInterface
	Users      services.UserServiceInterface
	Notes      services.NoteServiceInterface
	Tags       services.TagListerInterface
	Summarizer services.Summarizer
	WebSocket  services.WebSocketServiceInterface
}

// SetupRouter registers every endpoint on router. Summarize endpoints are
// throttled by limiter.
func SetupRouter(router *gin.Engine, db *database.Database, svc Services, limiter *middleware.RateLimiter, allowedOrigins string) {
	router.Use(middleware.CORSMiddleware(allowedOrigins))

	RegisterHealthRoutes(router, db)
	RegisterAuthRoutes(router, db, svc.Auth)
	if svc.WebSocket != nil {
		RegisterWebSocketRoutes(router, svc.Auth, svc.WebSocket)
	}

	summarizeLimit := middleware.RateLimitMiddleware(limiter)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(svc.Auth))
	{
		RegisterUserRoutes(api, db, svc.Users)
		RegisterNoteRoutes(api, db, svc.Notes, summarizeLimit)
		RegisterTagRoutes(api, db, svc.Tags)
		RegisterSummarizeRoutes(api, db, svc.Summarizer, svc.Notes, summarizeLimit)
	}
}
