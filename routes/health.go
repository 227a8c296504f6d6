package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notesai/notesai/database"
)

func RegisterHealthRoutes(router *gin.Engine, db *database.Database) {
	router.GET("/api/v1/health", func(c *gin.Context) { Health(c, db) })
}

func Health(c *gin.Context, db *database.Database) {
	if db == nil || db.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
