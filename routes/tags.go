package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notesai/notesai/database"
	"notesai/notesai/services"
)

func RegisterTagRoutes(group *gin.RouterGroup, db *database.Database, tagService services.TagListerInterface) {
	group.GET("/tags", func(c *gin.Context) { GetTags(c, db, tagService) })
}

func GetTags(c *gin.Context, db *database.Database, tagService services.TagListerInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	tags, err := tagService.ListUserTags(db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}
