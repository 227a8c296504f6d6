package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"notesai/notesai/database"
	"notesai/notesai/services"
)

type summarizeRequest struct {
	Text   string `json:"text"`
	NoteID string `json:"noteId"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func RegisterSummarizeRoutes(group *gin.RouterGroup, db *database.Database, summarizer services.Summarizer, noteService services.NoteServiceInterface, summarizeLimit gin.HandlerFunc) {
	group.POST("/summarize", summarizeLimit, func(c *gin.Context) { Summarize(c, db, summarizer, noteService) })
}

// Summarize returns a summary of the posted text. With a noteId the summary
// is also stored on that note; a failure to store it does not fail the call.
func Summarize(c *gin.Context, db *database.Database, summarizer services.Summarizer, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	var request summarizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(request.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	summary := summarizer.Summarize(c.Request.Context(), request.Text)

	if request.NoteID != "" {
		if _, err := noteService.ApplySummary(db, userID, request.NoteID, summary); err != nil {
			log.Printf("Failed to store summary on note %s: %v", request.NoteID, err)
		}
	}

	c.JSON(http.StatusOK, summarizeResponse{Summary: summary})
}
