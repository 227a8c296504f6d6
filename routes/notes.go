package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notesai/notesai/database"
	"notesai/notesai/models"
	"notesai/notesai/services"
	"notesai/notesai/utils/notecontent"
)

func RegisterNoteRoutes(group *gin.RouterGroup, db *database.Database, noteService services.NoteServiceInterface, summarizeLimit gin.HandlerFunc) {
	// Collection endpoints with query parameters
	group.GET("/notes", func(c *gin.Context) { GetNotes(c, db, noteService) })
	group.POST("/notes", func(c *gin.Context) { CreateNote(c, db, noteService) })

	// Resource-specific endpoints
	group.GET("/notes/:id", func(c *gin.Context) { GetNoteById(c, db, noteService) })
	group.PUT("/notes/:id", func(c *gin.Context) { UpdateNote(c, db, noteService) })
	group.DELETE("/notes/:id", func(c *gin.Context) { DeleteNote(c, db, noteService) })
	group.GET("/notes/:id/render", func(c *gin.Context) { RenderNote(c, db, noteService) })
	group.POST("/notes/:id/summarize", summarizeLimit, func(c *gin.Context) { SummarizeNote(c, db, noteService) })
}

func CreateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	var noteData map[string]interface{}
	if err := c.ShouldBindJSON(&noteData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdNote, err := noteService.CreateNote(db, userID, noteData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdNote)
}

func GetNoteById(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	note, err := noteService.GetNoteById(db, userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func UpdateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	var noteData map[string]interface{}
	if err := c.ShouldBindJSON(&noteData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updatedNote, err := noteService.UpdateNote(db, userID, c.Param("id"), noteData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updatedNote)
}

func DeleteNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	if err := noteService.DeleteNote(db, userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetNotes(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	query, err := models.ParseNoteQuery(c.Query("search"), c.Query("tag"), c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notes, err := noteService.ListNotes(db, userID, query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

type renderResponse struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
	notecontent.Rendered
}

func RenderNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	note, err := noteService.GetNoteById(db, userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, renderResponse{
		ID:       note.ID.String(),
		Title:    note.Title,
		Tags:     note.Tags,
		Rendered: notecontent.Render(note.Content),
	})
}

func SummarizeNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		respondNotAuthenticated(c)
		return
	}

	summary, note, err := noteService.SummarizeNote(c.Request.Context(), db, userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "note": note})
}
