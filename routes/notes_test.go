package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notesai/notesai/models"
	"notesai/notesai/services"
	"notesai/notesai/testutils"
)

var noLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }

func setupNoteRouter(userID uuid.UUID, noteService services.NoteServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1", testutils.WithUser(userID))
	RegisterNoteRoutes(group, nil, noteService, noLimit)
	return router
}

func doJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateNote(t *testing.T) {
	userID := uuid.New()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	created := models.Note{ID: uuid.New(), UserID: userID, Title: "Groceries", Tags: []string{"home"}}
	noteService.On("CreateNote", mock.Anything, userID.String(), mock.MatchedBy(func(data map[string]interface{}) bool {
		return data["title"] == "Groceries"
	})).Return(created, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/notes", map[string]interface{}{"title": "Groceries", "tags": []string{"Home"}})

	assert.Equal(t, http.StatusCreated, w.Code)
	var response models.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, created.ID, response.ID)
	assert.Equal(t, []string{"home"}, response.Tags)
	noteService.AssertExpectations(t)
}

func TestCreateNote_ValidationError(t *testing.T) {
	userID := uuid.New()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	noteService.On("CreateNote", mock.Anything, userID.String(), mock.Anything).Return(models.Note{}, services.ErrTitleRequired)

	w := doJSON(router, http.MethodPost, "/api/v1/notes", map[string]interface{}{"title": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title is required")
}

func TestCreateNote_MalformedJSON(t *testing.T) {
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(uuid.New(), noteService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	noteService.AssertNotCalled(t, "CreateNote", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetNoteById_NotFound(t *testing.T) {
	userID := uuid.New()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	noteService.On("GetNoteById", mock.Anything, userID.String(), "missing").Return(models.Note{}, services.ErrNoteNotFound)

	w := doJSON(router, http.MethodGet, "/api/v1/notes/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Note not found")
}

func TestUpdateNote(t *testing.T) {
	userID := uuid.New()
	noteID := uuid.New()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	noteService.On("UpdateNote", mock.Anything, userID.String(), noteID.String(), mock.Anything).
		Return(models.Note{ID: noteID, UserID: userID, Title: "Renamed"}, nil)

	w := doJSON(router, http.MethodPut, "/api/v1/notes/"+noteID.String(), map[string]interface{}{"title": "Renamed"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Renamed")
}

func TestDeleteNote(t *testing.T) {
	userID := uuid.New()
	noteID := uuid.New().String()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	noteService.On("DeleteNote", mock.Anything, userID.String(), noteID).Return(nil).Once()
	noteService.On("DeleteNote", mock.Anything, userID.String(), noteID).Return(services.ErrNoteNotFound)

	w := doJSON(router, http.MethodDelete, "/api/v1/notes/"+noteID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/v1/notes/"+noteID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNotes_Query(t *testing.T) {
	userID := uuid.New()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	expected := models.NoteQuery{Search: "milk", Tag: "home", Sort: models.SortTitle}
	noteService.On("ListNotes", mock.Anything, userID.String(), expected).
		Return([]models.Note{{ID: uuid.New(), UserID: userID, Title: "Groceries"}}, nil)

	w := doJSON(router, http.MethodGet, "/api/v1/notes?search=milk&tag=Home&sort=title", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var notes []models.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	assert.Len(t, notes, 1)
	noteService.AssertExpectations(t)
}

func TestGetNotes_InvalidSort(t *testing.T) {
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(uuid.New(), noteService)

	w := doJSON(router, http.MethodGet, "/api/v1/notes?sort=random", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid sort order")
}

func TestRenderNote(t *testing.T) {
	userID := uuid.New()
	noteID := uuid.New()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	noteService.On("GetNoteById", mock.Anything, userID.String(), noteID.String()).Return(models.Note{
		ID:      noteID,
		UserID:  userID,
		Title:   "Rendered",
		Content: "<!-- noteColor: pink, noteStyle: dots -->\n**bold** body\n\n## Summary\nShort.",
		Tags:    []string{},
	}, nil)

	w := doJSON(router, http.MethodGet, "/api/v1/notes/"+noteID.String()+"/render", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, noteID.String(), response["id"])
	assert.Equal(t, "pink", response["color"])
	assert.Equal(t, "dots", response["style"])
	assert.Equal(t, "Short.", response["summary"])
	assert.Equal(t, true, response["has_summary"])
	assert.Contains(t, response["html"], "<strong>bold</strong>")
}

func TestSummarizeNote(t *testing.T) {
	userID := uuid.New()
	noteID := uuid.New()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	noteService.On("SummarizeNote", mock.Anything, mock.Anything, userID.String(), noteID.String()).
		Return("A summary.", models.Note{ID: noteID, Title: "Long"}, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/notes/"+noteID.String()+"/summarize", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"summary":"A summary."`)
}

func TestSummarizeNote_EmptyContent(t *testing.T) {
	userID := uuid.New()
	noteService := new(testutils.MockNoteService)
	router := setupNoteRouter(userID, noteService)

	noteService.On("SummarizeNote", mock.Anything, mock.Anything, userID.String(), "n1").
		Return("", models.Note{}, services.ErrEmptyContent)

	w := doJSON(router, http.MethodPost, "/api/v1/notes/n1/summarize", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Note content is empty, nothing to summarize"}`, w.Body.String())
}

func TestNoteRoutes_RequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	noteService := new(testutils.MockNoteService)
	RegisterNoteRoutes(router.Group("/api/v1"), nil, noteService, noLimit)

	w := doJSON(router, http.MethodGet, "/api/v1/notes", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
