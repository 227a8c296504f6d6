package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notesai/notesai/database"
	"notesai/notesai/models"
	"notesai/notesai/testutils"
	"notesai/notesai/utils/notecontent"
)

func newTestNoteService() *NoteService {
	return NewNoteService(&TagService{}, &SummaryService{})
}

func pendingEvents(t *testing.T, db *database.Database, eventType string) []models.Event {
	t.Helper()
	var events []models.Event
	require.NoError(t, db.DB.Where("event = ?", eventType).Find(&events).Error)
	return events
}

func TestCreateNote_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	userID := uuid.New()

	note, err := service.CreateNote(db, userID.String(), map[string]interface{}{
		"title":   "Groceries",
		"content": "<p>Milk</p>",
		"tags":    []interface{}{"Home", "home", " errands "},
		"color":   "blue",
		"style":   "grid",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, note.ID)
	assert.Equal(t, userID, note.UserID)
	assert.Equal(t, "<!-- noteColor: blue, noteStyle: grid -->\n<p>Milk</p>", note.Content)
	assert.Equal(t, []string{"home", "errands"}, note.Tags)

	events := pendingEvents(t, db, "note.created")
	require.Len(t, events, 1)
	assert.Equal(t, userID.String(), events[0].ActorID)
	assert.False(t, events[0].Dispatched)
}

func TestCreateNote_DefaultMetadata(t *testing.T) {
	db := testutils.SetupTestDB(t)
	note, err := newTestNoteService().CreateNote(db, uuid.New().String(), map[string]interface{}{"title": "Plain"})
	require.NoError(t, err)

	meta, body := notecontent.Decode(note.Content)
	assert.Equal(t, notecontent.DefaultMetadata(), meta)
	assert.Empty(t, body)
	assert.Equal(t, []string{}, note.Tags)
}

func TestCreateNote_Validation(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	userID := uuid.New().String()

	_, err := service.CreateNote(db, userID, map[string]interface{}{"title": "   "})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = service.CreateNote(db, userID, map[string]interface{}{"content": "no title"})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = service.CreateNote(db, userID, map[string]interface{}{"title": "x", "color": "purple"})
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = service.CreateNote(db, userID, map[string]interface{}{"title": "x", "style": "wavy"})
	assert.ErrorIs(t, err, ErrInvalidStyle)

	_, err = service.CreateNote(db, userID, map[string]interface{}{"title": "x", "tags": "work"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	many := make([]interface{}, 11)
	for i := range many {
		many[i] = strings.Repeat("t", i+1)
	}
	_, err = service.CreateNote(db, userID, map[string]interface{}{"title": "x", "tags": many})
	assert.ErrorIs(t, err, ErrTooManyTags)

	var count int64
	db.DB.Model(&models.Note{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetNoteById_ScopedToOwner(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{"title": "Mine", "tags": []interface{}{"a"}})
	require.NoError(t, err)

	got, err := service.GetNoteById(db, owner, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
	assert.Equal(t, []string{"a"}, got.Tags)

	_, err = service.GetNoteById(db, uuid.New().String(), created.ID.String())
	assert.ErrorIs(t, err, ErrNoteNotFound)

	_, err = service.GetNoteById(db, owner, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestGetNoteById_NotFound(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New().String()
	userID := uuid.New().String()

	mock.ExpectQuery(`SELECT (.+) FROM "notes" WHERE (.+)`).
		WithArgs(noteID, userID, 1).
		WillReturnRows(testutils.EmptyRows("id", "user_id", "title", "content"))

	_, err := newTestNoteService().GetNoteById(db, userID, noteID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNote_PartialFields(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{
		"title":   "Draft",
		"content": "Body",
		"tags":    []interface{}{"work"},
		"color":   "pink",
		"style":   "dots",
	})
	require.NoError(t, err)

	// title only: content, metadata and tags are kept
	updated, err := service.UpdateNote(db, owner, created.ID.String(), map[string]interface{}{"title": "Final"})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, created.Content, updated.Content)
	assert.Equal(t, []string{"work"}, updated.Tags)

	// new content without a marker keeps the stored metadata
	updated, err = service.UpdateNote(db, owner, created.ID.String(), map[string]interface{}{"content": "New body"})
	require.NoError(t, err)
	assert.Equal(t, "<!-- noteColor: pink, noteStyle: dots -->\nNew body", updated.Content)

	// style only rewrites the marker
	updated, err = service.UpdateNote(db, owner, created.ID.String(), map[string]interface{}{"style": "aged"})
	require.NoError(t, err)
	assert.Equal(t, "<!-- noteColor: pink, noteStyle: aged -->\nNew body", updated.Content)

	// tags are fully replaced
	updated, err = service.UpdateNote(db, owner, created.ID.String(), map[string]interface{}{"tags": []interface{}{"Ideas"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ideas"}, updated.Tags)

	stored, err := service.GetNoteById(db, owner, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, updated.Content, stored.Content)
	assert.Equal(t, []string{"ideas"}, stored.Tags)

	assert.Len(t, pendingEvents(t, db, "note.updated"), 4)
}

func TestCreateNote_ContentWithMarker(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{
		"title":   "t",
		"content": "<!-- noteColor: blue, noteStyle: grid -->\nbody",
	})
	require.NoError(t, err)
	assert.Equal(t, "<!-- noteColor: blue, noteStyle: grid -->\nbody", created.Content)

	meta, body := notecontent.Decode(created.Content)
	assert.Equal(t, notecontent.Metadata{Color: "blue", Style: "grid"}, meta)
	assert.Equal(t, "body", body)

	overridden, err := service.CreateNote(db, owner, map[string]interface{}{
		"title":   "t2",
		"content": "<!-- noteColor: blue, noteStyle: grid -->\nbody",
		"color":   "pink",
	})
	require.NoError(t, err)
	meta, _ = notecontent.Decode(overridden.Content)
	assert.Equal(t, notecontent.Metadata{Color: "pink", Style: "grid"}, meta)
	assert.Equal(t, 1, strings.Count(overridden.Content, "<!--"))
}

func TestUpdateNote_ContentWithMarker(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{"title": "t", "content": "old"})
	require.NoError(t, err)

	updated, err := service.UpdateNote(db, owner, created.ID.String(), map[string]interface{}{
		"content": "<!-- noteColor: green, noteStyle: grid -->\nfrom editor",
	})
	require.NoError(t, err)
	assert.Equal(t, "<!-- noteColor: green, noteStyle: grid -->\nfrom editor", updated.Content)
	assert.Equal(t, 1, strings.Count(updated.Content, "<!--"))
}

func TestUpdateNote_Errors(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{"title": "t"})
	require.NoError(t, err)

	_, err = service.UpdateNote(db, uuid.New().String(), created.ID.String(), map[string]interface{}{"title": "stolen"})
	assert.ErrorIs(t, err, ErrNoteNotFound)

	_, err = service.UpdateNote(db, owner, created.ID.String(), map[string]interface{}{"title": ""})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = service.UpdateNote(db, owner, created.ID.String(), map[string]interface{}{"color": "neon"})
	assert.ErrorIs(t, err, ErrInvalidColor)

	got, err := service.GetNoteById(db, owner, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestDeleteNote(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{"title": "t", "tags": []interface{}{"x"}})
	require.NoError(t, err)

	err = service.DeleteNote(db, uuid.New().String(), created.ID.String())
	assert.ErrorIs(t, err, ErrNoteNotFound)

	require.NoError(t, service.DeleteNote(db, owner, created.ID.String()))

	_, err = service.GetNoteById(db, owner, created.ID.String())
	assert.ErrorIs(t, err, ErrNoteNotFound)

	var joins int64
	db.DB.Model(&models.NoteTag{}).Where("note_id = ?", created.ID).Count(&joins)
	assert.Equal(t, int64(0), joins)
	assert.Len(t, pendingEvents(t, db, "note.deleted"), 1)

	err = service.DeleteNote(db, owner, created.ID.String())
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestListNotes_FiltersByUserAndQuery(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	alice := uuid.New().String()
	bob := uuid.New().String()

	for _, data := range []map[string]interface{}{
		{"title": "Work plan", "tags": []interface{}{"work"}},
		{"title": "Recipe", "content": "Bake the bread", "tags": []interface{}{"food"}},
		{"title": "Apples", "tags": []interface{}{"food", "shopping"}},
	} {
		_, err := service.CreateNote(db, alice, data)
		require.NoError(t, err)
	}
	_, err := service.CreateNote(db, bob, map[string]interface{}{"title": "Bob's bread"})
	require.NoError(t, err)

	all, err := service.ListNotes(db, alice, models.NoteQuery{Sort: models.SortTitle})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Apples", all[0].Title)
	assert.Equal(t, "Recipe", all[1].Title)
	assert.Equal(t, "Work plan", all[2].Title)

	food, err := service.ListNotes(db, alice, models.NoteQuery{Tag: "food", Sort: models.SortTitle})
	require.NoError(t, err)
	require.Len(t, food, 2)
	assert.Equal(t, []string{"food", "shopping"}, food[0].Tags)

	bread, err := service.ListNotes(db, alice, models.NoteQuery{Search: "BREAD", Sort: models.SortNewest})
	require.NoError(t, err)
	require.Len(t, bread, 1)
	assert.Equal(t, "Recipe", bread[0].Title)
}

func TestApplySummary_ReplacesPreviousSummary(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{"title": "t", "content": "Body", "tags": []interface{}{"x"}})
	require.NoError(t, err)

	_, err = service.ApplySummary(db, owner, created.ID.String(), "First.")
	require.NoError(t, err)
	updated, err := service.ApplySummary(db, owner, created.ID.String(), "Second.")
	require.NoError(t, err)

	assert.Equal(t, "<!-- noteColor: default, noteStyle: lined -->\nBody\n\n## Summary\nSecond.", updated.Content)
	assert.Equal(t, []string{"x"}, updated.Tags)
	assert.Len(t, pendingEvents(t, db, "note.summarized"), 2)

	_, err = service.ApplySummary(db, uuid.New().String(), created.ID.String(), "nope")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestSummarizeNote_UsesBodyOnly(t *testing.T) {
	db := testutils.SetupTestDB(t)
	summarizer := new(testutils.MockSummaryService)
	service := NewNoteService(&TagService{}, summarizer)
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{"title": "t", "content": "Hello world. This is a test.", "color": "yellow"})
	require.NoError(t, err)
	_, err = service.ApplySummary(db, owner, created.ID.String(), "Old summary.")
	require.NoError(t, err)

	summarizer.On("Summarize", mock.Anything, "Hello world. This is a test.").Return("Fresh summary.").Once()

	summary, note, err := service.SummarizeNote(context.Background(), db, owner, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Fresh summary.", summary)
	assert.Equal(t, "<!-- noteColor: yellow, noteStyle: lined -->\nHello world. This is a test.\n\n## Summary\nFresh summary.", note.Content)
	summarizer.AssertExpectations(t)
}

func TestSummarizeNote_Fallback(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := newTestNoteService()
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{"title": "t", "content": "Hello world. This is a test."})
	require.NoError(t, err)

	summary, _, err := service.SummarizeNote(context.Background(), db, owner, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "This note contains 6 words. Hello world. The note covers key information that has been condensed in this summary.", summary)
}

func TestSummarizeNote_EmptyContent(t *testing.T) {
	db := testutils.SetupTestDB(t)
	summarizer := new(testutils.MockSummaryService)
	service := NewNoteService(&TagService{}, summarizer)
	owner := uuid.New().String()

	created, err := service.CreateNote(db, owner, map[string]interface{}{"title": "t", "content": "<p> </p>"})
	require.NoError(t, err)

	_, _, err = service.SummarizeNote(context.Background(), db, owner, created.ID.String())
	assert.ErrorIs(t, err, ErrEmptyContent)
	summarizer.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
}
